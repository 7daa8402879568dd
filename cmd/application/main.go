package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"

	"storesync_api/config"
	"storesync_api/internal/core/services"
	"storesync_api/internal/hepsiburada"
	"storesync_api/internal/importer"
	"storesync_api/internal/subscription"
	"storesync_api/internal/trendyol"
	"storesync_api/metrics"
	"storesync_api/pkg/directus"
	"storesync_api/pkg/logger"
)

func main() {
	configPath := flag.String("config", os.Getenv("APP_CONFIG"), "path to yaml config")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if *configPath != "" {
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", *configPath, err)
		}
	} else {
		cfg = config.DefaultConfig()
	}
	if cfg.Directus.APIToken == "" {
		log.Fatal("Content store token is not set (DIRECTUS_API_TOKEN)")
	}

	writer := os.Stdout
	_log := logger.NewLogger(writer, "[App]")
	_log.Log("Started storefront import pass")

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.MetricsHandler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				_log.Log("Metrics listener stopped: %v", err)
			}
		}()
	}

	store := directus.NewClient(cfg.Directus.APIURL, cfg.Directus.APIToken, writer)

	registry := services.NewAdapterRegistry(logger.NewLogger(writer, "[Registry]"))
	if err := registry.Register(trendyol.NewAdapter(cfg.Trendyol, cfg.Import.PageSize, writer)); err != nil {
		log.Fatalf("Failed to register trendyol adapter: %v", err)
	}
	if err := registry.Register(hepsiburada.NewAdapter(cfg.Hepsiburada, cfg.Import.PageSize, writer)); err != nil {
		log.Fatalf("Failed to register hepsiburada adapter: %v", err)
	}

	subs := subscription.NewManager(store, writer)
	orchestrator := importer.NewOrchestrator(store, registry, subs, cfg.Import, writer)

	if err := orchestrator.RunOnce(context.Background()); err != nil {
		log.Fatalf("Import pass failed: %v", err)
	}
	_log.Log("Import pass finished")
}
