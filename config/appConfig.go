package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"storesync_api/config/values"
)

type Config interface {
}

type MarketplaceConfig interface {
}

type TrendyolConfig struct {
	APIURL string `yaml:"api_url"`
	// StorefrontURL -- базовый адрес витрины для выгрузки метаданных магазина.
	StorefrontURL string `yaml:"storefront_url"`
}

type HepsiburadaConfig struct {
	APIURL string `yaml:"api_url"`
}

type AppConfig struct {
	Directus    DirectusConfig      `yaml:"directus"`
	Trendyol    TrendyolConfig      `yaml:"trendyol"`
	Hepsiburada HepsiburadaConfig   `yaml:"hepsiburada"`
	Import      values.ImportValues `yaml:"import"`
	MetricsAddr string              `yaml:"metrics_addr"`
}

func LoadConfig(filename string) (*AppConfig, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	config := &AppConfig{}
	if err := decoder.Decode(config); err != nil {
		return nil, err
	}
	config.applyDefaults()
	return config, nil
}

// DefaultConfig возвращает конфигурацию без yaml-файла: хранилище из
// окружения, адреса площадок по умолчанию.
func DefaultConfig() *AppConfig {
	config := &AppConfig{}
	config.applyDefaults()
	return config
}

func (c *AppConfig) applyDefaults() {
	if c.Directus.APIURL == "" || c.Directus.APIToken == "" {
		env := GetDirectusConfig()
		if c.Directus.APIURL == "" {
			c.Directus.APIURL = env.APIURL
		}
		if c.Directus.APIToken == "" {
			c.Directus.APIToken = env.APIToken
		}
	}
	if c.Trendyol.APIURL == "" {
		c.Trendyol.APIURL = "https://api.trendyol.com/sapigw"
	}
	if c.Trendyol.StorefrontURL == "" {
		c.Trendyol.StorefrontURL = "https://www.trendyol.com/magaza/profil"
	}
	if c.Hepsiburada.APIURL == "" {
		c.Hepsiburada.APIURL = "https://listing-external.hepsiburada.com"
	}
	c.Import = c.Import.Normalize()
}
