package services

import (
	"fmt"

	"storesync_api/internal/core/models"
	"storesync_api/pkg/logger"
)

// AdapterRegistry -- статическая таблица диспетчеризации платформа -> адаптер.
// Собирается один раз при старте; неизвестная платформа в данных магазина --
// конфигурационная ошибка, а не поздний сбой загрузки.
type AdapterRegistry struct {
	adapters map[models.PlatformType]PlatformAdapter
	log      logger.Logger
}

func NewAdapterRegistry(log logger.Logger) *AdapterRegistry {
	return &AdapterRegistry{
		adapters: make(map[models.PlatformType]PlatformAdapter),
		log:      log,
	}
}

func (r *AdapterRegistry) Register(adapter PlatformAdapter) error {
	if adapter == nil {
		err := fmt.Errorf("adapter is nil")
		r.log.Log("Error registering adapter: %v", err)
		return err
	}

	platform := adapter.Platform()
	if platform == "" {
		err := fmt.Errorf("adapter platform type cannot be empty")
		r.log.Log("Error registering adapter: %v", err)
		return err
	}
	if _, exists := r.adapters[platform]; exists {
		err := fmt.Errorf("adapter for platform '%s' already registered", platform)
		r.log.Log("Error registering adapter: %v", err)
		return err
	}

	r.adapters[platform] = adapter
	r.log.Log("Successfully registered platform adapter: %s", platform)
	return nil
}

func (r *AdapterRegistry) Get(platform models.PlatformType) (PlatformAdapter, error) {
	adapter, ok := r.adapters[platform]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for platform '%s'", platform)
	}
	return adapter, nil
}

func (r *AdapterRegistry) Platforms() []models.PlatformType {
	platforms := make([]models.PlatformType, 0, len(r.adapters))
	for p := range r.adapters {
		platforms = append(platforms, p)
	}
	return platforms
}
