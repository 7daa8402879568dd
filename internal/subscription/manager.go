package subscription

import (
	"context"
	"fmt"
	"io"

	"storesync_api/pkg/directus"
	"storesync_api/pkg/logger"
)

// Manager читает лимиты пакета пользователя при старте прогона и сбрасывает
// прирост потребления в журнал по его окончании.
type Manager struct {
	store *directus.Client
	log   logger.Logger
}

func NewManager(store *directus.Client, writer io.Writer) *Manager {
	return &Manager{
		store: store,
		log:   logger.NewLogger(writer, "[Subscription]"),
	}
}

type userRecord struct {
	ID        string `json:"id"`
	PackageID string `json:"package_id"`
}

type packageRecord struct {
	ID           string `json:"id"`
	ProductLimit int    `json:"product_limit"`
	ReviewLimit  int    `json:"review_limit"`
}

type usageRecord struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	ProductCount int    `json:"product_count"`
	ReviewCount  int    `json:"review_count"`
}

// InitializeLimits строит снимок квот: пользователь -> пакет -> лимиты,
// плюс текущий расход по фактическим записям пользователя в хранилище.
func (m *Manager) InitializeLimits(ctx context.Context, userID string) (*Limits, error) {
	var users []userRecord
	err := m.store.Collection("directus_users").
		Filter(directus.Eq("id", userID)).
		Limit(1).
		Read(ctx, &users)
	if err != nil {
		return nil, fmt.Errorf("failed to read user %s: %w", userID, err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user not found: %s", userID)
	}

	packageID := users[0].PackageID
	if packageID == "" {
		return nil, fmt.Errorf("user %s has no package assigned", userID)
	}

	var packages []packageRecord
	err = m.store.Collection("packages").
		Filter(directus.Eq("id", packageID)).
		Limit(1).
		Read(ctx, &packages)
	if err != nil {
		return nil, fmt.Errorf("failed to read package %s: %w", packageID, err)
	}
	if len(packages) == 0 {
		return nil, fmt.Errorf("package not found: %s", packageID)
	}

	currentProducts, err := m.store.Collection("products").
		Filter(directus.Eq("user", userID)).
		CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products of user %s: %w", userID, err)
	}
	currentReviews, err := m.store.Collection("reviews").
		Filter(directus.Eq("user", userID)).
		CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews of user %s: %w", userID, err)
	}

	m.log.Log("Limits for user %s: products %d/%d, reviews %d/%d",
		userID, currentProducts, packages[0].ProductLimit, currentReviews, packages[0].ReviewLimit)

	return NewLimits(packages[0].ProductLimit, packages[0].ReviewLimit, currentProducts, currentReviews), nil
}

// FlushUsage записывает прирост прогона в журнал потребления:
// создаёт запись при первом использовании, иначе инкрементирует счётчики.
func (m *Manager) FlushUsage(ctx context.Context, userID string, limits *Limits) error {
	addedProducts, addedReviews := limits.UsageStats()
	if addedProducts == 0 && addedReviews == 0 {
		return nil
	}

	var usages []usageRecord
	err := m.store.Collection("subscription_usage").
		Filter(directus.Eq("user_id", userID)).
		Limit(1).
		Read(ctx, &usages)
	if err != nil {
		return fmt.Errorf("failed to read subscription usage of user %s: %w", userID, err)
	}

	if len(usages) > 0 {
		current := usages[0]
		patch := map[string]interface{}{
			"product_count": current.ProductCount + addedProducts,
			"review_count":  current.ReviewCount + addedReviews,
		}
		if err := m.store.Update(ctx, "subscription_usage", current.ID, patch, nil); err != nil {
			return fmt.Errorf("failed to update subscription usage of user %s: %w", userID, err)
		}
	} else {
		record := map[string]interface{}{
			"user_id":       userID,
			"product_count": addedProducts,
			"review_count":  addedReviews,
		}
		if err := m.store.Create(ctx, "subscription_usage", record, nil); err != nil {
			return fmt.Errorf("failed to create subscription usage of user %s: %w", userID, err)
		}
	}

	m.log.Log("Flushed usage for user %s: +%d products, +%d reviews", userID, addedProducts, addedReviews)
	return nil
}
