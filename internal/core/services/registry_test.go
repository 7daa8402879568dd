package services

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storesync_api/internal/core/models"
	"storesync_api/pkg/logger"
)

type stubAdapter struct {
	platform models.PlatformType
}

func (s *stubAdapter) Platform() models.PlatformType { return s.platform }
func (s *stubAdapter) ReviewScope() ReviewScope      { return ReviewScopeProduct }
func (s *stubAdapter) ParseStoreMetadata(ctx context.Context, creds models.ConnectInfo) (*StoreDetails, error) {
	return nil, ErrNotSupported
}
func (s *stubAdapter) FetchProducts(ctx context.Context, creds models.ConnectInfo, page int) (*ProductPage, error) {
	return &ProductPage{}, nil
}
func (s *stubAdapter) FetchProductReviews(ctx context.Context, creds models.ConnectInfo, externalProductID string, page int) (*ReviewPage, error) {
	return &ReviewPage{}, nil
}
func (s *stubAdapter) FetchStoreReviews(ctx context.Context, creds models.ConnectInfo, page int) (*ReviewPage, error) {
	return nil, ErrNotSupported
}

func newTestRegistry() *AdapterRegistry {
	return NewAdapterRegistry(logger.NewLogger(io.Discard, "[Test]"))
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := newTestRegistry()
	adapter := &stubAdapter{platform: models.PlatformTrendyol}
	require.NoError(t, registry.Register(adapter))

	got, err := registry.Get(models.PlatformTrendyol)
	require.NoError(t, err)
	assert.Same(t, adapter, got)
}

func TestRegistryUnknownPlatform(t *testing.T) {
	registry := newTestRegistry()
	_, err := registry.Get(models.PlatformType("amazon"))
	assert.Error(t, err)
}

func TestRegistryRejectsBadAdapters(t *testing.T) {
	registry := newTestRegistry()
	assert.Error(t, registry.Register(nil))
	assert.Error(t, registry.Register(&stubAdapter{platform: ""}))

	require.NoError(t, registry.Register(&stubAdapter{platform: models.PlatformHepsiburada}))
	assert.Error(t, registry.Register(&stubAdapter{platform: models.PlatformHepsiburada}))
}

func TestRegistryPlatforms(t *testing.T) {
	registry := newTestRegistry()
	require.NoError(t, registry.Register(&stubAdapter{platform: models.PlatformTrendyol}))
	require.NoError(t, registry.Register(&stubAdapter{platform: models.PlatformHepsiburada}))
	assert.ElementsMatch(t,
		[]models.PlatformType{models.PlatformTrendyol, models.PlatformHepsiburada},
		registry.Platforms())
}
