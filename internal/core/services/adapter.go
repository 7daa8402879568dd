package services

import (
	"context"
	"errors"

	"storesync_api/internal/core/models"
)

// ReviewScope определяет, как площадка отдаёт отзывы.
type ReviewScope int

const (
	// ReviewScopeProduct: отзывы запрашиваются постранично по каждому
	// товару, сразу после его обработки (depth-first).
	ReviewScopeProduct ReviewScope = iota
	// ReviewScopeStore: площадка отдаёт отзывы одним выгружаемым потоком
	// на весь магазин, после обработки всего каталога (breadth-first).
	ReviewScopeStore
)

// ProductPage -- одна страница каталога. Записи уже нормализованы, но ещё
// не привязаны к магазину и пользователю.
type ProductPage struct {
	Products []models.Product
	HasMore  bool
}

// ReviewPage -- одна страница отзывов.
type ReviewPage struct {
	Reviews []models.Review
	HasMore bool
}

// StoreDetails -- метаданные витрины, выгружаемые перед каталогом.
type StoreDetails struct {
	Name     string
	Rating   float64
	Location string
	Raw      map[string]interface{}
}

// ErrNotSupported возвращается адаптером на операции, не соответствующие
// его ReviewScope.
var ErrNotSupported = errors.New("operation is not supported by this platform")

// PlatformAdapter определяет, какие операции должен поддерживать адаптер
// площадки. Ретраев здесь нет: сбой страницы поднимается вызывающему.
type PlatformAdapter interface {
	Platform() models.PlatformType
	ReviewScope() ReviewScope

	// ParseStoreMetadata выгружает и разбирает метаданные витрины.
	ParseStoreMetadata(ctx context.Context, creds models.ConnectInfo) (*StoreDetails, error)

	// FetchProducts возвращает одну страницу каталога (нумерация с нуля).
	FetchProducts(ctx context.Context, creds models.ConnectInfo, page int) (*ProductPage, error)

	// FetchProductReviews возвращает страницу отзывов одного товара.
	// Только для ReviewScopeProduct.
	FetchProductReviews(ctx context.Context, creds models.ConnectInfo, externalProductID string, page int) (*ReviewPage, error)

	// FetchStoreReviews возвращает страницу отзывов всего магазина.
	// Только для ReviewScopeStore.
	FetchStoreReviews(ctx context.Context, creds models.ConnectInfo, page int) (*ReviewPage, error)
}
