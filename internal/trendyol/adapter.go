package trendyol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"storesync_api/config"
	"storesync_api/internal/core/models"
	"storesync_api/internal/core/services"
	"storesync_api/metrics"
	"storesync_api/pkg/logger"
)

// Adapter реализует импорт с Trendyol: каталог и отзывы постранично через
// продавцовое API, метаданные витрины -- из HTML страницы магазина.
// Отзывы площадка отдаёт по каждому товару, поэтому scope -- по товару.
type Adapter struct {
	cfg      config.TrendyolConfig
	api      *apiClient
	web      *storefrontClient
	pageSize int
	log      logger.Logger
}

func NewAdapter(cfg config.TrendyolConfig, pageSize int, writer io.Writer) *Adapter {
	return &Adapter{
		cfg:      cfg,
		api:      newAPIClient(cfg.APIURL, writer),
		web:      newStorefrontClient(cfg.StorefrontURL, writer),
		pageSize: pageSize,
		log:      logger.NewLogger(writer, "[Trendyol]"),
	}
}

func (a *Adapter) Platform() models.PlatformType {
	return models.PlatformTrendyol
}

func (a *Adapter) ReviewScope() services.ReviewScope {
	return services.ReviewScopeProduct
}

func (a *Adapter) auth(creds models.ConnectInfo) services.AuthEngine {
	// нулевой *BasicTokenAuth нельзя заворачивать в интерфейс: проверка
	// auth != nil в клиенте перестанет его отсеивать
	if auth := services.NewBasicTokenAuth(creds.TokenKey, fmt.Sprintf("%s - Trendyolsoft", creds.StoreID)); auth != nil {
		return auth
	}
	return nil
}

// pagedResponse -- общий конверт постраничных ответов Trendyol: записи в
// content, общее число страниц сервер сообщает сразу.
type pagedResponse struct {
	Content       []map[string]interface{} `json:"content"`
	Page          int                      `json:"page"`
	Size          int                      `json:"size"`
	TotalPages    int                      `json:"totalPages"`
	TotalElements int                      `json:"totalElements"`
}

// FetchProducts возвращает одну страницу каталога. Пагинация завершается,
// когда номер страницы доходит до totalPages, заявленного сервером.
func (a *Adapter) FetchProducts(ctx context.Context, creds models.ConnectInfo, page int) (*services.ProductPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(a.pageSize))
	params.Set("approved", "true")

	var resp pagedResponse
	path := fmt.Sprintf("/suppliers/%s/products", url.PathEscape(creds.StoreID))
	if err := a.api.getJSON(ctx, path, params, a.auth(creds), &resp); err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(resp.Content))
	for _, raw := range resp.Content {
		products = append(products, normalizeProduct(raw))
	}

	return &services.ProductPage{
		Products: products,
		HasMore:  page < resp.TotalPages-1,
	}, nil
}

// FetchProductReviews возвращает одну страницу отзывов товара. Отзывы без
// текста отбрасываются ещё до нормализации и квоту не расходуют.
func (a *Adapter) FetchProductReviews(ctx context.Context, creds models.ConnectInfo, externalProductID string, page int) (*services.ReviewPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(a.pageSize))

	var resp pagedResponse
	path := fmt.Sprintf("/suppliers/%s/products/%s/reviews",
		url.PathEscape(creds.StoreID), url.PathEscape(externalProductID))
	if err := a.api.getJSON(ctx, path, params, a.auth(creds), &resp); err != nil {
		return nil, err
	}

	reviews := make([]models.Review, 0, len(resp.Content))
	for _, raw := range resp.Content {
		review, err := normalizeReview(raw, externalProductID)
		if err != nil {
			if errors.Is(err, errEmptyContent) {
				metrics.RecordSkip(models.PlatformTrendyol.String(), "review", "empty_content")
				continue
			}
			a.log.Log("Skipping malformed review of product %s: %v", externalProductID, err)
			metrics.RecordSkip(models.PlatformTrendyol.String(), "review", "error")
			continue
		}
		reviews = append(reviews, review)
	}

	return &services.ReviewPage{
		Reviews: reviews,
		HasMore: page < resp.TotalPages-1,
	}, nil
}

// FetchStoreReviews не поддерживается: Trendyol не отдаёт отзывы одной
// выгрузкой на магазин.
func (a *Adapter) FetchStoreReviews(ctx context.Context, creds models.ConnectInfo, page int) (*services.ReviewPage, error) {
	return nil, services.ErrNotSupported
}

func (a *Adapter) ParseStoreMetadata(ctx context.Context, creds models.ConnectInfo) (*services.StoreDetails, error) {
	return a.web.fetchStoreDetails(ctx, creds.StoreID)
}
