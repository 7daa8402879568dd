package hepsiburada

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"storesync_api/config"
	"storesync_api/internal/core/models"
	"storesync_api/internal/core/services"
	"storesync_api/metrics"
	"storesync_api/pkg/logger"
	"storesync_api/pkg/middleware"
)

// Adapter реализует импорт с Hepsiburada. Площадка не сообщает общее число
// страниц: и каталог, и отзывы листаются до первой пустой страницы.
// Отзывы отдаются одной выгрузкой на весь магазин, поэтому scope -- по
// магазину: сопоставление с карточками делает оркестратор по внешним id.
type Adapter struct {
	cfg      config.HepsiburadaConfig
	client   *http.Client
	pageSize int
	log      logger.Logger
}

func NewAdapter(cfg config.HepsiburadaConfig, pageSize int, writer io.Writer) *Adapter {
	return &Adapter{
		cfg: cfg,
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: middleware.NewMetricsTransport("hepsiburada", nil),
		},
		pageSize: pageSize,
		log:      logger.NewLogger(writer, "[Hepsiburada]"),
	}
}

func (a *Adapter) Platform() models.PlatformType {
	return models.PlatformHepsiburada
}

func (a *Adapter) ReviewScope() services.ReviewScope {
	return services.ReviewScopeStore
}

func (a *Adapter) getJSON(ctx context.Context, path string, params url.Values, creds models.ConnectInfo, out interface{}) error {
	fullURL := a.cfg.APIURL + path
	if len(params) > 0 {
		fullURL = fullURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if auth := services.NewBasicTokenAuth(creds.TokenKey, creds.StoreID); auth != nil {
		auth.SetApiKey(req)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code for %s: %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response of %s: %w", path, err)
	}
	return nil
}

type listingResponse struct {
	Listings   []map[string]interface{} `json:"listings"`
	TotalCount int                      `json:"totalCount"`
}

// FetchProducts возвращает одну страницу каталога. Пустой список записей
// означает конец выгрузки.
func (a *Adapter) FetchProducts(ctx context.Context, creds models.ConnectInfo, page int) (*services.ProductPage, error) {
	params := url.Values{}
	params.Set("offset", strconv.Itoa(page*a.pageSize))
	params.Set("limit", strconv.Itoa(a.pageSize))

	var resp listingResponse
	path := fmt.Sprintf("/listings/merchant/%s", url.PathEscape(creds.StoreID))
	if err := a.getJSON(ctx, path, params, creds, &resp); err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(resp.Listings))
	for _, raw := range resp.Listings {
		products = append(products, normalizeProduct(raw))
	}

	return &services.ProductPage{
		Products: products,
		HasMore:  len(resp.Listings) > 0,
	}, nil
}

// FetchProductReviews не поддерживается: Hepsiburada не отдаёт отзывы по
// отдельному товару.
func (a *Adapter) FetchProductReviews(ctx context.Context, creds models.ConnectInfo, externalProductID string, page int) (*services.ReviewPage, error) {
	return nil, services.ErrNotSupported
}

type reviewResponse struct {
	Reviews []map[string]interface{} `json:"reviews"`
}

// FetchStoreReviews возвращает одну страницу выгрузки отзывов всего
// магазина. Пустая страница завершает выгрузку.
func (a *Adapter) FetchStoreReviews(ctx context.Context, creds models.ConnectInfo, page int) (*services.ReviewPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(a.pageSize))

	var resp reviewResponse
	path := fmt.Sprintf("/reviews/merchant/%s", url.PathEscape(creds.StoreID))
	if err := a.getJSON(ctx, path, params, creds, &resp); err != nil {
		return nil, err
	}

	reviews := make([]models.Review, 0, len(resp.Reviews))
	for _, raw := range resp.Reviews {
		review, err := normalizeReview(raw)
		if err != nil {
			if errors.Is(err, errEmptyContent) {
				metrics.RecordSkip(models.PlatformHepsiburada.String(), "review", "empty_content")
				continue
			}
			a.log.Log("Skipping malformed review: %v", err)
			metrics.RecordSkip(models.PlatformHepsiburada.String(), "review", "error")
			continue
		}
		reviews = append(reviews, review)
	}

	return &services.ReviewPage{
		Reviews: reviews,
		HasMore: len(resp.Reviews) > 0,
	}, nil
}

type merchantResponse struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	City  string  `json:"city"`
}

func (a *Adapter) ParseStoreMetadata(ctx context.Context, creds models.ConnectInfo) (*services.StoreDetails, error) {
	var resp merchantResponse
	path := fmt.Sprintf("/merchants/%s", url.PathEscape(creds.StoreID))
	if err := a.getJSON(ctx, path, nil, creds, &resp); err != nil {
		return nil, err
	}
	return &services.StoreDetails{
		Name:     resp.Name,
		Rating:   resp.Score,
		Location: resp.City,
	}, nil
}
