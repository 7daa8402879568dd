package trendyol

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"storesync_api/internal/core/services"
	"storesync_api/pkg/logger"
	"storesync_api/pkg/middleware"
)

// apiClient -- низкоуровневый доступ к продавцовому API Trendyol.
// Ретраев нет: сбой поднимается вызывающему, решение за оркестратором.
type apiClient struct {
	baseURL string
	client  *http.Client
	log     logger.Logger
}

func newAPIClient(baseURL string, writer io.Writer) *apiClient {
	return &apiClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: middleware.NewMetricsTransport("trendyol", nil),
		},
		log: logger.NewLogger(writer, "[TrendyolClient]"),
	}
}

func (c *apiClient) getJSON(ctx context.Context, path string, params url.Values, auth services.AuthEngine, out interface{}) error {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL = fullURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if auth != nil {
		auth.SetApiKey(req)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
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
