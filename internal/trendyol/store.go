package trendyol

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"storesync_api/internal/core/services"
	"storesync_api/pkg/logger"
	"storesync_api/pkg/middleware"
)

// stateScriptID -- id script-тега со встроенным JSON-состоянием витрины.
const stateScriptID = "storefront-state"

// storefrontClient выгружает публичную HTML-страницу магазина и достаёт из
// неё метаданные витрины.
type storefrontClient struct {
	baseURL string
	client  *http.Client
	log     logger.Logger
}

func newStorefrontClient(baseURL string, writer io.Writer) *storefrontClient {
	return &storefrontClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: middleware.NewMetricsTransport("trendyol", nil),
		},
		log: logger.NewLogger(writer, "[TrendyolStorefront]"),
	}
}

func (c *storefrontClient) fetchStoreDetails(ctx context.Context, storeID string) (*services.StoreDetails, error) {
	pageURL := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(storeID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch storefront page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code for storefront page: %d", resp.StatusCode)
	}

	body, err := decodeBody(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to read storefront page: %w", err)
	}

	blob, err := extractStateBlob(body, stateScriptID)
	if err != nil {
		return nil, err
	}

	var state map[string]interface{}
	if err := json.Unmarshal([]byte(blob), &state); err != nil {
		return nil, fmt.Errorf("failed to parse storefront state: %w", err)
	}

	details := &services.StoreDetails{Raw: state}
	if name, ok := state["name"].(string); ok {
		details.Name = name
	}
	if score, ok := state["score"].(float64); ok {
		details.Rating = score
	}
	if city, ok := state["city"].(string); ok {
		details.Location = city
	}
	return details, nil
}

// decodeBody приводит тело страницы к UTF-8. Витрина исторически отдаёт
// часть страниц в windows-1254 (турецкая кодировка).
func decodeBody(body io.Reader, contentType string) (string, error) {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "windows-1254") || strings.Contains(ct, "iso-8859-9") {
		body = transform.NewReader(body, charmap.Windows1254.NewDecoder())
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// extractStateBlob достаёт содержимое script-тега с известным id.
// Ограниченный поиск подстрок: страница большая, полноценный разбор DOM
// здесь не нужен.
func extractStateBlob(html, scriptID string) (string, error) {
	marker := fmt.Sprintf(`id="%s"`, scriptID)
	idx := strings.Index(html, marker)
	if idx < 0 {
		return "", fmt.Errorf("storefront state script '%s' not found", scriptID)
	}

	rest := html[idx:]
	open := strings.Index(rest, ">")
	if open < 0 {
		return "", fmt.Errorf("malformed script tag for '%s'", scriptID)
	}
	rest = rest[open+1:]

	closing := strings.Index(rest, "</script>")
	if closing < 0 {
		return "", fmt.Errorf("unterminated script tag for '%s'", scriptID)
	}

	blob := strings.TrimSpace(rest[:closing])
	if blob == "" {
		return "", fmt.Errorf("storefront state script '%s' is empty", scriptID)
	}
	return blob, nil
}
