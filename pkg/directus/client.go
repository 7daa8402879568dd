package directus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"storesync_api/pkg/logger"
)

// Client -- клиент коллекционного API хранилища контента (Directus).
// Поддерживает ровно те операции, которыми пользуется импортёр:
// filter/read, aggregate count, create, update.
type Client struct {
	ApiURL string
	token  string
	log    logger.Logger
	client *http.Client
}

func NewClient(apiURL, token string, writer io.Writer) *Client {
	return &Client{
		ApiURL: apiURL,
		token:  token,
		log:    logger.NewLogger(writer, "[Directus]"),
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Collection начинает построение запроса к коллекции.
func (c *Client) Collection(name string) *Query {
	return &Query{c: c, collection: name, limit: -1}
}

// Create inserts one item and decodes the created entity into out (optional).
func (c *Client) Create(ctx context.Context, collection string, item interface{}, out interface{}) error {
	return c.doRequest(ctx, http.MethodPost, c.collectionPath(collection), nil, item, out)
}

// Update patches one item by id and decodes the updated entity into out (optional).
func (c *Client) Update(ctx context.Context, collection, id string, patch interface{}, out interface{}) error {
	endpoint := fmt.Sprintf("%s/%s", c.collectionPath(collection), url.PathEscape(id))
	return c.doRequest(ctx, http.MethodPatch, endpoint, nil, patch, out)
}

// collectionPath отображает имя коллекции в путь API. Системные коллекции
// живут вне /items.
func (c *Client) collectionPath(collection string) string {
	if collection == "directus_users" {
		return "/users"
	}
	return "/items/" + url.PathEscape(collection)
}

type Query struct {
	c          *Client
	collection string
	filter     *Filter
	limit      int
}

func (q *Query) Filter(f *Filter) *Query {
	q.filter = f
	return q
}

func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Read выполняет запрос и раскладывает массив data в out (указатель на срез).
func (q *Query) Read(ctx context.Context, out interface{}) error {
	params := url.Values{}
	if q.filter != nil {
		encoded, err := json.Marshal(q.filter)
		if err != nil {
			return fmt.Errorf("failed to encode filter: %w", err)
		}
		params.Set("filter", string(encoded))
	}
	// limit шлётся всегда: без него сервер применяет свой страничный
	// потолок и молча обрезает выдачу; -1 -- явное "без лимита"
	params.Set("limit", strconv.Itoa(q.limit))
	return q.c.doRequest(ctx, http.MethodGet, q.c.collectionPath(q.collection), params, nil, out)
}

// CountAll возвращает число элементов коллекции, удовлетворяющих фильтру.
func (q *Query) CountAll(ctx context.Context) (int, error) {
	params := url.Values{}
	if q.filter != nil {
		encoded, err := json.Marshal(q.filter)
		if err != nil {
			return 0, fmt.Errorf("failed to encode filter: %w", err)
		}
		params.Set("filter", string(encoded))
	}
	params.Set("aggregate[count]", "*")

	var rows []struct {
		Count json.Number `json:"count"`
	}
	if err := q.c.doRequest(ctx, http.MethodGet, q.c.collectionPath(q.collection), params, nil, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	count, err := rows[0].Count.Int64()
	if err != nil {
		return 0, fmt.Errorf("unexpected count value %q: %w", rows[0].Count, err)
	}
	return int(count), nil
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values, requestBody interface{}, response interface{}) error {
	var bodyBytes []byte
	if requestBody != nil {
		var err error
		bodyBytes, err = json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	fullURL := c.ApiURL + endpoint
	if len(params) > 0 {
		fullURL = fullURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bytes.NewBuffer(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		select {
		case <-ctx.Done():
			return fmt.Errorf("request was cancelled: %w", ctx.Err())
		default:
			return fmt.Errorf("failed to execute request: %w", err)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("non-OK status for %s %s: %d", method, endpoint, resp.StatusCode)
	}

	if response == nil {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, response); err != nil {
		return fmt.Errorf("failed to unmarshal response data: %w", err)
	}
	return nil
}
