package hepsiburada

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storesync_api/config"
	"storesync_api/internal/core/models"
	"storesync_api/internal/core/services"
)

func testCreds() models.ConnectInfo {
	return models.ConnectInfo{StoreID: "merchant-7", TokenKey: "dG9rZW4="}
}

func newTestAdapter(srvURL string, pageSize int) *Adapter {
	return NewAdapter(config.HepsiburadaConfig{APIURL: srvURL}, pageSize, io.Discard)
}

func TestFetchProductsEmptyPageTermination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/listings/merchant/merchant-7", r.URL.Path)
		require.Equal(t, "Basic dG9rZW4=", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("offset") == "0" {
			require.Equal(t, "2", r.URL.Query().Get("limit"))
			fmt.Fprint(w, `{"listings": [
				{"hbSku": "HB-1", "merchantSku": "M-1", "listingName": "Kupa", "isSalable": true,
				 "price": {"amount": 99.5, "currency": "TRY"}},
				{"hbSku": "HB-2", "merchantSku": "M-2", "listingName": "Tabak", "isSalable": false}
			], "totalCount": 2}`)
			return
		}
		fmt.Fprint(w, `{"listings": [], "totalCount": 2}`)
	}))
	defer srv.Close()

	adapter := newTestAdapter(srv.URL, 2)
	ctx := context.Background()

	first, err := adapter.FetchProducts(ctx, testCreds(), 0)
	require.NoError(t, err)
	require.Len(t, first.Products, 2)
	assert.True(t, first.HasMore)
	assert.Equal(t, "HB-1", first.Products[0].ProductID)
	assert.Equal(t, 99.5, first.Products[0].Price)
	assert.Equal(t, models.ProductStatusPublished, first.Products[0].Status)
	assert.Equal(t, models.ProductStatusDraft, first.Products[1].Status)

	// пустая страница завершает пагинацию
	last, err := adapter.FetchProducts(ctx, testCreds(), 1)
	require.NoError(t, err)
	assert.Empty(t, last.Products)
	assert.False(t, last.HasMore)
}

func TestFetchProductReviewsNotSupported(t *testing.T) {
	adapter := newTestAdapter("http://unused", 10)
	_, err := adapter.FetchProductReviews(context.Background(), testCreds(), "HB-1", 0)
	assert.ErrorIs(t, err, services.ErrNotSupported)
}

func TestFetchStoreReviews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/reviews/merchant/merchant-7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "0" {
			fmt.Fprint(w, `{"reviews": [
				{"id": 501, "review": "Çok iyi", "star": 5, "createdAt": 1710498600000, "hbSku": "HB-1"},
				{"id": 502, "review": "", "star": 4, "createdAt": 1710498600000, "hbSku": "HB-1"},
				{"id": 503, "review": "Fena değil", "star": 3, "createdAt": "bozuk", "hbSku": "HB-2"}
			]}`)
			return
		}
		fmt.Fprint(w, `{"reviews": []}`)
	}))
	defer srv.Close()

	adapter := newTestAdapter(srv.URL, 50)
	ctx := context.Background()

	page, err := adapter.FetchStoreReviews(ctx, testCreds(), 0)
	require.NoError(t, err)

	// пустой текст и битая дата отброшены
	require.Len(t, page.Reviews, 1)
	review := page.Reviews[0]
	assert.Equal(t, "hepsiburada_501", review.ReviewID)
	assert.Equal(t, "HB-1", review.ExternalProductID)
	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, "2024-03-15", review.ReviewDate)
	assert.True(t, page.HasMore)

	last, err := adapter.FetchStoreReviews(ctx, testCreds(), 1)
	require.NoError(t, err)
	assert.Empty(t, last.Reviews)
	assert.False(t, last.HasMore)
}

func TestParseStoreMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/merchants/merchant-7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"name": "Mutfak Dünyası", "score": 4.4, "city": "Ankara"}`)
	}))
	defer srv.Close()

	adapter := newTestAdapter(srv.URL, 50)
	details, err := adapter.ParseStoreMetadata(context.Background(), testCreds())
	require.NoError(t, err)
	assert.Equal(t, "Mutfak Dünyası", details.Name)
	assert.Equal(t, 4.4, details.Rating)
	assert.Equal(t, "Ankara", details.Location)
}
