package trendyol

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func TestExtractStateBlob(t *testing.T) {
	html := `<html><head></head><body>
		<script id="other">{"x": 1}</script>
		<script id="storefront-state" type="application/json">
			{"name": "Mug Shop", "score": 4.7}
		</script>
	</body></html>`

	blob, err := extractStateBlob(html, stateScriptID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "Mug Shop", "score": 4.7}`, blob)
}

func TestExtractStateBlobErrors(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"missing script", `<html><body></body></html>`},
		{"unterminated tag", `<script id="storefront-state">{"name": "x"}`},
		{"empty body", `<script id="storefront-state">   </script>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractStateBlob(tt.html, stateScriptID)
			assert.Error(t, err)
		})
	}
}

func TestDecodeBodyWindows1254(t *testing.T) {
	// страница в турецкой кодировке должна читаться как корректный UTF-8
	original := "Güzel Mağaza Şubesi"
	encoded, _, err := transform.Bytes(charmap.Windows1254.NewEncoder(), []byte(original))
	require.NoError(t, err)

	decoded, err := decodeBody(bytes.NewReader(encoded), "text/html; charset=windows-1254")
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeBodyUTF8Passthrough(t *testing.T) {
	decoded, err := decodeBody(bytes.NewReader([]byte("plain utf-8")), "text/html; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, "plain utf-8", decoded)
}

func TestFetchStoreDetails(t *testing.T) {
	page := `<html><body>
		<script id="storefront-state" type="application/json">
			{"name": "Mağaza", "score": 4.2, "city": "İstanbul", "followers": 1200}
		</script>
	</body></html>`
	encoded, _, err := transform.Bytes(charmap.Windows1254.NewEncoder(), []byte(page))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/1001", r.URL.Path)
		w.Header().Set("Content-Type", "text/html; charset=windows-1254")
		w.Write(encoded)
	}))
	defer srv.Close()

	client := newStorefrontClient(srv.URL, io.Discard)
	details, err := client.fetchStoreDetails(context.Background(), "1001")
	require.NoError(t, err)

	assert.Equal(t, "Mağaza", details.Name)
	assert.Equal(t, 4.2, details.Rating)
	assert.Equal(t, "İstanbul", details.Location)
	assert.EqualValues(t, 1200, details.Raw["followers"])
}
