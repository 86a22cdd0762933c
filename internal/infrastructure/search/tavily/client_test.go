package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Search(t *testing.T) {
	var got searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Bearer key-1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"query": got.Query,
			"results": []map[string]any{
				{"title": "Mercedes Sosa", "url": "https://en.wikipedia.org/wiki/Mercedes_Sosa", "content": "<p>Argentine singer &amp; activist</p>", "score": 0.9},
				{"title": "Discography", "url": "https://example.com/d", "content": "albums", "score": 0.5},
				{"title": "Extra", "url": "https://example.com/e", "content": "ignored", "score": 0.1},
			},
		})
	}))
	defer srv.Close()

	cfg := DefaultConfig("key-1")
	cfg.BaseURL = srv.URL
	c := NewClient(cfg)

	results, err := c.Search(context.Background(), "mercedes sosa", 2)
	require.NoError(t, err)

	assert.Equal(t, "mercedes sosa", got.Query)
	assert.Equal(t, 2, got.MaxResults)
	require.Len(t, results, 2)
	assert.Equal(t, "Argentine singer & activist", results[0].Content)
	assert.Equal(t, "https://example.com/d", results[1].URL)
}

func TestClient_SearchReportsHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"invalid api key"}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig("bad")
	cfg.BaseURL = srv.URL

	_, err := NewClient(cfg).Search(context.Background(), "x", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestClient_SearchErrorBodyKeepsRunesWhole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("x" + strings.Repeat("ü", 200)))
	}))
	defer srv.Close()

	cfg := DefaultConfig("k")
	cfg.BaseURL = srv.URL

	_, err := NewClient(cfg).Search(context.Background(), "x", 2)
	require.Error(t, err)
	assert.True(t, utf8.ValidString(err.Error()))
	assert.Contains(t, err.Error(), "502")
}
