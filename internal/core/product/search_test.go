// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package product_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fndrorato/webscrap-ia/internal/core/product"
	"github.com/fndrorato/webscrap-ia/internal/platform/apperr"
	"github.com/fndrorato/webscrap-ia/internal/platform/upstream"
)

// searchBackend fakes the scrape endpoint and records the bodies it received.
type searchBackend struct {
	mu      sync.Mutex
	queries []product.SearchQuery
	reply   string
}

func (b *searchBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/v1/products/nissei-search-detailed/" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var query product.SearchQuery
	_ = json.NewDecoder(r.Body).Decode(&query)

	b.mu.Lock()
	b.queries = append(b.queries, query)
	b.mu.Unlock()

	_, _ = w.Write([]byte(b.reply))
}

func (b *searchBackend) received() []product.SearchQuery {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]product.SearchQuery(nil), b.queries...)
}

const savedReply = `{
	"query": "notebook",
	"success": true,
	"scraping_results": {"total_products_found": 7, "products": [{"name": "ignored"}]},
	"database_results": {
		"saved_products_count": 1,
		"products": [{"id": 4, "name": "Notebook X", "price": "3500.00", "status": 1, "images": []}]
	}
}`

func newSearcher(t *testing.T, fake *searchBackend) *product.Searcher {
	t.Helper()

	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client, err := upstream.New(upstream.Options{BaseURL: server.URL, Timeout: 5 * time.Second}, staticCredentials{})
	require.NoError(t, err)

	return product.NewSearcher(product.NewRemoteRepository(client), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestSearcher_Limits checks the defaults and clamps applied before the scrape is requested.
*/
func TestSearcher_Limits(t *testing.T) {
	tests := []struct {
		name  string
		query product.SearchQuery
		want  product.SearchQuery
	}{
		{
			name:  "defaults",
			query: product.SearchQuery{Query: "  notebook "},
			want:  product.SearchQuery{Query: "notebook", MaxResults: 20, MaxDetailed: 5, MaxImages: 3},
		},
		{
			name:  "ceilings",
			query: product.SearchQuery{Query: "notebook", MaxResults: 500, MaxDetailed: 99, MaxImages: 40},
			want:  product.SearchQuery{Query: "notebook", MaxResults: 50, MaxDetailed: 10, MaxImages: 8},
		},
		{
			name:  "floors",
			query: product.SearchQuery{Query: "notebook", MaxResults: -3, MaxDetailed: -1, MaxImages: -9},
			want:  product.SearchQuery{Query: "notebook", MaxResults: 1, MaxDetailed: 1, MaxImages: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &searchBackend{reply: savedReply}
			searcher := newSearcher(t, fake)

			_, err := searcher.Search(context.Background(), tt.query)
			require.NoError(t, err)

			received := fake.received()
			require.Len(t, received, 1)
			assert.Equal(t, tt.want, received[0])
		})
	}
}

/*
TestSearcher_Results keeps the saved listings and drops the scraper diagnostics.
*/
func TestSearcher_Results(t *testing.T) {
	t.Run("saved", func(t *testing.T) {
		result, err := newSearcher(t, &searchBackend{reply: savedReply}).
			Search(context.Background(), product.SearchQuery{Query: "notebook"})
		require.NoError(t, err)

		assert.Equal(t, "notebook", result.Query)
		assert.Equal(t, 1, result.SavedCount)
		require.Len(t, result.Products, 1)
		assert.Equal(t, "Notebook X", result.Products[0].Name)
		assert.Equal(t, product.Amount("3500.00"), result.Products[0].Price)
	})

	t.Run("nothing_saved", func(t *testing.T) {
		result, err := newSearcher(t, &searchBackend{reply: `{"success":true,"database_results":{"saved_products_count":0}}`}).
			Search(context.Background(), product.SearchQuery{Query: "xx"})
		require.NoError(t, err)

		assert.NotNil(t, result.Products)
		assert.Empty(t, result.Products)
	})

	t.Run("scraper_error", func(t *testing.T) {
		_, err := newSearcher(t, &searchBackend{reply: `{"error":"Nenhuma configuração de IA válida encontrada"}`}).
			Search(context.Background(), product.SearchQuery{Query: "notebook"})

		assert.True(t, apperr.HasCode(err, apperr.CodeUpstreamRejected), "got %v", err)
	})
}

/*
TestSearcher_ShortQuery rejects queries under two characters without calling out.
*/
func TestSearcher_ShortQuery(t *testing.T) {
	for _, query := range []string{"", " a ", "é"} {
		t.Run(strings.TrimSpace(query), func(t *testing.T) {
			fake := &searchBackend{reply: savedReply}

			_, err := newSearcher(t, fake).Search(context.Background(), product.SearchQuery{Query: query})

			assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
			assert.Empty(t, fake.received())
		})
	}
}

/*
TestHandler_Search checks the JSON surface of the scrape search.
*/
func TestHandler_Search(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "ok", body: `{"query":"notebook","max_results":2}`, wantStatus: http.StatusOK},
		{name: "short", body: `{"query":"n"}`, wantStatus: http.StatusBadRequest},
		{name: "malformed", body: `{"query":`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := product.NewHandler(
				newView(t, &backend{}, nil),
				newSearcher(t, &searchBackend{reply: savedReply}),
			)

			request := httptest.NewRequest(http.MethodPost, "/search", bytes.NewBufferString(tt.body))
			request.Header.Set("Content-Type", "application/json")
			recorder := httptest.NewRecorder()

			handler.Routes().ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code, recorder.Body.String())
		})
	}
}
