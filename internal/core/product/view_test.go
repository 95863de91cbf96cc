// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package product_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/fndrorato/webscrap-ia/internal/catalog"
	"github.com/fndrorato/webscrap-ia/internal/core/product"
	"github.com/fndrorato/webscrap-ia/internal/platform/apperr"
	"github.com/fndrorato/webscrap-ia/internal/platform/upstream"
)

// # Fakes

// backend fakes the products endpoints. updateReply is written verbatim with updateStatus.
type backend struct {
	mu           sync.Mutex
	updateStatus int
	updateReply  string
	updates      []product.StatusChange
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/v1/products/status/1/":
		_, _ = w.Write([]byte(`{"products":[
			{"id":1,"name":"Notebook","price":"1999.00","sku_code":"NB-1","status":1,"images":[{"id":9,"image_url":"https://cdn/1.jpg","is_main":true}]},
			{"id":2,"name":"Mouse","price":25,"sku_code":"MS-2","status":1,"images":[]},
			{"id":3,"name":"Cable","price":null,"sku_code":"CB-3","status":1,"images":[]}
		]}`))
	case "/api/v1/products/update-status/":
		var change product.StatusChange
		_ = json.NewDecoder(r.Body).Decode(&change)

		b.mu.Lock()
		b.updates = append(b.updates, change)
		b.mu.Unlock()

		w.WriteHeader(b.updateStatus)
		_, _ = w.Write([]byte(b.updateReply))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type staticCredentials struct{}

func (staticCredentials) Token() (*oauth2.Token, bool) {
	return &oauth2.Token{AccessToken: "T1", TokenType: "Bearer"}, true
}

func (staticCredentials) SetToken(context.Context, *oauth2.Token) error { return nil }

type catalogSource struct{ active *catalog.Catalog }

func (s catalogSource) Catalog() (*catalog.Catalog, bool) { return s.active, s.active != nil }

func newView(t *testing.T, fake *backend, active *catalog.Catalog) *product.View {
	t.Helper()

	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client, err := upstream.New(upstream.Options{BaseURL: server.URL, Timeout: 5 * time.Second}, staticCredentials{})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	view := product.NewView(product.NewRemoteRepository(client), catalogSource{active}, logger)
	require.NoError(t, view.Mount(context.Background(), product.StatusPending))
	return view
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	active, err := catalog.Parse(`{
		"fornecedores": [{"nombre": "Acme", "cod_proveedor": "P1"}],
		"marcas": [{"cod_marca": "M1", "descripcion": "Logi"}],
		"rubros": [{"cod_rubro": "R1", "descripcion": "Informática"}, {"cod_rubro": "R2", "descripcion": "Hogar"}],
		"grupos": [{"cod_grupo": "G1", "cod_rubro": "R1", "descripcion": "Periféricos"}]
	}`)
	require.NoError(t, err)
	return active
}

// # Tests

/*
TestView_Mount decodes listings, including every price shape.
*/
func TestView_Mount(t *testing.T) {
	view := newView(t, &backend{}, nil)

	state := view.State()
	require.Len(t, state.Items, 3)
	assert.Equal(t, product.StatusPending, state.Status)
	assert.Equal(t, product.Amount("1999.00"), state.Items[0].Price)
	assert.Equal(t, product.Amount("25"), state.Items[1].Price)
	assert.Equal(t, product.Amount(""), state.Items[2].Price)
	assert.True(t, state.Items[0].Images[0].IsMain)
}

/*
TestView_ApproveOnlyOnConfirmedSuccess leaves the row untouched when the backend
reports failure, through either the transport status or the body.
*/
func TestView_ApproveOnlyOnConfirmedSuccess(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		reply      string
		wantStatus product.Status
		wantError  string
	}{
		{"confirmed", http.StatusOK, `{"message":"Status atualizado com sucesso","id":1,"status":"Aprovado"}`, product.StatusApproved, ""},
		{"transport_status", http.StatusBadRequest, `{"error":"cod_proveedor é obrigatório para status 2"}`, product.StatusPending, "cod_proveedor é obrigatório para status 2"},
		{"body_marker", http.StatusOK, `{"success":false,"message":"Sync disabled"}`, product.StatusPending, "Sync disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &backend{updateStatus: tt.status, updateReply: tt.reply}
			view := newView(t, fake, testCatalog(t))

			_, err := view.Approve(context.Background(), 1, catalog.Selection{SupplierCode: "P1", CategoryCode: "R1", SubcategoryCode: "G1"})

			got, ok := view.Get(1)
			require.True(t, ok)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantError, view.Error())

			if tt.wantError == "" {
				require.NoError(t, err)
				require.Len(t, fake.updates, 1)
				assert.Equal(t, "P1", fake.updates[0].SupplierCode)
				assert.Equal(t, "G1", fake.updates[0].SubcategoryCode)
				assert.Equal(t, product.StatusApproved, fake.updates[0].Status)
			} else {
				assert.True(t, apperr.HasCode(err, apperr.CodeUpstreamRejected), "got %v", err)
			}
		})
	}
}

/*
TestView_ApproveChecksCatalog rejects inconsistent selections before calling out.
*/
func TestView_ApproveChecksCatalog(t *testing.T) {
	tests := []struct {
		name      string
		selection catalog.Selection
	}{
		{"missing_supplier", catalog.Selection{CategoryCode: "R1"}},
		{"unknown_supplier", catalog.Selection{SupplierCode: "P9"}},
		{"subcategory_outside_category", catalog.Selection{SupplierCode: "P1", CategoryCode: "R2", SubcategoryCode: "G1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &backend{updateStatus: http.StatusOK, updateReply: `{}`}
			view := newView(t, fake, testCatalog(t))

			_, err := view.Approve(context.Background(), 1, tt.selection)

			assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
			assert.Empty(t, fake.updates)
			assert.NotEmpty(t, view.Error())

			got, _ := view.Get(1)
			assert.Equal(t, product.StatusPending, got.Status)
		})
	}
}

/*
TestView_Decline patches the row and forwards the export warning.
*/
func TestView_Decline(t *testing.T) {
	fake := &backend{updateStatus: http.StatusOK, updateReply: `{"message":"ok","oracle_sync":{"executed":false,"reason":"Status diferente de 2"}}`}
	view := newView(t, fake, nil)

	result, err := view.Decline(context.Background(), 2)
	require.NoError(t, err)
	require.NotNil(t, result.Sync)
	assert.False(t, result.Sync.Executed)

	got, _ := view.Get(2)
	assert.Equal(t, product.StatusDeclined, got.Status)

	_, err = view.Decline(context.Background(), 404)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	assert.Len(t, fake.updates, 1)
}

/*
TestParseStatus accepts numbers and names.
*/
func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    product.Status
		wantErr bool
	}{
		{"0", product.StatusDeclined, false},
		{"approved", product.StatusApproved, false},
		{"1", product.StatusPending, false},
		{"3", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := product.ParseStatus(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
