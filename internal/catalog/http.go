// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package catalog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fndrorato/webscrap-ia/internal/platform/apperr"
	requestutil "github.com/fndrorato/webscrap-ia/internal/platform/request"
	"github.com/fndrorato/webscrap-ia/internal/platform/respond"
	"github.com/fndrorato/webscrap-ia/internal/platform/validate"
)

// Source is where the active catalog lives. The session store implements it.
type Source interface {
	Catalog() (*Catalog, bool)
	ReplaceCatalog(context context.Context, active *Catalog) error
}

// DefaultSearchLimit caps search results when no limit is given.
const DefaultSearchLimit = 50

// # Handler Implementation

// Handler exposes the active catalog to selection controls.
type Handler struct {
	source Source
}

// NewHandler constructs a new catalog [Handler].
func NewHandler(source Source) *Handler {
	return &Handler{source: source}
}

// Routes returns a [chi.Router] for the active catalog.
//
// # Endpoints
//   - GET /              : Full snapshot.
//   - PUT /              : Replace the snapshot.
//   - GET /search        : ?kind=&q=&limit=
//   - GET /subcategories : ?category=
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.get)
	router.Put("/", handler.replace)
	router.Get("/search", handler.search)
	router.Get("/subcategories", handler.subcategories)

	return router
}

func (handler *Handler) active() (*Catalog, error) {
	active, ok := handler.source.Catalog()
	if !ok {
		return nil, apperr.NotFound("Catalog")
	}
	return active, nil
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	active, err := handler.active()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, active)
}

/*
PUT /api/v1/catalog.

Description: Validates the body and makes it the active snapshot.

Response:
  - 200: Catalog
  - 400: Structural violations
  - 401: No session
*/
func (handler *Handler) replace(writer http.ResponseWriter, request *http.Request) {
	var next Catalog
	if err := requestutil.DecodeJSON(request, &next); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := next.Validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.source.ReplaceCatalog(request.Context(), &next); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, &next)
}

/*
GET /api/v1/catalog/search.

Request:
  - kind: suppliers | brands | categories | subcategories (empty = all)
  - q: string (accent and case insensitive)
  - limit: int (default 50)
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	active, err := handler.active()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	query := request.URL.Query()

	kind := Kind(query.Get("kind"))
	if kind != "" && !kind.Valid() {
		respond.Error(writer, request, validate.RequiredError("kind", "Must be one of suppliers, brands, categories, subcategories"))
		return
	}

	limit := DefaultSearchLimit
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respond.Error(writer, request, validate.RequiredError("limit", "Must be a positive integer"))
			return
		}
		limit = parsed
	}

	entries := active.Search(kind, query.Get("q"), limit)
	if entries == nil {
		entries = []Entry{}
	}
	respond.OK(writer, entries)
}

func (handler *Handler) subcategories(writer http.ResponseWriter, request *http.Request) {
	active, err := handler.active()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	category := request.URL.Query().Get("category")
	if _, ok := active.Category(category); !ok {
		respond.Error(writer, request, apperr.NotFound("Category"))
		return
	}

	respond.OK(writer, active.SubcategoriesOf(category))
}
