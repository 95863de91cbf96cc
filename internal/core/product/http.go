// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package product

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fndrorato/webscrap-ia/internal/catalog"
	requestutil "github.com/fndrorato/webscrap-ia/internal/platform/request"
	"github.com/fndrorato/webscrap-ia/internal/platform/respond"
	"github.com/fndrorato/webscrap-ia/internal/platform/validate"
)

// # Handler Implementation

// Handler exposes the moderation view over HTTP.
type Handler struct {
	view     *View
	searcher *Searcher
}

// NewHandler constructs a new product [Handler].
func NewHandler(view *View, searcher *Searcher) *Handler {
	return &Handler{view: view, searcher: searcher}
}

// Routes returns a [chi.Router] for the moderation view.
//
// # Endpoints
//   - GET    /             : Listings (?status=0|1|2, default pending; ?refresh=true refetches).
//   - DELETE /view         : Unmount.
//   - POST   /{id}/approve : Approve with a catalog.Selection body.
//   - POST   /{id}/decline : Decline.
//   - POST   /search       : Scrape the store for a query.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Delete("/view", handler.unmount)
	router.Post("/{id}/approve", handler.approve)
	router.Post("/{id}/decline", handler.decline)
	router.Post("/search", handler.search)

	return router
}

/*
GET /api/v1/products.

Request:
  - status: 0 | 1 | 2 | declined | pending | approved

Response:
  - 200: Rendered
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	status := StatusPending
	if raw := request.URL.Query().Get(FieldStatus); raw != "" {
		parsed, err := ParseStatus(raw)
		if err != nil {
			respond.Error(writer, request, validate.RequiredError(FieldStatus, "Must be 0, 1 or 2"))
			return
		}
		status = parsed
	}

	var err error
	if requestutil.Flag(request, "refresh") {
		err = handler.view.Mount(request.Context(), status)
	} else {
		err = handler.view.Ensure(request.Context(), status)
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.view.State())
}

func (handler *Handler) unmount(writer http.ResponseWriter, request *http.Request) {
	handler.view.Unmount()
	respond.NoContent(writer)
}

/*
POST /api/v1/products/{id}/approve.

Request:
  - body: {cod_proveedor, cod_marca?, cod_rubro?, cod_grupo?}

Response:
  - 200: UpdateResult
  - 400: Selection rejected by the catalog
*/
func (handler *Handler) approve(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var selection catalog.Selection
	if err := requestutil.DecodeJSON(request, &selection); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.view.Approve(request.Context(), id, selection)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

func (handler *Handler) decline(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.view.Decline(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
POST /api/v1/products/search.

Request:
  - body: {query, max_results?, max_detailed?, max_images?}

Response:
  - 200: SearchResult
  - 400: Query shorter than 2 characters
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	var query SearchQuery
	if err := requestutil.DecodeJSON(request, &query); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.searcher.Search(request.Context(), query)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}
