// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package report

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fndrorato/webscrap-ia/internal/platform/respond"
	"github.com/fndrorato/webscrap-ia/pkg/pagination"
)

// Handler exposes the posts report.
type Handler struct {
	service *Service
}

// NewHandler constructs a new report [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] mounted at /reports.
//
// # Endpoints
//   - GET /posts : ?start_date&end_date&channel&page&limit&refresh
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/posts", handler.posts)
	return router
}

func (handler *Handler) posts(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	filter := Filter{
		StartDate: query.Get(FieldStartDate),
		EndDate:   query.Get(FieldEndDate),
		Channel:   query.Get(FieldChannel),
	}

	page, meta, err := handler.service.Posts(request.Context(), filter, pagination.FromRequest(request), query.Get("refresh") == "true")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, page, meta)
}
