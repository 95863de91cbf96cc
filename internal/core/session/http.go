// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package session

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/fndrorato/webscrap-ia/internal/platform/request"
	"github.com/fndrorato/webscrap-ia/internal/platform/respond"
)

// # Handler Implementation

// Handler exposes the sessions view over HTTP.
type Handler struct {
	view *View
}

// NewHandler constructs a new session [Handler].
func NewHandler(view *View) *Handler {
	return &Handler{view: view}
}

// Routes returns a [chi.Router] for the sessions view. Mount it behind the session gate.
//
// # Endpoints
//   - GET    /               : Table state (mounts on first use, ?refresh=true refetches).
//   - POST   /               : Create.
//   - DELETE /view           : Unmount (stops the push subscription).
//   - PUT    /{id}           : Update.
//   - DELETE /{id}           : Delete.
//   - POST   /{name}/{action}: start | restart | stop | logout.
//   - GET    /{name}/qr      : Pairing value.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Delete("/view", handler.unmount)
	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)
	router.Post("/{name}/{action}", handler.act)
	router.Get("/{name}/qr", handler.qrCode)

	return router
}

// # Table

/*
GET /api/v1/sessions.

Response:
  - 200: view.State[Session]
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	var err error
	if handler.view.lifecycle.Mounted() && requestutil.Flag(request, "refresh") {
		err = handler.view.Refresh(ctx)
	} else {
		err = handler.view.Ensure(ctx)
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

// # Mutations

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.run(writer, request, func() error {
		return handler.view.Create(request.Context(), input)
	})
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.run(writer, request, func() error {
		return handler.view.Update(request.Context(), id, input)
	})
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.run(writer, request, func() error {
		return handler.view.Delete(request.Context(), id)
	})
}

/*
POST /api/v1/sessions/{name}/{action}.

Description: Sends a lifecycle command, then refetches the table.
*/
func (handler *Handler) act(writer http.ResponseWriter, request *http.Request) {
	name := requestutil.Param(request, FieldName)
	action := Action(requestutil.Param(request, FieldAction))

	handler.run(writer, request, func() error {
		return handler.view.Act(request.Context(), name, action)
	})
}

// qrCode returns {"qr_code_value": ...}. GET /api/v1/sessions/{name}/qr.
func (handler *Handler) qrCode(writer http.ResponseWriter, request *http.Request) {
	value, err := handler.view.QRCode(request.Context(), requestutil.Param(request, FieldName))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, qrResponse{Value: value})
}

// run mounts the view when needed, performs call and renders the table.
func (handler *Handler) run(writer http.ResponseWriter, request *http.Request, call func() error) {
	if err := handler.view.Ensure(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := call(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.view.State())
}
