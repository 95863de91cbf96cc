// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fndrorato/webscrap-ia/internal/platform/ctxutil"
	requestutil "github.com/fndrorato/webscrap-ia/internal/platform/request"
	"github.com/fndrorato/webscrap-ia/internal/platform/respond"
	"github.com/fndrorato/webscrap-ia/internal/platform/validate"
)

// # Handler Implementation

// Handler exposes the account list over HTTP.
type Handler struct {
	view *View
}

// NewHandler constructs a new user [Handler].
func NewHandler(view *View) *Handler {
	return &Handler{view: view}
}

// Routes returns a [chi.Router] for account management. Mount it behind the session gate.
//
// # Endpoints
//   - GET    /       : List with groups and capabilities (?refresh=true refetches).
//   - POST   /       : Create (JSON Input).
//   - GET    /groups : Selectable groups.
//   - DELETE /view   : Unmount.
//   - PUT    /{id}   : Update (JSON Input).
//   - DELETE /{id}   : Delete. The signed-in member cannot delete themselves.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/groups", handler.groups)
	router.Delete("/view", handler.unmount)
	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)

	return router
}

// listing is the rendered list plus what the caller may do with it.
type listing struct {
	Rendered
	Can Capabilities `json:"can"`
}

func (handler *Handler) render(request *http.Request) listing {
	principal := ctxutil.GetPrincipal(request.Context())
	return listing{
		Rendered: handler.view.State(),
		Can: Capabilities{
			Create: principal.Can(PermissionAdd),
			Update: principal.Can(PermissionChange),
			Delete: principal.Can(PermissionDelete),
		},
	}
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	var err error
	if requestutil.Flag(request, "refresh") {
		err = handler.view.Mount(request.Context())
	} else {
		err = handler.view.Ensure(request.Context())
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.render(request))
}

func (handler *Handler) groups(writer http.ResponseWriter, request *http.Request) {
	if err := handler.view.Ensure(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.view.Groups())
}

func (handler *Handler) unmount(writer http.ResponseWriter, request *http.Request) {
	handler.view.Unmount()
	respond.NoContent(writer)
}

/*
POST /api/v1/users.

Response:
  - 201: listing after the refetch
  - 400: Validation failed
  - 409/502: Collaborator refused (duplicate email and the like)
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.view.Ensure(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.view.Create(request.Context(), input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, handler.render(request))
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
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

	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.run(writer, request, func() error {
		return handler.view.Delete(request.Context(), id, principal.UserID)
	})
}

func (handler *Handler) run(writer http.ResponseWriter, request *http.Request, call func() error) {
	if err := handler.view.Ensure(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := call(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.render(request))
}
