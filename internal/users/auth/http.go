// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fndrorato/webscrap-ia/internal/platform/middleware"
	requestutil "github.com/fndrorato/webscrap-ia/internal/platform/request"
	"github.com/fndrorato/webscrap-ia/internal/platform/respond"
	"github.com/fndrorato/webscrap-ia/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the sign-in HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /login  : Signs in through the collaborator.
//   - POST /logout : Clears the session (idempotent).
//   - GET  /me     : Current identity.
//   - POST /verify : Re-checks the access token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(handler.authService.Store()))
		r.Get("/me", handler.me)
		r.Post("/verify", handler.verify)
	})

	return router
}

// # Request Payloads

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type meResponse struct {
	Identity
	HasCatalog bool `json:"hasCatalog"`
}

/*
Login authenticates against the collaborator and establishes the session.

POST /api/v1/auth/login

Request:
  - Body: loginRequest (Username, Password)

Response:
  - 200: meResponse
  - 400: Validation failure
  - 401: Rejected credentials
  - 502: Collaborator unreachable
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity, err := handler.authService.Login(request.Context(), LoginInput{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	_, hasCatalog := handler.authService.Store().Catalog()
	respond.OK(writer, meResponse{Identity: identity, HasCatalog: hasCatalog})
}

// logout clears the session. POST /api/v1/auth/logout. Always 204.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if err := handler.authService.Logout(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// me returns the current identity. GET /api/v1/auth/me.
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	identity, ok := handler.authService.Store().Current()
	if !ok {
		respond.NoContent(writer)
		return
	}

	_, hasCatalog := handler.authService.Store().Catalog()
	respond.OK(writer, meResponse{Identity: identity, HasCatalog: hasCatalog})
}

/*
Verify re-checks the access token with the collaborator.

POST /api/v1/auth/verify

Response:
  - 200: {"valid": bool} (false means the session was cleared)
  - 502: Collaborator unreachable
*/
func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	valid, err := handler.authService.Verify(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]bool{"valid": valid})
}
