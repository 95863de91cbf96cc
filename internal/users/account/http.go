// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package account

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fndrorato/webscrap-ia/internal/platform/apperr"
	"github.com/fndrorato/webscrap-ia/internal/platform/constants"
	requestutil "github.com/fndrorato/webscrap-ia/internal/platform/request"
	"github.com/fndrorato/webscrap-ia/internal/platform/respond"
	"github.com/fndrorato/webscrap-ia/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements account-related HTTP endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] with account routes. Mount it behind the session gate.
//
// # Endpoints
//   - POST /photo           : Multipart upload (field "photo").
//   - POST /change-password : JSON PasswordChange.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/photo", handler.uploadPhoto)
	router.Post("/change-password", handler.changePassword)

	return router
}

/*
uploadPhoto proxies a profile picture upload.

POST /api/v1/account/photo

Response:
  - 200: PhotoResult
  - 400: Missing or oversized file
*/
func (handler *Handler) uploadPhoto(writer http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBytes)

	if err := request.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Invalid multipart body"))
		return
	}

	file, header, err := request.FormFile(FieldPhoto)
	if err != nil {
		respond.Error(writer, request, validate.RequiredError(FieldPhoto, "Please select a file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	result, err := handler.accountService.UploadPhoto(request.Context(), Photo{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

// changePassword forwards the change-password form. POST /api/v1/account/change-password.
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	var input PasswordChange

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.accountService.ChangePassword(request.Context(), input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
