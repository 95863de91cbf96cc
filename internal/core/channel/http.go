// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package channel

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fndrorato/webscrap-ia/internal/platform/apperr"
	"github.com/fndrorato/webscrap-ia/internal/platform/constants"
	requestutil "github.com/fndrorato/webscrap-ia/internal/platform/request"
	"github.com/fndrorato/webscrap-ia/internal/platform/respond"
	"github.com/fndrorato/webscrap-ia/internal/platform/validate"
)

// # Handler Implementation

// Handler exposes the channels view and the open channel's thread over HTTP.
type Handler struct {
	view   *View
	thread *Thread
}

// NewHandler constructs a new channel [Handler].
func NewHandler(view *View, thread *Thread) *Handler {
	return &Handler{view: view, thread: thread}
}

// Routes returns a [chi.Router] for the channels view.
//
// # Endpoints
//   - GET    /     : List (?refresh=true refetches).
//   - POST   /     : Create (multipart: name, description, picture | picture_url).
//   - DELETE /view : Unmount.
//   - PUT    /{id} : Update (multipart).
//   - DELETE /{id} : Delete (?session=default).
//
// Posts of one channel:
//   - GET    /{id}/posts        : Thread (?refresh=true refetches).
//   - POST   /{id}/posts        : Send (multipart: message_text, attachment..., poll_name, poll_options).
//   - PUT    /{id}/posts/{post} : Edit text (JSON {"message_text"}).
//   - DELETE /{id}/posts/{post} : Delete.
//   - DELETE /posts/view       : Close the thread.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Delete("/view", handler.unmount)
	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)

	router.Delete("/posts/view", handler.closeThread)
	router.Get("/{id}/posts", handler.openThread)
	router.Post("/{id}/posts", handler.send)
	router.Put("/{id}/posts/{post}", handler.edit)
	router.Delete("/{id}/posts/{post}", handler.deletePost)

	return router
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

	respond.OK(writer, handler.view.State())
}

func (handler *Handler) unmount(writer http.ResponseWriter, request *http.Request) {
	handler.view.Unmount()
	respond.NoContent(writer)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	input, err := parseForm(writer, request)
	if err != nil {
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

	input, err := parseForm(writer, request)
	if err != nil {
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

	session := request.URL.Query().Get(FieldSession)
	handler.run(writer, request, func() error {
		return handler.view.Delete(request.Context(), session, id)
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

	respond.OK(writer, handler.view.State())
}

/*
parseForm reads the multipart channel form.

Returns:
  - Input: Name, description and either an uploaded picture or a picture URL
  - error: ValidationError for malformed or oversized bodies
*/
func parseForm(writer http.ResponseWriter, request *http.Request) (Input, error) {
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBytes)
	if err := request.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
		return Input{}, apperr.ValidationError("Invalid multipart body")
	}

	input := Input{
		Name:        request.FormValue(FieldName),
		Description: request.FormValue(FieldDescription),
		PictureURL:  request.FormValue(FieldPictureURL),
	}

	file, header, err := request.FormFile(FieldPicture)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return input, nil
	case err != nil:
		return Input{}, apperr.ValidationError("Invalid picture upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return Input{}, apperr.Internal(err)
	}

	input.Picture = &Picture{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}
	return input, nil
}

// # Thread Handlers

func (handler *Handler) openThread(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if requestutil.Flag(request, "refresh") {
		err = handler.thread.Mount(request.Context(), id)
	} else {
		err = handler.thread.Ensure(request.Context(), id)
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.thread.State())
}

func (handler *Handler) closeThread(writer http.ResponseWriter, request *http.Request) {
	handler.thread.Unmount()
	respond.NoContent(writer)
}

/*
POST /api/v1/channels/{id}/posts.

Response:
  - 201: Rendered thread with the new posts appended
  - 400: Validation failed
  - 502: The collaborator refused one of the parts
*/
func (handler *Handler) send(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message, err := parseMessage(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.thread.Ensure(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if _, err := handler.thread.Send(request.Context(), message); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, handler.thread.State())
}

// editInput is the body of a post edit.
type editInput struct {
	Text string `json:"message_text"`
}

func (handler *Handler) edit(writer http.ResponseWriter, request *http.Request) {
	id, postID, err := threadParams(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input editInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.runThread(writer, request, id, func() error {
		return handler.thread.Edit(request.Context(), postID, strings.TrimSpace(input.Text))
	})
}

func (handler *Handler) deletePost(writer http.ResponseWriter, request *http.Request) {
	id, postID, err := threadParams(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.runThread(writer, request, id, func() error {
		return handler.thread.Delete(request.Context(), postID)
	})
}

func (handler *Handler) runThread(writer http.ResponseWriter, request *http.Request, channelID int, call func() error) {
	if err := handler.thread.Ensure(request.Context(), channelID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := call(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.thread.State())
}

func threadParams(request *http.Request) (int, int, error) {
	id, err := requestutil.IntParam(request, FieldID)
	if err != nil {
		return 0, 0, err
	}
	postID, err := requestutil.IntParam(request, FieldPostID)
	if err != nil {
		return 0, 0, err
	}
	return id, postID, nil
}

/*
parseMessage reads the multipart composer form.

poll_options is either one JSON array or a repeated field.

Returns:
  - Message: Text, attachments and an optional poll
  - error: ValidationError for malformed or oversized bodies
*/
func parseMessage(writer http.ResponseWriter, request *http.Request) (Message, error) {
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBytes)
	if err := request.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
		return Message{}, apperr.ValidationError("Invalid multipart body")
	}

	message := Message{Text: request.FormValue(FieldMessageText)}

	if question := request.FormValue(FieldPollName); question != "" {
		options := request.MultipartForm.Value[FieldPollOptions]
		if len(options) == 1 && strings.HasPrefix(strings.TrimSpace(options[0]), "[") {
			if err := json.Unmarshal([]byte(options[0]), &options); err != nil {
				return Message{}, validate.RequiredError(FieldPollOptions, "Must be a JSON array of strings")
			}
		}
		message.Poll = &Poll{Question: question, Options: options}
	}

	for _, header := range request.MultipartForm.File[FieldAttachment] {
		file, err := header.Open()
		if err != nil {
			return Message{}, apperr.ValidationError("Invalid attachment upload")
		}
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			return Message{}, apperr.Internal(err)
		}

		message.Attachments = append(message.Attachments, Attachment{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	return message, nil
}
