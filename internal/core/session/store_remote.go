// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package session

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fndrorato/webscrap-ia/internal/platform/apperr"
	"github.com/fndrorato/webscrap-ia/internal/platform/constants"
	"github.com/fndrorato/webscrap-ia/internal/platform/upstream"
)

// RemoteRepository implements [Repository] over the REST client.
type RemoteRepository struct {
	client *upstream.Client
}

// NewRemoteRepository constructs a [RemoteRepository].
func NewRemoteRepository(client *upstream.Client) *RemoteRepository {
	return &RemoteRepository{client: client}
}

func (repository *RemoteRepository) List(ctx context.Context) ([]Session, error) {
	var sessions []Session
	if err := repository.client.Get(ctx, constants.PathSessions, nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (repository *RemoteRepository) Create(ctx context.Context, input Input) error {
	return repository.client.Post(ctx, constants.PathSessions, input, nil)
}

func (repository *RemoteRepository) Update(ctx context.Context, id int, input Input) error {
	return repository.client.Put(ctx, byID(id), input, nil)
}

func (repository *RemoteRepository) Delete(ctx context.Context, id int) error {
	return repository.client.Delete(ctx, byID(id), nil)
}

func (repository *RemoteRepository) Act(ctx context.Context, name string, action Action) error {
	return repository.client.Do(ctx, upstream.Request{
		Method: http.MethodPost,
		Path:   byName(name) + string(action) + "/",
	}, nil)
}

type qrResponse struct {
	Value string `json:"qr_code_value"`
}

func (repository *RemoteRepository) QRCode(ctx context.Context, name string) (string, error) {
	var response qrResponse
	if err := repository.client.Get(ctx, byName(name)+"auth/", nil, &response); err != nil {
		return "", err
	}
	if response.Value == "" {
		return "", apperr.ServerReported(http.StatusOK, "The session has no pairing code yet")
	}
	return response.Value, nil
}

func byID(id int) string {
	return constants.PathSessions + strconv.Itoa(id) + "/"
}

func byName(name string) string {
	return constants.PathSessions + url.PathEscape(name) + "/"
}
