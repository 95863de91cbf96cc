// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package user

import (
	"context"
	"strconv"

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

func (repository *RemoteRepository) List(ctx context.Context) ([]User, error) {
	var users []User
	if err := repository.client.Get(ctx, constants.PathUsers, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (repository *RemoteRepository) Groups(ctx context.Context) ([]Group, error) {
	var groups []Group
	if err := repository.client.Get(ctx, constants.PathGroups, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (repository *RemoteRepository) Create(ctx context.Context, input Input) error {
	return repository.client.Post(ctx, constants.PathUsers, input.payload(), nil)
}

func (repository *RemoteRepository) Update(ctx context.Context, id int, input Input) error {
	return repository.client.Put(ctx, path(id), input.payload(), nil)
}

func (repository *RemoteRepository) Delete(ctx context.Context, id int) error {
	return repository.client.Delete(ctx, path(id), nil)
}

func path(id int) string {
	return constants.PathUsers + strconv.Itoa(id) + "/"
}
