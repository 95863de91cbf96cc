// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package report

import (
	"context"
	"net/url"

	"github.com/fndrorato/webscrap-ia/internal/platform/constants"
	"github.com/fndrorato/webscrap-ia/internal/platform/upstream"
)

// Repository defines the collaborator endpoint for the posts report.
type Repository interface {
	Posts(context context.Context, filter Filter) ([]Post, error)
}

// RemoteRepository implements [Repository] over the REST client.
type RemoteRepository struct {
	client *upstream.Client
}

// NewRemoteRepository constructs a [RemoteRepository].
func NewRemoteRepository(client *upstream.Client) *RemoteRepository {
	return &RemoteRepository{client: client}
}

func (repository *RemoteRepository) Posts(ctx context.Context, filter Filter) ([]Post, error) {
	query := url.Values{}
	for key, value := range map[string]string{
		FieldStartDate: filter.StartDate,
		FieldEndDate:   filter.EndDate,
		FieldChannel:   filter.Channel,
	} {
		if value != "" {
			query.Set(key, value)
		}
	}

	var posts []Post
	if err := repository.client.Get(ctx, constants.PathReportPosts, query, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
