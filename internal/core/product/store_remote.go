// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package product

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

type listResponse struct {
	Products []Product `json:"products"`
}

func (repository *RemoteRepository) ListByStatus(ctx context.Context, status Status) ([]Product, error) {
	var response listResponse

	path := constants.PathProducts + "status/" + strconv.Itoa(int(status)) + "/"
	if err := repository.client.Get(ctx, path, nil, &response); err != nil {
		return nil, err
	}
	return response.Products, nil
}

func (repository *RemoteRepository) UpdateStatus(ctx context.Context, change StatusChange) (*UpdateResult, error) {
	result := &UpdateResult{}
	if err := repository.client.Post(ctx, constants.PathProducts+"update-status/", change, result); err != nil {
		return nil, err
	}
	return result, nil
}

// searchResponse keeps only the saved listings. The scraper's own diagnostics are dropped.
type searchResponse struct {
	Query    string `json:"query"`
	Database struct {
		SavedCount int       `json:"saved_products_count"`
		Products   []Product `json:"products"`
	} `json:"database_results"`
}

func (repository *RemoteRepository) Search(ctx context.Context, query SearchQuery) (*SearchResult, error) {
	var response searchResponse
	if err := repository.client.Post(ctx, constants.PathProductSearch, query, &response); err != nil {
		return nil, err
	}

	return &SearchResult{
		Query:      response.Query,
		SavedCount: response.Database.SavedCount,
		Products:   response.Database.Products,
	}, nil
}
