// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package report

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fndrorato/webscrap-ia/pkg/pagination"
)

// # Service Layer

// Service fetches the posts report and pages it locally.
type Service struct {
	repository Repository
	logger     *slog.Logger

	mu     sync.Mutex
	filter *Filter
	posts  []Post
}

// NewService constructs a new report [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

/*
Posts returns one page of the report.

The backend is called only when the filter changed since the last call or
refresh is set; otherwise the cached table is paged.

Parameters:
  - context: context.Context
  - filter: Filter
  - params: pagination.Params
  - refresh: bool

Returns:
  - []Post: The requested page (never nil)
  - pagination.Meta: Page metadata over the whole table
  - error: Validation, transport or server-reported failures
*/
func (service *Service) Posts(context context.Context, filter Filter, params pagination.Params, refresh bool) ([]Post, pagination.Meta, error) {
	if err := filter.Validate(); err != nil {
		return nil, pagination.Meta{}, err
	}

	service.mu.Lock()
	defer service.mu.Unlock()

	if refresh || service.filter == nil || *service.filter != filter {
		posts, err := service.repository.Posts(context, filter)
		if err != nil {
			return nil, pagination.Meta{}, err
		}

		service.filter = &filter
		service.posts = posts
		service.logger.Debug("report_posts_fetched", slog.Int("rows", len(posts)))
	}

	page, meta := pagination.Window(service.posts, params)
	return page, meta, nil
}

// Reset drops the cached table (on logout).
func (service *Service) Reset() {
	service.mu.Lock()
	defer service.mu.Unlock()
	service.filter, service.posts = nil, nil
}
