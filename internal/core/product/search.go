// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package product

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/fndrorato/webscrap-ia/internal/platform/validate"
)

// # Search Limits

const (
	MinQueryLen = 2

	DefaultMaxResults  = 20
	DefaultMaxDetailed = 5
	DefaultMaxImages   = 3

	maxResultsCeiling  = 50
	maxDetailedCeiling = 10
	maxImagesCeiling   = 8
)

// SearchQuery asks the backend to scrape the store for new listings.
// Zero limits take their defaults. Others are clamped to what the scraper accepts.
type SearchQuery struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	MaxDetailed int    `json:"max_detailed"`
	MaxImages   int    `json:"max_images"`
}

func (query SearchQuery) normalize() SearchQuery {
	query.Query = strings.TrimSpace(query.Query)
	query.MaxResults = limit(query.MaxResults, DefaultMaxResults, maxResultsCeiling)
	query.MaxDetailed = limit(query.MaxDetailed, DefaultMaxDetailed, maxDetailedCeiling)
	query.MaxImages = limit(query.MaxImages, DefaultMaxImages, maxImagesCeiling)
	return query
}

func limit(value, fallback, ceiling int) int {
	if value == 0 {
		return fallback
	}
	return min(max(value, 1), ceiling)
}

// SearchResult holds the saved listings that matched the query.
type SearchResult struct {
	Query      string    `json:"query"`
	SavedCount int       `json:"saved_count"`
	Products   []Product `json:"products"`
}

// # Searcher

// Searcher runs scrape searches. It holds no view state; results go straight to the caller.
type Searcher struct {
	repository Repository
	logger     *slog.Logger
}

// NewSearcher constructs a [Searcher].
func NewSearcher(repository Repository, logger *slog.Logger) *Searcher {
	return &Searcher{repository: repository, logger: logger}
}

/*
Search validates and normalizes query, then runs it.

Parameters:
  - ctx: context.Context
  - query: SearchQuery

Returns:
  - *SearchResult: Saved listings matching the query, never nil products
  - error: Validation, transport or server-reported failures
*/
func (searcher *Searcher) Search(ctx context.Context, query SearchQuery) (*SearchResult, error) {
	query = query.normalize()

	validator := &validate.Validator{}
	validator.Custom(FieldQuery, utf8.RuneCountInString(query.Query) < MinQueryLen, "Type at least 2 characters")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	result, err := searcher.repository.Search(ctx, query)
	if err != nil {
		searcher.logger.Warn("product_search_failed", slog.String("query", query.Query), slog.Any("error", err))
		return nil, err
	}
	if result.Products == nil {
		result.Products = []Product{}
	}

	searcher.logger.Info("product_search_completed",
		slog.String("query", query.Query),
		slog.Int("saved", result.SavedCount),
	)
	return result, nil
}
