// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package product

import "context"

// # Product Data Access

// Repository defines the collaborator endpoints for listings.
type Repository interface {

	/*
		ListByStatus returns every listing in a moderation state.

		Parameters:
		  - context: context.Context
		  - status: Status

		Returns:
		  - []Product: Listings in backend order
		  - error: Transport or server-reported failures
	*/
	ListByStatus(context context.Context, status Status) ([]Product, error)

	// UpdateStatus moves a listing to another state.
	UpdateStatus(context context.Context, change StatusChange) (*UpdateResult, error)

	// Search runs a scrape and returns the saved listings that match.
	Search(context context.Context, query SearchQuery) (*SearchResult, error)
}
