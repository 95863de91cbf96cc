// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package user

import "context"

// # User Data Access

// Repository defines the collaborator endpoints for staff accounts.
type Repository interface {
	List(context context.Context) ([]User, error)
	Groups(context context.Context) ([]Group, error)

	/*
		Create registers a new account.

		Parameters:
		  - context: context.Context
		  - input: Input (normalized, password already resolved)

		Returns:
		  - error: Transport or server-reported failures (duplicate email included)
	*/
	Create(context context.Context, input Input) error

	Update(context context.Context, id int, input Input) error
	Delete(context context.Context, id int) error
}
