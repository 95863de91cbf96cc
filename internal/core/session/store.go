// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package session

import "context"

// # Session Data Access

// Repository defines the collaborator endpoints for messaging sessions.
type Repository interface {

	// List returns every session visible to the signed-in user.
	List(context context.Context) ([]Session, error)

	// Create registers a new session.
	Create(context context.Context, input Input) error

	// Update edits a session by id.
	Update(context context.Context, id int, input Input) error

	// Delete removes a session by id.
	Delete(context context.Context, id int) error

	/*
		Act sends a lifecycle command.

		Parameters:
		  - context: context.Context
		  - name: string (The session's natural key)
		  - action: Action

		Returns:
		  - error: ServerReported with the backend's error message on refusal
	*/
	Act(context context.Context, name string, action Action) error

	// QRCode returns the pairing value for a session waiting for a scan.
	QRCode(context context.Context, name string) (string, error)
}
