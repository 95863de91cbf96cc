// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

/*
Package clientstate provides the durable client storage behind the session store.

It plays the part a browser's local storage played for the dashboard: a flat
set of named string entries that survive restarts. Four backends share one
contract:

  - Memory: process-local, used by tests and ephemeral consoles.
  - File: a single JSON document, optionally sealed with a secret.
  - Redis: one hash per console namespace.
  - Postgres: one row per (namespace, key), schema managed by migrations.

# Atomicity

[Storage.Save] and [Storage.Delete] apply a whole batch or nothing, so a
reader never observes half of a login or half of a logout.
*/
package clientstate

import (
	"context"
	"errors"
)

// ErrCorrupted is returned by [Storage.Load] when the backing medium cannot be
// decoded at all (unreadable document, wrong secret). Callers treat it like a
// corrupted field and reset.
var ErrCorrupted = errors.New("clientstate: stored state is corrupted")

// Storage is the durable key/value contract used by the session store.
type Storage interface {

	/*
		Load returns the entries present for the requested keys.

		Parameters:
		  - context: context.Context
		  - keys: ...string

		Returns:
		  - map[string]string: Present keys only. Missing keys are simply absent.
		  - error: ErrCorrupted or connectivity failures
	*/
	Load(context context.Context, keys ...string) (map[string]string, error)

	/*
		Save writes every entry as one atomic batch.

		Parameters:
		  - context: context.Context
		  - entries: map[string]string

		Returns:
		  - error: Persistence failures (nothing was written)
	*/
	Save(context context.Context, entries map[string]string) error

	/*
		Delete removes the keys as one atomic batch. Deleting absent keys is not an error.

		Parameters:
		  - context: context.Context
		  - keys: ...string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, keys ...string) error

	// Ping verifies that the backend is reachable.
	Ping(context context.Context) error

	// Close releases backend resources.
	Close() error
}
