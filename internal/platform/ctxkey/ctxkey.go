// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

// Package ctxkey defines typed context keys used by middleware, the upstream
// client and views.
//
// # Safety
//
// Using a private, unexported type for keys prevents collisions with third-party
// packages that might also use context for storage.
package ctxkey

// key is an unexported type used for context keys to ensure type safety.
type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value.
	// The upstream client forwards it so collaborator logs line up with ours.
	KeyRequestID key = "request_id"

	// KeyPrincipal is the context key for the signed-in staff member ([ctxutil.Principal]).
	KeyPrincipal key = "principal"

	// KeyLogger is the context key for the per-request [*log/slog.Logger].
	KeyLogger key = "logger"
)
