// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"
	"slices"

	"github.com/fndrorato/webscrap-ia/internal/platform/ctxkey"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}

// # Identity

// Principal is the slice of the signed-in identity that request-scoped code needs.
type Principal struct {
	UserID      string
	Email       string
	Permissions []string
}

// Can reports whether the principal holds the given capability string.
func (p *Principal) Can(permission string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Permissions, permission)
}

// WithPrincipal returns a new context with the signed-in principal attached.
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, ctxkey.KeyPrincipal, principal)
}

// GetPrincipal retrieves the [*Principal] from the [context.Context].
func GetPrincipal(ctx context.Context) *Principal {
	principal, ok := ctx.Value(ctxkey.KeyPrincipal).(*Principal)
	if !ok {
		return nil
	}
	return principal
}
