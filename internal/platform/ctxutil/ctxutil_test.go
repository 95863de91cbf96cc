// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fndrorato/webscrap-ia/internal/platform/ctxutil"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_Principal verifies that the signed-in principal can be stored in
context and answers capability checks.
*/
func TestContext_Principal(t *testing.T) {
	ctx := context.Background()

	// 1. Initially should be nil, and a nil principal holds nothing
	assert.Nil(t, ctxutil.GetPrincipal(ctx))
	assert.False(t, ctxutil.GetPrincipal(ctx).Can("view"))

	// 2. Inject and retrieve
	ctx = ctxutil.WithPrincipal(ctx, &ctxutil.Principal{
		UserID:      "42",
		Email:       "ana@x.com",
		Permissions: []string{"view", "approve_product"},
	})
	retrieved := ctxutil.GetPrincipal(ctx)

	assert.NotNil(t, retrieved)
	assert.Equal(t, "42", retrieved.UserID)
	assert.True(t, retrieved.Can("approve_product"))
	assert.False(t, retrieved.Can("delete_channel"))
}
