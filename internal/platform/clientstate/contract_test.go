// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package clientstate_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fndrorato/webscrap-ia/internal/platform/clientstate"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// namespace isolates one test run inside a shared backend.
func namespace(t *testing.T) string {
	t.Helper()
	return "test-" + uuid.NewString()
}

// checkContract runs the save, load and delete cycle every backend must honor.
func checkContract(t *testing.T, store clientstate.Storage) {
	t.Helper()
	ctx := context.Background()

	t.Cleanup(func() {
		_ = store.Delete(context.Background(), "accessToken", "refreshToken", "email")
	})

	t.Run("batch_round_trip", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, map[string]string{
			"accessToken":  "T1",
			"refreshToken": "R1",
			"email":        "ana@x.com",
		}))

		found, err := store.Load(ctx, "accessToken", "refreshToken", "email", "phone")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"accessToken": "T1", "refreshToken": "R1", "email": "ana@x.com"}, found)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, map[string]string{"accessToken": "T2"}))

		found, err := store.Load(ctx, "accessToken", "refreshToken")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"accessToken": "T2", "refreshToken": "R1"}, found)
	})

	t.Run("delete_is_idempotent", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "accessToken", "refreshToken", "email"))
		require.NoError(t, store.Delete(ctx, "accessToken", "refreshToken", "email"))

		found, err := store.Load(ctx, "accessToken", "refreshToken", "email")
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("empty_batches", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, map[string]string{}))
		require.NoError(t, store.Delete(ctx))

		found, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, store.Ping(ctx))
	})
}

/*
TestMemory_Contract runs the shared storage contract against the in-memory backend.
*/
func TestMemory_Contract(t *testing.T) {
	checkContract(t, clientstate.NewMemory())
}

/*
TestFile_Contract runs the shared storage contract against a sealed file.
*/
func TestFile_Contract(t *testing.T) {
	store, _ := newFile(t, "s3cret")
	checkContract(t, store)
}
