// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package clientstate_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fndrorato/webscrap-ia/internal/platform/clientstate"
	"github.com/fndrorato/webscrap-ia/internal/platform/migration"
)

func newPostgres(t *testing.T) *clientstate.Postgres {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	require.NoError(t, migration.RunUp(dsn, discard()))

	store, err := clientstate.NewPostgres(context.Background(), dsn, namespace(t), discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

/*
TestPostgres_Contract runs the shared storage contract against a live database.
*/
func TestPostgres_Contract(t *testing.T) {
	checkContract(t, newPostgres(t))
}

/*
TestPostgres_SaveIsAtomic checks that one rejected row rolls back the whole batch.
*/
func TestPostgres_SaveIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := newPostgres(t)
	t.Cleanup(func() { _ = store.Delete(context.Background(), "accessToken", "email") })

	// Text columns reject NUL bytes.
	err := store.Save(ctx, map[string]string{
		"accessToken": "T1",
		"email":       "ana\x00@x.com",
	})
	require.Error(t, err)

	found, err := store.Load(ctx, "accessToken", "email")
	require.NoError(t, err)
	assert.Empty(t, found)
}

/*
TestNewPostgres_InvalidDSN rejects an unparsable connection string.
*/
func TestNewPostgres_InvalidDSN(t *testing.T) {
	_, err := clientstate.NewPostgres(context.Background(), "postgres://%zz", "test", discard())
	assert.Error(t, err)
}
