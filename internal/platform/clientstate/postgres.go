// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package clientstate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fndrorato/webscrap-ia/internal/platform/constants"
)

// Pool settings sized for a single console process.
const (
	// pgMaxConns is the maximum number of connections in the pool.
	pgMaxConns = 4
	// pgMinConns keeps one warm connection for bootstrap and logout.
	pgMinConns = 1
	// pgMaxConnLifetime ensures connections are periodically recycled.
	pgMaxConnLifetime = 60 * time.Minute
	// pgMaxConnIdleTime closes connections that have been idle too long.
	pgMaxConnIdleTime = 10 * time.Minute
	// pgConnectTimeout is the maximum time allowed to establish a new connection.
	pgConnectTimeout = 5 * time.Second
	// pgPingTimeout is the maximum duration for a health check ping.
	pgPingTimeout = 2 * time.Second
)

// Postgres is a [Storage] that keeps one row per (namespace, key) in
// console_state. The table is created by the migration package.
type Postgres struct {
	pool      *pgxpool.Pool
	namespace string
}

/*
NewPostgres creates and validates a connection pool bound to namespace.

Parameters:
  - ctx: context.Context for the initial connection attempt
  - dsn: A libpq-compatible connection string or postgres:// URL
  - namespace: string
  - logger: *slog.Logger

Returns:
  - *Postgres: The ready store
  - error: DSN or connectivity failures
*/
func NewPostgres(ctx context.Context, dsn, namespace string, logger *slog.Logger) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("clientstate: invalid DSN: %w", err)
	}

	poolConfig.MaxConns = pgMaxConns
	poolConfig.MinConns = pgMinConns
	poolConfig.MaxConnLifetime = pgMaxConnLifetime
	poolConfig.MaxConnIdleTime = pgMaxConnIdleTime
	poolConfig.ConnConfig.ConnectTimeout = pgConnectTimeout

	// Per-connection statement timeout so a stuck query never outlives a request.
	poolConfig.AfterConnect = func(ctx context.Context, connection *pgx.Conn) error {
		timeoutQuery := fmt.Sprintf("SET statement_timeout = '%ds'", int(constants.GlobalRequestTimeout.Seconds()))
		_, err := connection.Exec(ctx, timeoutQuery)
		return err
	}

	connectCtx, cancel := context.WithTimeout(ctx, pgConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("clientstate: failed to create pool: %w", err)
	}

	store := &Postgres{pool: pool, namespace: namespace}
	if err := store.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("clientstate_postgres_connected",
		slog.Int("max_conns", int(pool.Stat().MaxConns())),
		slog.String("namespace", namespace),
	)

	return store, nil
}

// Load implements [Storage].
func (store *Postgres) Load(ctx context.Context, keys ...string) (map[string]string, error) {
	found := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return found, nil
	}

	query := `
		SELECT key, value
		FROM console_state
		WHERE namespace = $1 AND key = ANY($2)`

	rows, err := store.pool.Query(ctx, query, store.namespace, keys)
	if err != nil {
		return nil, fmt.Errorf("clientstate_postgres_load_failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("clientstate_postgres_scan_failed: %w", err)
		}
		found[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("clientstate_postgres_load_failed: %w", err)
	}
	return found, nil
}

// Save implements [Storage]. Every upsert runs in one transaction.
func (store *Postgres) Save(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	query := `
		INSERT INTO console_state (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (namespace, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	err := pgx.BeginFunc(ctx, store.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for key, value := range entries {
			batch.Queue(query, store.namespace, key, value)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("clientstate_postgres_save_failed: %w", err)
	}
	return nil
}

// Delete implements [Storage].
func (store *Postgres) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	query := `DELETE FROM console_state WHERE namespace = $1 AND key = ANY($2)`

	if _, err := store.pool.Exec(ctx, query, store.namespace, keys); err != nil {
		return fmt.Errorf("clientstate_postgres_delete_failed: %w", err)
	}
	return nil
}

// Ping verifies that the PostgreSQL connection pool is healthy.
func (store *Postgres) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pgPingTimeout)
	defer cancel()

	if err := store.pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("clientstate: postgres ping failed: %w", err)
	}
	return nil
}

// Close implements [Storage].
func (store *Postgres) Close() error {
	store.pool.Close()
	return nil
}
