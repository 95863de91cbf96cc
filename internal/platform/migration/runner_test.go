// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fndrorato/webscrap-ia/internal/platform/migration"
)

/*
TestConvertToPgx5DSN checks the scheme rewrite golang-migrate needs.
*/
func TestConvertToPgx5DSN(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"postgres_scheme", "postgres://u:p@db:5432/console", "pgx5://u:p@db:5432/console"},
		{"postgresql_scheme", "postgresql://db/console", "pgx5://db/console"},
		{"already_pgx5", "pgx5://db/console", "pgx5://db/console"},
		{"keyword_dsn", "host=db dbname=console", "host=db dbname=console"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, migration.ConvertToPgx5DSN(tt.in))
		})
	}
}
