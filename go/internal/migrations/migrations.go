// Package migrations holds the Postgres schema used by the pgx repositories.
package migrations

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/partyvote/go/internal/sqlutil"
)

//go:embed schema.sql
var schema string

// Schema returns the DDL applied by Apply
func Schema() string {
	return schema
}

// Apply creates every table and counter row that is missing. It is safe to
// run against an already migrated database.
func Apply(ctx context.Context, db sqlutil.DBTX) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	log.Info().Msg("database schema applied")
	return nil
}
