package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "embed"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

//go:embed schema_postgres.sql
var postgresSchema string

// Migrate applies the history schema for the given dialect.  The statements
// only create what is missing, so it is safe to call on every start and never
// touches existing rows.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	var schema string
	switch dialect {
	case DialectSQLite:
		schema = sqliteSchema
	case DialectPostgres:
		schema = postgresSchema
	default:
		return fmt.Errorf("migrate: unsupported dialect %q", dialect)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate %s: %w", dialect, err)
	}
	return nil
}
