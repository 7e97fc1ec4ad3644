package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq" // Postgres driver
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL flavour used for the history table.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect maps a configured driver name onto a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pq":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("unknown database driver %q", driver)
	}
}

// Open opens a pooled handle for the dialect and verifies it with a ping.
// The handle is meant to be held for the life of the process.
func Open(ctx context.Context, dialect Dialect, dsn string) (*sql.DB, error) {
	driverName := string(dialect)
	if dialect == DialectSQLite {
		dsn = sqliteDSN(dsn)
	}
	conn, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	return conn, nil
}

// sqliteDSN adds a busy timeout so concurrent appends wait on the file lock
// instead of failing with SQLITE_BUSY.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=busy_timeout") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)"
}
