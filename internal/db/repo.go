package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"symptom-checker/pkg"
)

// HistoryRepository appends query/response pairs to the history table.
// It exposes no read operations; the history is an audit trail only.
type HistoryRepository struct {
	DB      *sql.DB
	Dialect Dialect

	// now is swapped in tests.
	now func() time.Time
}

// NewHistoryRepository constructs a repository over an existing handle.
// The caller owns the handle's lifecycle.
func NewHistoryRepository(db *sql.DB, dialect Dialect) *HistoryRepository {
	return &HistoryRepository{DB: db, Dialect: dialect, now: time.Now}
}

// Append stores one immutable record and returns it with the identifier
// assigned by the database.
func (r *HistoryRepository) Append(ctx context.Context, symptoms, response string) (*pkg.LogRecord, error) {
	now := r.now
	if now == nil {
		now = time.Now
	}
	rec := &pkg.LogRecord{
		Symptoms:  symptoms,
		Response:  response,
		Timestamp: now().UTC(),
	}
	err := r.DB.QueryRowContext(ctx, r.insertQuery(),
		rec.Symptoms, rec.Response, rec.Timestamp,
	).Scan(&rec.ID)
	if err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}
	return rec, nil
}

func (r *HistoryRepository) insertQuery() string {
	if r.Dialect == DialectPostgres {
		return `INSERT INTO history (symptoms, response, timestamp)
         VALUES ($1, $2, $3)
         RETURNING id`
	}
	return `INSERT INTO history (symptoms, response, timestamp)
         VALUES (?, ?, ?)
         RETURNING id`
}
