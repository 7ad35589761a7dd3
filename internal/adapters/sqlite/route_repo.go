// Package sqlite contains SQLite implementations of repository
// interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/scout/internal/ports/secondary"
)

// timeLayout is how observation timestamps are stored. RFC3339Nano
// sorts lexicographically for timestamps in the same zone, which keeps
// the (key, seen_at) primary keys usable for ordering.
const timeLayout = time.RFC3339Nano

// RouteRepository implements secondary.RouteRepository with SQLite.
type RouteRepository struct {
	db *sql.DB
}

// NewRouteRepository creates a new SQLite route repository.
func NewRouteRepository(db *sql.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// Get retrieves a route by its secret code. Returns (nil, nil) when
// the code has never been observed.
func (r *RouteRepository) Get(ctx context.Context, code string) (*secondary.RouteRecord, error) {
	record := &secondary.RouteRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT code, name, occupied, defended FROM routes WHERE code = ?",
		code,
	).Scan(&record.Code, &record.Name, &record.Occupied, &record.Defended)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get route: %w", err)
	}

	record.Seen, err = r.sightings(ctx, code)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Save upserts the route row and its observation set in one
// transaction. Re-inserting an already-present timestamp is a no-op.
func (r *RouteRepository) Save(ctx context.Context, record *secondary.RouteRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO routes (code, name, occupied, defended) VALUES (?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			name = excluded.name,
			occupied = excluded.occupied,
			defended = excluded.defended,
			updated_at = CURRENT_TIMESTAMP`,
		record.Code, record.Name, record.Occupied, record.Defended,
	)
	if err != nil {
		return fmt.Errorf("failed to save route: %w", err)
	}

	for _, ts := range record.Seen {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO route_sightings (code, seen_at) VALUES (?, ?)",
			record.Code, ts.UTC().Format(timeLayout),
		)
		if err != nil {
			return fmt.Errorf("failed to save route sighting: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit route: %w", err)
	}
	return nil
}

// List retrieves all routes sorted by location name.
func (r *RouteRepository) List(ctx context.Context) ([]*secondary.RouteRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT code, name, occupied, defended FROM routes ORDER BY name, code",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	defer rows.Close()

	var records []*secondary.RouteRecord
	for rows.Next() {
		record := &secondary.RouteRecord{}
		if err := rows.Scan(&record.Code, &record.Name, &record.Occupied, &record.Defended); err != nil {
			return nil, fmt.Errorf("failed to scan route: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate routes: %w", err)
	}

	for _, record := range records {
		record.Seen, err = r.sightings(ctx, record.Code)
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

// sightings loads the observation set for one code.
func (r *RouteRepository) sightings(ctx context.Context, code string) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT seen_at FROM route_sightings WHERE code = ? ORDER BY seen_at",
		code,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load sightings: %w", err)
	}
	defer rows.Close()

	var seen []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan sighting: %w", err)
		}
		ts, err := time.Parse(timeLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse sighting %q: %w", raw, err)
		}
		seen = append(seen, ts)
	}
	return seen, rows.Err()
}
