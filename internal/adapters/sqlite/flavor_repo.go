package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/scout/internal/ports/secondary"
)

// FlavorRepository implements secondary.FlavorRepository with SQLite.
type FlavorRepository struct {
	db *sql.DB
}

// NewFlavorRepository creates a new SQLite flavor repository.
func NewFlavorRepository(db *sql.DB) *FlavorRepository {
	return &FlavorRepository{db: db}
}

// Get retrieves the record for (userID, flavorText). Returns
// (nil, nil) when the flavor has never been seen for that player.
func (r *FlavorRepository) Get(ctx context.Context, userID int64, flavorText string) (*secondary.FlavorRecord, error) {
	var exists int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM flavors WHERE user_id = ? AND flavor_text = ?",
		userID, flavorText,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to get flavor record: %w", err)
	}
	if exists == 0 {
		return nil, nil
	}

	record := &secondary.FlavorRecord{
		UserID:     userID,
		FlavorText: flavorText,
		Counts:     make(map[string]int),
	}
	if err := r.loadCountsAndSightings(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Save upserts the flavor row, its counters and its observation set in
// one transaction.
func (r *FlavorRepository) Save(ctx context.Context, record *secondary.FlavorRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO flavors (user_id, flavor_text) VALUES (?, ?)",
		record.UserID, record.FlavorText,
	)
	if err != nil {
		return fmt.Errorf("failed to save flavor record: %w", err)
	}

	for tag, count := range record.Counts {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO flavor_counts (user_id, flavor_text, tag, count) VALUES (?, ?, ?, ?)
			ON CONFLICT(user_id, flavor_text, tag) DO UPDATE SET count = excluded.count`,
			record.UserID, record.FlavorText, tag, count,
		)
		if err != nil {
			return fmt.Errorf("failed to save flavor count: %w", err)
		}
	}

	for _, ts := range record.Seen {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO flavor_sightings (user_id, flavor_text, seen_at) VALUES (?, ?, ?)",
			record.UserID, record.FlavorText, ts.UTC().Format(timeLayout),
		)
		if err != nil {
			return fmt.Errorf("failed to save flavor sighting: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit flavor record: %w", err)
	}
	return nil
}

// Exists reports whether the player already has a record for the
// flavor text.
func (r *FlavorRepository) Exists(ctx context.Context, userID int64, flavorText string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM flavors WHERE user_id = ? AND flavor_text = ?",
		userID, flavorText,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check flavor: %w", err)
	}
	return count > 0, nil
}

// List retrieves all flavor records ordered by user then flavor.
func (r *FlavorRepository) List(ctx context.Context) ([]*secondary.FlavorRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT user_id, flavor_text FROM flavors ORDER BY user_id, flavor_text",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list flavors: %w", err)
	}
	defer rows.Close()

	var records []*secondary.FlavorRecord
	for rows.Next() {
		record := &secondary.FlavorRecord{Counts: make(map[string]int)}
		if err := rows.Scan(&record.UserID, &record.FlavorText); err != nil {
			return nil, fmt.Errorf("failed to scan flavor: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate flavors: %w", err)
	}

	for _, record := range records {
		if err := r.loadCountsAndSightings(ctx, record); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// loadCountsAndSightings fills the counters and observation set of a
// record whose keys are already set.
func (r *FlavorRepository) loadCountsAndSightings(ctx context.Context, record *secondary.FlavorRecord) error {
	rows, err := r.db.QueryContext(ctx,
		"SELECT tag, count FROM flavor_counts WHERE user_id = ? AND flavor_text = ?",
		record.UserID, record.FlavorText,
	)
	if err != nil {
		return fmt.Errorf("failed to load flavor counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			tag   string
			count int
		)
		if err := rows.Scan(&tag, &count); err != nil {
			return fmt.Errorf("failed to scan flavor count: %w", err)
		}
		record.Counts[tag] = count
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate flavor counts: %w", err)
	}

	seenRows, err := r.db.QueryContext(ctx,
		"SELECT seen_at FROM flavor_sightings WHERE user_id = ? AND flavor_text = ? ORDER BY seen_at",
		record.UserID, record.FlavorText,
	)
	if err != nil {
		return fmt.Errorf("failed to load flavor sightings: %w", err)
	}
	defer seenRows.Close()

	for seenRows.Next() {
		var raw string
		if err := seenRows.Scan(&raw); err != nil {
			return fmt.Errorf("failed to scan flavor sighting: %w", err)
		}
		ts, err := time.Parse(timeLayout, raw)
		if err != nil {
			return fmt.Errorf("failed to parse flavor sighting %q: %w", raw, err)
		}
		record.Seen = append(record.Seen, ts)
	}
	return seenRows.Err()
}
