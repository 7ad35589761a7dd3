package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/scout/internal/ports/secondary"
)

// ProfileRepository implements secondary.ProfileRepository with SQLite.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new SQLite profile repository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get retrieves a profile by user ID, or (nil, nil) when unknown.
func (r *ProfileRepository) Get(ctx context.Context, userID int64) (*secondary.ProfileRecord, error) {
	record := &secondary.ProfileRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id, castle, guild, name FROM profiles WHERE user_id = ?",
		userID,
	).Scan(&record.UserID, &record.Castle, &record.Guild, &record.Name)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return record, nil
}

// Save upserts a profile.
func (r *ProfileRepository) Save(ctx context.Context, record *secondary.ProfileRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, castle, guild, name) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			castle = excluded.castle,
			guild = excluded.guild,
			name = excluded.name,
			updated_at = CURRENT_TIMESTAMP`,
		record.UserID, record.Castle, record.Guild, record.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
