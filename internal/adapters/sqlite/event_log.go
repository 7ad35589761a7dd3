package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// EventLogWriter implements secondary.EventLog with SQLite.
type EventLogWriter struct {
	db *sql.DB
}

// NewEventLogWriter creates a new SQLite event-log writer.
func NewEventLogWriter(db *sql.DB) *EventLogWriter {
	return &EventLogWriter{db: db}
}

// LogHandled appends one audit entry.
func (w *EventLogWriter) LogHandled(ctx context.Context, userID int64, kind, detail string) error {
	_, err := w.db.ExecContext(ctx,
		"INSERT INTO event_log (user_id, kind, detail) VALUES (?, ?, ?)",
		userID, kind, detail,
	)
	if err != nil {
		return fmt.Errorf("failed to write event log: %w", err)
	}
	return nil
}
