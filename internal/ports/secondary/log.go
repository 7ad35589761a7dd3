package secondary

import "context"

// EventLog defines the interface for writing the handled-message audit
// trail. Implementations record what each incoming message classified
// as and what it did to the aggregates.
type EventLog interface {
	// LogHandled logs one handled message or button press.
	// kind is the classification outcome, detail is a short
	// human-readable summary of the mutation (if any).
	LogHandled(ctx context.Context, userID int64, kind, detail string) error
}
