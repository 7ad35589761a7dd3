// Package primary defines the primary ports (driving interfaces) of
// the scout application: what transports and CLI adapters may ask the
// core to do.
package primary

import (
	"context"
	"time"
)

// LocationTags is the fixed set of choices offered by a location
// prompt.
var LocationTags = []string{"🌲", "🍄", "🏔"}

// Action type constants.
const (
	ActionNone           = "none"            // Nothing to send (group-chat noise)
	ActionReply          = "reply"           // Send Text quoting the incoming message
	ActionPromptLocation = "prompt_location" // Offer the location tag keyboard
	ActionEditMessage    = "edit_message"    // Replace the prompt message's text
)

// Action is the core's instruction to the transport.
type Action struct {
	Type          string // ActionNone, ActionReply, ActionPromptLocation, ActionEditMessage
	Text          string // For reply/edit
	CorrelationID string // For prompt/edit
}

// IncomingMessage is a forwarded game message plus transport metadata.
type IncomingMessage struct {
	UserID      int64
	ChatID      int64
	MessageID   int64
	Text        string
	Private     bool
	ForwardedAt time.Time // When the game produced the message, not when we saw it
}

// ButtonPress is an answered location prompt.
type ButtonPress struct {
	UserID        int64
	Value         string
	CorrelationID string
}

// TrackerService is the primary port for event ingestion.
type TrackerService interface {
	// HandleMessage classifies one forwarded message and folds it into
	// the aggregates. The returned action is what the transport should
	// send; ActionNone means stay silent.
	HandleMessage(ctx context.Context, msg IncomingMessage) (Action, error)

	// HandleButton resolves a pending location prompt. Presses whose
	// correlation ID maps to nothing are ignored (ActionNone).
	HandleButton(ctx context.Context, press ButtonPress) (Action, error)
}
