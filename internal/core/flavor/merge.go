// Package flavor contains the pure merge logic for per-player quest
// flavor records.
package flavor

import "time"

// Record is the aggregate for one (player, flavor text) pair. Counts
// maps location tags to how many distinct quest events resolved to
// that tag; Seen holds the forward timestamps of every counted event.
type Record struct {
	UserID     int64
	FlavorText string
	Counts     map[string]int
	Seen       []time.Time
}

// NewRecord creates an empty record for a previously-unseen flavor.
func NewRecord(userID int64, flavorText string) *Record {
	return &Record{
		UserID:     userID,
		FlavorText: flavorText,
		Counts:     make(map[string]int),
	}
}

// ApplyChoice counts a resolved location prompt. The source event's
// forward timestamp is the identity key: a timestamp already in Seen
// means this exact event was counted before, and the call is a no-op.
// Returns whether the choice was applied.
func (r *Record) ApplyChoice(sourceTimestamp time.Time, locationTag string) bool {
	for _, ts := range r.Seen {
		if ts.Equal(sourceTimestamp) {
			return false
		}
	}
	r.Seen = append(r.Seen, sourceTimestamp)
	if r.Counts == nil {
		r.Counts = make(map[string]int)
	}
	r.Counts[locationTag]++
	return true
}
