// Package route contains the pure merge logic for discovered routes.
// Merging is side-effect free; persistence belongs to the adapters.
package route

import (
	"time"

	"github.com/example/scout/internal/core/classify"
)

// Route is the aggregate for one secret code. Seen is a set of
// forward timestamps; Count is always derived from it, never stored
// independently.
type Route struct {
	Code     string
	Name     string
	Occupied bool
	Defended bool
	Seen     []time.Time
}

// Count returns the number of distinct observations.
func (r Route) Count() int { return len(r.Seen) }

// LastSeen returns the maximum observation timestamp, or the zero time
// for an empty route.
func (r Route) LastSeen() time.Time {
	var max time.Time
	for _, ts := range r.Seen {
		if ts.After(max) {
			max = ts
		}
	}
	return max
}

// Merge folds a route event into the existing aggregate. existing may
// be nil (first observation of the code). Rules:
//
//   - The event timestamp joins the observation set; re-inserting a
//     timestamp already present is a no-op, so replaying the identical
//     forwarded message cannot inflate the count.
//   - Name and flags adopt the event's values only when the event
//     timestamp is the new maximum of the set. A late-arriving,
//     out-of-order duplicate never overwrites fresher data.
func Merge(existing *Route, ev classify.RouteEvent) Route {
	if existing == nil {
		return Route{
			Code:     ev.Code,
			Name:     ev.Name,
			Occupied: ev.Occupied,
			Defended: ev.Defended,
			Seen:     []time.Time{ev.ObservedAt},
		}
	}

	merged := *existing
	merged.Seen = append([]time.Time(nil), existing.Seen...)

	present := false
	for _, ts := range merged.Seen {
		if ts.Equal(ev.ObservedAt) {
			present = true
			break
		}
	}
	if !present {
		merged.Seen = append(merged.Seen, ev.ObservedAt)
	}

	if ev.ObservedAt.After(existing.LastSeen()) {
		merged.Name = ev.Name
		merged.Occupied = ev.Occupied
		merged.Defended = ev.Defended
	}

	return merged
}
