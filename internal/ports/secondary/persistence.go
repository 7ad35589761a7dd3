// Package secondary defines the secondary ports (driven adapters) for
// the application. These are the interfaces through which the
// application drives external systems.
package secondary

import (
	"context"
	"time"
)

// RouteRepository defines the secondary port for route persistence.
type RouteRepository interface {
	// Get retrieves a route by its secret code. A missing code is not
	// an error: it returns (nil, nil) and the caller creates.
	Get(ctx context.Context, code string) (*RouteRecord, error)

	// Save upserts a route and its observation set atomically.
	Save(ctx context.Context, record *RouteRecord) error

	// List retrieves all routes sorted by location name.
	List(ctx context.Context) ([]*RouteRecord, error)
}

// RouteRecord represents a route as stored in persistence.
type RouteRecord struct {
	Code     string
	Name     string
	Occupied bool
	Defended bool
	Seen     []time.Time
}

// FlavorRepository defines the secondary port for per-player quest
// flavor persistence.
type FlavorRepository interface {
	// Get retrieves the record for (userID, flavorText), or (nil, nil)
	// when the flavor has never been seen for that player.
	Get(ctx context.Context, userID int64, flavorText string) (*FlavorRecord, error)

	// Save upserts a flavor record, its counters and its observation
	// set atomically.
	Save(ctx context.Context, record *FlavorRecord) error

	// Exists reports whether the player already has a record for the
	// flavor text. Backs the classifier's seen-flavor fallback match.
	Exists(ctx context.Context, userID int64, flavorText string) (bool, error)

	// List retrieves all flavor records ordered by user then flavor.
	List(ctx context.Context) ([]*FlavorRecord, error)
}

// FlavorRecord represents a per-player flavor aggregate as stored in
// persistence.
type FlavorRecord struct {
	UserID     int64
	FlavorText string
	Counts     map[string]int
	Seen       []time.Time
}

// ProfileRepository defines the secondary port for player profiles
// captured from identity messages.
type ProfileRepository interface {
	// Get retrieves a profile by user ID, or (nil, nil) when unknown.
	Get(ctx context.Context, userID int64) (*ProfileRecord, error)

	// Save upserts a profile.
	Save(ctx context.Context, record *ProfileRecord) error
}

// ProfileRecord represents a player profile as stored in persistence.
type ProfileRecord struct {
	UserID int64
	Castle string
	Guild  string
	Name   string
}
