package primary

import (
	"context"
	"time"
)

// RouteListing is one row of the sorted route report.
type RouteListing struct {
	Code     string
	Name     string
	Count    int
	Occupied bool
	Defended bool
	LastSeen time.Time
}

// ReportService is the primary port for read-only projections of the
// aggregates.
type ReportService interface {
	// ListRoutes returns all routes sorted by location name.
	ListRoutes(ctx context.Context) ([]RouteListing, error)

	// DumpRoutes renders the raw route table as JSON for diagnostics.
	DumpRoutes(ctx context.Context) (string, error)

	// DumpFlavors renders the raw per-player flavor table as JSON for
	// diagnostics.
	DumpFlavors(ctx context.Context) (string, error)
}
