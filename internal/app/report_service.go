package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/scout/internal/ports/primary"
	"github.com/example/scout/internal/ports/secondary"
)

// ReportServiceImpl implements the ReportService interface.
type ReportServiceImpl struct {
	routeRepo  secondary.RouteRepository
	flavorRepo secondary.FlavorRepository
}

// NewReportService creates a ReportService with injected dependencies.
func NewReportService(routeRepo secondary.RouteRepository, flavorRepo secondary.FlavorRepository) *ReportServiceImpl {
	return &ReportServiceImpl{
		routeRepo:  routeRepo,
		flavorRepo: flavorRepo,
	}
}

// ListRoutes returns all routes sorted by location name.
func (s *ReportServiceImpl) ListRoutes(ctx context.Context) ([]primary.RouteListing, error) {
	records, err := s.routeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}

	listings := make([]primary.RouteListing, len(records))
	for i, r := range records {
		var last time.Time
		for _, ts := range r.Seen {
			if ts.After(last) {
				last = ts
			}
		}
		listings[i] = primary.RouteListing{
			Code:     r.Code,
			Name:     r.Name,
			Count:    len(r.Seen),
			Occupied: r.Occupied,
			Defended: r.Defended,
			LastSeen: last,
		}
	}
	return listings, nil
}

// routeDump is the JSON shape of one route in diagnostics output.
type routeDump struct {
	Name      string   `json:"name"`
	Occupied  bool     `json:"occupied"`
	Defended  bool     `json:"defended"`
	Count     int      `json:"count"`
	TimesSeen []string `json:"times_seen"`
}

// DumpRoutes renders the raw route table as indented JSON keyed by
// secret code.
func (s *ReportServiceImpl) DumpRoutes(ctx context.Context) (string, error) {
	records, err := s.routeRepo.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list routes: %w", err)
	}

	dump := make(map[string]routeDump, len(records))
	for _, r := range records {
		dump[r.Code] = routeDump{
			Name:      r.Name,
			Occupied:  r.Occupied,
			Defended:  r.Defended,
			Count:     len(r.Seen),
			TimesSeen: formatTimes(r.Seen),
		}
	}

	out, err := json.MarshalIndent(dump, "", "   ")
	if err != nil {
		return "", fmt.Errorf("failed to render routes: %w", err)
	}
	return string(out), nil
}

// flavorDump is the JSON shape of one flavor record in diagnostics
// output.
type flavorDump struct {
	UserID     int64          `json:"user_id"`
	FlavorText string         `json:"flavor_text"`
	Counts     map[string]int `json:"counts"`
	TimesSeen  []string       `json:"times_seen"`
}

// DumpFlavors renders the raw per-player flavor table as indented
// JSON.
func (s *ReportServiceImpl) DumpFlavors(ctx context.Context) (string, error) {
	records, err := s.flavorRepo.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list flavors: %w", err)
	}

	dump := make([]flavorDump, len(records))
	for i, r := range records {
		dump[i] = flavorDump{
			UserID:     r.UserID,
			FlavorText: r.FlavorText,
			Counts:     r.Counts,
			TimesSeen:  formatTimes(r.Seen),
		}
	}

	out, err := json.MarshalIndent(dump, "", "   ")
	if err != nil {
		return "", fmt.Errorf("failed to render flavors: %w", err)
	}
	return string(out), nil
}

// FormatRouteListings renders the route report as plain text, one
// route per line.
func FormatRouteListings(listings []primary.RouteListing) string {
	if len(listings) == 0 {
		return "No routes recorded"
	}

	var b strings.Builder
	for _, l := range listings {
		fmt.Fprintf(&b, "%s %s seen:%d", l.Code, l.Name, l.Count)
		if l.Occupied {
			b.WriteString(" occupied")
		}
		if l.Defended {
			b.WriteString(" defended")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatTimes renders a timestamp set sorted ascending.
func formatTimes(times []time.Time) []string {
	sorted := append([]time.Time(nil), times...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	out := make([]string, len(sorted))
	for i, ts := range sorted {
		out[i] = ts.UTC().Format(time.RFC3339)
	}
	return out
}
