// Package wire provides dependency injection for the scout
// application. It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"sync"

	"github.com/example/scout/internal/adapters/sqlite"
	"github.com/example/scout/internal/app"
	"github.com/example/scout/internal/db"
	"github.com/example/scout/internal/ports/primary"
)

var (
	trackerService primary.TrackerService
	reportService  primary.ReportService
	once           sync.Once
)

// TrackerService returns the singleton TrackerService instance.
func TrackerService() primary.TrackerService {
	once.Do(initServices)
	return trackerService
}

// ReportService returns the singleton ReportService instance.
func ReportService() primary.ReportService {
	once.Do(initServices)
	return reportService
}

// initServices initializes all services and their dependencies.
func initServices() {
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	routeRepo := sqlite.NewRouteRepository(database)
	flavorRepo := sqlite.NewFlavorRepository(database)
	profileRepo := sqlite.NewProfileRepository(database)
	eventLog := sqlite.NewEventLogWriter(database)

	trackerService = app.NewTrackerService(routeRepo, flavorRepo, profileRepo, eventLog)
	reportService = app.NewReportService(routeRepo, flavorRepo)
}
