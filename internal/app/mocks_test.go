package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/example/scout/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockRouteRepository implements secondary.RouteRepository for testing.
type mockRouteRepository struct {
	routes  map[string]*secondary.RouteRecord
	getErr  error
	saveErr error
	listErr error
}

func newMockRouteRepository() *mockRouteRepository {
	return &mockRouteRepository{routes: make(map[string]*secondary.RouteRecord)}
}

func (m *mockRouteRepository) Get(ctx context.Context, code string) (*secondary.RouteRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.routes[code], nil
}

func (m *mockRouteRepository) Save(ctx context.Context, record *secondary.RouteRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.routes[record.Code] = record
	return nil
}

func (m *mockRouteRepository) List(ctx context.Context) ([]*secondary.RouteRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*secondary.RouteRecord
	for _, r := range m.routes {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// mockFlavorRepository implements secondary.FlavorRepository for testing.
type mockFlavorRepository struct {
	records map[string]*secondary.FlavorRecord
	getErr  error
	saveErr error
	listErr error
}

func newMockFlavorRepository() *mockFlavorRepository {
	return &mockFlavorRepository{records: make(map[string]*secondary.FlavorRecord)}
}

func flavorKey(userID int64, flavorText string) string {
	return fmt.Sprintf("%d|%s", userID, flavorText)
}

func (m *mockFlavorRepository) Get(ctx context.Context, userID int64, flavorText string) (*secondary.FlavorRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.records[flavorKey(userID, flavorText)], nil
}

func (m *mockFlavorRepository) Save(ctx context.Context, record *secondary.FlavorRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records[flavorKey(record.UserID, record.FlavorText)] = record
	return nil
}

func (m *mockFlavorRepository) Exists(ctx context.Context, userID int64, flavorText string) (bool, error) {
	_, ok := m.records[flavorKey(userID, flavorText)]
	return ok, nil
}

func (m *mockFlavorRepository) List(ctx context.Context) ([]*secondary.FlavorRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*secondary.FlavorRecord
	for _, r := range m.records {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].UserID != result[j].UserID {
			return result[i].UserID < result[j].UserID
		}
		return result[i].FlavorText < result[j].FlavorText
	})
	return result, nil
}

// mockProfileRepository implements secondary.ProfileRepository for testing.
type mockProfileRepository struct {
	profiles map[int64]*secondary.ProfileRecord
	saveErr  error
}

func newMockProfileRepository() *mockProfileRepository {
	return &mockProfileRepository{profiles: make(map[int64]*secondary.ProfileRecord)}
}

func (m *mockProfileRepository) Get(ctx context.Context, userID int64) (*secondary.ProfileRecord, error) {
	return m.profiles[userID], nil
}

func (m *mockProfileRepository) Save(ctx context.Context, record *secondary.ProfileRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.profiles[record.UserID] = record
	return nil
}

// mockEventLog implements secondary.EventLog for testing.
type mockEventLog struct {
	entries []string
}

func (m *mockEventLog) LogHandled(ctx context.Context, userID int64, kind, detail string) error {
	m.entries = append(m.entries, fmt.Sprintf("%d:%s:%s", userID, kind, detail))
	return nil
}
