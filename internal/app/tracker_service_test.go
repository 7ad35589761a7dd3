package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/example/scout/internal/core/classify"
	"github.com/example/scout/internal/ports/primary"
)

const questReport = "A quiet forest clearing.\nYou received:\nEarned: Wood(5)"

var forwardTime = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

func newTestTracker() (*TrackerServiceImpl, *mockRouteRepository, *mockFlavorRepository, *mockProfileRepository) {
	routes := newMockRouteRepository()
	flavors := newMockFlavorRepository()
	profiles := newMockProfileRepository()
	svc := NewTrackerService(routes, flavors, profiles, &mockEventLog{})
	return svc, routes, flavors, profiles
}

func privateMessage(text string, at time.Time) primary.IncomingMessage {
	return primary.IncomingMessage{
		UserID:      7,
		ChatID:      7,
		MessageID:   100,
		Text:        text,
		Private:     true,
		ForwardedAt: at,
	}
}

func TestHandleMessage_Identity(t *testing.T) {
	svc, _, _, profiles := newTestTracker()

	action, err := svc.HandleMessage(context.Background(), privateMessage("🐺[ABC]Wolfgang", forwardTime))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if action.Type != primary.ActionReply {
		t.Fatalf("action = %q, want reply", action.Type)
	}
	if action.Text != "Hello, 🐺[ABC]Wolfgang" {
		t.Errorf("Text = %q", action.Text)
	}

	saved := profiles.profiles[7]
	if saved == nil || saved.Guild != "ABC" || saved.Name != "Wolfgang" {
		t.Errorf("profile = %+v, want guild ABC name Wolfgang", saved)
	}
}

func TestHandleMessage_RouteCreateAndReplay(t *testing.T) {
	svc, routes, _, _ := newTestTracker()
	msg := privateMessage("You found hidden passage Old Mill\nYou noticed that objective is captured by alliance.\nТо remember the route you associated it with simple combination: AB12", forwardTime)

	action, err := svc.HandleMessage(context.Background(), msg)
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if action.Type != primary.ActionReply || action.Text != "Old Mill\nTimes seen: 1" {
		t.Errorf("action = %+v", action)
	}

	stored := routes.routes["AB12"]
	if stored == nil {
		t.Fatal("route AB12 not persisted")
	}
	if stored.Name != "Old Mill" || !stored.Occupied || stored.Defended {
		t.Errorf("stored = %+v", stored)
	}

	// Replaying the identical forwarded message must not inflate the
	// count.
	action, err = svc.HandleMessage(context.Background(), msg)
	if err != nil {
		t.Fatalf("HandleMessage() replay error = %v", err)
	}
	if action.Text != "Old Mill\nTimes seen: 1" {
		t.Errorf("replay Text = %q, want count still 1", action.Text)
	}
	if len(routes.routes["AB12"].Seen) != 1 {
		t.Errorf("Seen = %v, want one timestamp", routes.routes["AB12"].Seen)
	}
}

func TestHandleMessage_RouteFlagTimestamps(t *testing.T) {
	svc, routes, _, _ := newTestTracker()
	plain := "You found hidden passage Old Mill\nТо remember the route you associated it with simple combination: AB12"
	occupied := "You found hidden passage Old Mill\nYou noticed that objective is captured by alliance.\nТо remember the route you associated it with simple combination: AB12"

	if _, err := svc.HandleMessage(context.Background(), privateMessage(plain, forwardTime)); err != nil {
		t.Fatal(err)
	}
	// Newer observation flips the flag.
	if _, err := svc.HandleMessage(context.Background(), privateMessage(occupied, forwardTime.Add(time.Hour))); err != nil {
		t.Fatal(err)
	}
	if !routes.routes["AB12"].Occupied {
		t.Error("Occupied = false after newer occupied observation")
	}
	// An older straggler reporting unoccupied must not win.
	if _, err := svc.HandleMessage(context.Background(), privateMessage(plain, forwardTime.Add(-time.Hour))); err != nil {
		t.Fatal(err)
	}
	if !routes.routes["AB12"].Occupied {
		t.Error("Occupied = false after older observation, want newest-wins kept")
	}
	if len(routes.routes["AB12"].Seen) != 3 {
		t.Errorf("Seen = %d timestamps, want 3", len(routes.routes["AB12"].Seen))
	}
}

func TestHandleMessage_MalformedRoute(t *testing.T) {
	svc, routes, _, _ := newTestTracker()
	text := "You found hidden passage Old Mill\nТо remember the route you associated it with simple combination: "

	_, err := svc.HandleMessage(context.Background(), privateMessage(text, forwardTime))
	if err == nil {
		t.Fatal("HandleMessage() error = nil, want malformed match failure")
	}
	if len(routes.routes) != 0 {
		t.Errorf("routes = %v, want no mutation on malformed match", routes.routes)
	}
}

func TestHandleMessage_QuestPromptsLocation(t *testing.T) {
	svc, _, _, _ := newTestTracker()

	action, err := svc.HandleMessage(context.Background(), privateMessage(questReport, forwardTime))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if action.Type != primary.ActionPromptLocation {
		t.Fatalf("action = %q, want prompt_location", action.Type)
	}
	if action.CorrelationID == "" {
		t.Error("CorrelationID empty, want minted token")
	}
}

func TestHandleMessage_Unknown(t *testing.T) {
	svc, _, _, _ := newTestTracker()

	action, err := svc.HandleMessage(context.Background(), privateMessage("what a lovely day", forwardTime))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if action.Type != primary.ActionReply {
		t.Fatalf("action = %q, want reply", action.Type)
	}
	want := "morning\n2024-01-01 08:00:00\nunknown"
	if action.Text != want {
		t.Errorf("Text = %q, want %q", action.Text, want)
	}
}

func TestHandleMessage_GroupChatNoiseDropped(t *testing.T) {
	svc, _, _, _ := newTestTracker()
	msg := primary.IncomingMessage{UserID: 7, ChatID: -100, Text: "hello all", Private: false, ForwardedAt: forwardTime}

	action, err := svc.HandleMessage(context.Background(), msg)
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if action.Type != primary.ActionNone {
		t.Errorf("action = %q, want none", action.Type)
	}
}

func TestHandleButton_ResolvesAndCounts(t *testing.T) {
	svc, _, flavors, _ := newTestTracker()

	action, err := svc.HandleMessage(context.Background(), privateMessage(questReport, forwardTime))
	if err != nil {
		t.Fatal(err)
	}
	token := action.CorrelationID

	press := primary.ButtonPress{UserID: 7, Value: "🍄", CorrelationID: token}
	result, err := svc.HandleButton(context.Background(), press)
	if err != nil {
		t.Fatalf("HandleButton() error = %v", err)
	}
	if result.Type != primary.ActionEditMessage {
		t.Fatalf("action = %q, want edit_message", result.Type)
	}
	if result.CorrelationID != token {
		t.Errorf("CorrelationID = %q, want %q", result.CorrelationID, token)
	}
	for _, want := range []string{"morning 🍄", "A quiet forest clearing.", "Earned: Wood(5)", "🍄: 1"} {
		if !strings.Contains(result.Text, want) {
			t.Errorf("Text = %q, missing %q", result.Text, want)
		}
	}

	rec := flavors.records[flavorKey(7, "A quiet forest clearing.")]
	if rec == nil {
		t.Fatal("flavor record not persisted")
	}
	if rec.Counts["🍄"] != 1 {
		t.Errorf("Counts[🍄] = %d, want 1", rec.Counts["🍄"])
	}
}

func TestHandleButton_DuplicatePressIsNoOp(t *testing.T) {
	svc, _, flavors, _ := newTestTracker()

	// Two prompts for the same quest event timestamp (at-least-once
	// delivery of the same forwarded message).
	first, err := svc.HandleMessage(context.Background(), privateMessage(questReport, forwardTime))
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.HandleMessage(context.Background(), privateMessage(questReport, forwardTime))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.HandleButton(context.Background(), primary.ButtonPress{UserID: 7, Value: "🍄", CorrelationID: first.CorrelationID}); err != nil {
		t.Fatal(err)
	}
	result, err := svc.HandleButton(context.Background(), primary.ButtonPress{UserID: 7, Value: "🍄", CorrelationID: second.CorrelationID})
	if err != nil {
		t.Fatal(err)
	}

	rec := flavors.records[flavorKey(7, "A quiet forest clearing.")]
	if rec.Counts["🍄"] != 1 {
		t.Errorf("Counts[🍄] = %d after duplicate resolution, want 1", rec.Counts["🍄"])
	}
	// The duplicate still re-renders the current snapshot.
	if !strings.Contains(result.Text, "🍄: 1") {
		t.Errorf("Text = %q, want current counter shown", result.Text)
	}
}

func TestHandleButton_DistinctTimestampCountsAgain(t *testing.T) {
	svc, _, flavors, _ := newTestTracker()

	for i, at := range []time.Time{forwardTime, forwardTime.Add(time.Hour)} {
		action, err := svc.HandleMessage(context.Background(), privateMessage(questReport, at))
		if err != nil {
			t.Fatalf("prompt %d: %v", i, err)
		}
		if _, err := svc.HandleButton(context.Background(), primary.ButtonPress{UserID: 7, Value: "🌲", CorrelationID: action.CorrelationID}); err != nil {
			t.Fatalf("press %d: %v", i, err)
		}
	}

	rec := flavors.records[flavorKey(7, "A quiet forest clearing.")]
	if rec.Counts["🌲"] != 2 {
		t.Errorf("Counts[🌲] = %d, want 2", rec.Counts["🌲"])
	}
}

func TestHandleButton_UnknownCorrelationIgnored(t *testing.T) {
	svc, _, _, _ := newTestTracker()

	action, err := svc.HandleButton(context.Background(), primary.ButtonPress{UserID: 7, Value: "🌲", CorrelationID: "bogus"})
	if err != nil {
		t.Fatalf("HandleButton() error = %v", err)
	}
	if action.Type != primary.ActionNone {
		t.Errorf("action = %q, want none", action.Type)
	}
}

func TestHandleMessage_KnownFlavorFallback(t *testing.T) {
	svc, _, _, _ := newTestTracker()

	// First quest records the flavor.
	action, err := svc.HandleMessage(context.Background(), privateMessage(questReport, forwardTime))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.HandleButton(context.Background(), primary.ButtonPress{UserID: 7, Value: "🌲", CorrelationID: action.CorrelationID}); err != nil {
		t.Fatal(err)
	}

	// A later message that is just the bare flavor text classifies as
	// a quest again via the seen-flavor fallback.
	bare := classify.FlavorText(questReport)
	action, err = svc.HandleMessage(context.Background(), privateMessage(bare, forwardTime.Add(time.Hour)))
	if err != nil {
		t.Fatal(err)
	}
	if action.Type != primary.ActionPromptLocation {
		t.Errorf("action = %q, want prompt_location via flavor fallback", action.Type)
	}
}
