// Package app implements the primary ports as application services.
// Services orchestrate the pure core packages against the secondary
// ports; they hold no aggregate data of their own.
package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/scout/internal/core/classify"
	"github.com/example/scout/internal/core/correlate"
	"github.com/example/scout/internal/core/flavor"
	"github.com/example/scout/internal/core/gametime"
	"github.com/example/scout/internal/core/route"
	"github.com/example/scout/internal/ports/primary"
	"github.com/example/scout/internal/ports/secondary"
)

// TrackerServiceImpl implements the TrackerService interface.
type TrackerServiceImpl struct {
	routeRepo   secondary.RouteRepository
	flavorRepo  secondary.FlavorRepository
	profileRepo secondary.ProfileRepository
	eventLog    secondary.EventLog
	classifier  *classify.Classifier
	pending     *correlate.Registry

	// mergeMu serializes the read-merge-save cycle of both aggregates.
	// No two merges on the same key may interleave their set-insert
	// and recompute steps.
	mergeMu keyedMutex
}

// NewTrackerService creates a TrackerService with injected
// dependencies. eventLog may be nil to disable the audit trail.
func NewTrackerService(
	routeRepo secondary.RouteRepository,
	flavorRepo secondary.FlavorRepository,
	profileRepo secondary.ProfileRepository,
	eventLog secondary.EventLog,
) *TrackerServiceImpl {
	s := &TrackerServiceImpl{
		routeRepo:   routeRepo,
		flavorRepo:  flavorRepo,
		profileRepo: profileRepo,
		eventLog:    eventLog,
		pending:     correlate.NewRegistry(),
	}
	s.classifier = classify.New(s.flavorKnown)
	return s
}

// flavorKnown backs the classifier's seen-flavor fallback. Lookup
// failures count as unseen; the message then classifies as unknown
// instead of failing outright.
func (s *TrackerServiceImpl) flavorKnown(ctx context.Context, userID int64, flavorText string) bool {
	known, err := s.flavorRepo.Exists(ctx, userID, flavorText)
	if err != nil {
		return false
	}
	return known
}

// HandleMessage classifies one forwarded message and applies it to the
// aggregates.
func (s *TrackerServiceImpl) HandleMessage(ctx context.Context, msg primary.IncomingMessage) (primary.Action, error) {
	ev, err := s.classifier.Classify(ctx, msg.UserID, msg.Text, msg.Private, msg.ForwardedAt)
	if err != nil {
		s.audit(ctx, msg.UserID, "malformed", err.Error())
		return primary.Action{}, fmt.Errorf("failed to classify message: %w", err)
	}
	if ev == nil {
		// Group-chat noise: not even acknowledged.
		return primary.Action{Type: primary.ActionNone}, nil
	}

	switch ev := ev.(type) {
	case classify.IdentityEvent:
		return s.handleIdentity(ctx, msg, ev)
	case classify.RouteEvent:
		return s.handleRoute(ctx, msg, ev)
	case classify.QuestEvent:
		return s.handleQuest(ctx, msg, ev)
	case classify.UnknownEvent:
		s.audit(ctx, msg.UserID, classify.KindUnknown, "")
		text := fmt.Sprintf("%s\n%s\nunknown",
			gametime.Classify(msg.ForwardedAt),
			msg.ForwardedAt.Format("2006-01-02 15:04:05"))
		return primary.Action{Type: primary.ActionReply, Text: text}, nil
	default:
		return primary.Action{}, fmt.Errorf("unhandled event kind %q", ev.Kind())
	}
}

func (s *TrackerServiceImpl) handleIdentity(ctx context.Context, msg primary.IncomingMessage, ev classify.IdentityEvent) (primary.Action, error) {
	record := &secondary.ProfileRecord{
		UserID: msg.UserID,
		Castle: ev.Castle,
		Guild:  ev.Guild,
		Name:   ev.Name,
	}
	if err := s.profileRepo.Save(ctx, record); err != nil {
		return primary.Action{}, fmt.Errorf("failed to save profile: %w", err)
	}
	s.audit(ctx, msg.UserID, classify.KindIdentity, ev.String())

	return primary.Action{
		Type: primary.ActionReply,
		Text: fmt.Sprintf("Hello, %s", ev),
	}, nil
}

func (s *TrackerServiceImpl) handleRoute(ctx context.Context, msg primary.IncomingMessage, ev classify.RouteEvent) (primary.Action, error) {
	unlock := s.mergeMu.lock("route:" + ev.Code)
	defer unlock()

	existing, err := s.routeRepo.Get(ctx, ev.Code)
	if err != nil {
		return primary.Action{}, fmt.Errorf("failed to load route %s: %w", ev.Code, err)
	}

	merged := route.Merge(toRoute(existing), ev)
	if err := s.routeRepo.Save(ctx, toRouteRecord(merged)); err != nil {
		return primary.Action{}, fmt.Errorf("failed to save route %s: %w", ev.Code, err)
	}
	s.audit(ctx, msg.UserID, classify.KindRoute, fmt.Sprintf("%s seen %d times", ev.Code, merged.Count()))

	return primary.Action{
		Type: primary.ActionReply,
		Text: fmt.Sprintf("%s\nTimes seen: %d", merged.Name, merged.Count()),
	}, nil
}

func (s *TrackerServiceImpl) handleQuest(ctx context.Context, msg primary.IncomingMessage, ev classify.QuestEvent) (primary.Action, error) {
	// First quest with this flavor creates the record, so later bare
	// flavor texts match via the seen-flavor fallback.
	if err := s.ensureFlavor(ctx, msg.UserID, ev.FlavorText); err != nil {
		return primary.Action{}, err
	}

	token := s.pending.Add(correlate.Pending{
		UserID:          msg.UserID,
		ChatID:          msg.ChatID,
		SourceText:      msg.Text,
		SourceTimestamp: msg.ForwardedAt,
	})
	s.audit(ctx, msg.UserID, classify.KindQuest, ev.FlavorText)

	return primary.Action{
		Type:          primary.ActionPromptLocation,
		CorrelationID: token,
	}, nil
}

// HandleButton resolves a pending location prompt. The flavor text is
// re-derived by reclassifying the stored source text so an edited
// message cannot drift from what gets counted.
func (s *TrackerServiceImpl) HandleButton(ctx context.Context, press primary.ButtonPress) (primary.Action, error) {
	p, ok := s.pending.Lookup(press.CorrelationID)
	if !ok {
		// Unresolvable correlation: ignore, never crash.
		return primary.Action{Type: primary.ActionNone}, nil
	}

	ev, err := s.classifier.Classify(ctx, p.UserID, p.SourceText, true, p.SourceTimestamp)
	if err != nil {
		return primary.Action{}, fmt.Errorf("failed to reclassify quest source: %w", err)
	}
	quest, ok := ev.(classify.QuestEvent)
	if !ok {
		return primary.Action{Type: primary.ActionNone}, nil
	}

	counts, err := s.mergeFlavorChoice(ctx, p.UserID, quest.FlavorText, p.SourceTimestamp, press.Value)
	if err != nil {
		return primary.Action{}, err
	}
	s.pending.Release(press.CorrelationID)
	s.audit(ctx, p.UserID, "choice", fmt.Sprintf("%s -> %s", quest.FlavorText, press.Value))

	return primary.Action{
		Type:          primary.ActionEditMessage,
		CorrelationID: press.CorrelationID,
		Text:          renderResolution(p.SourceTimestamp, press.Value, quest, counts),
	}, nil
}

// ensureFlavor creates an empty flavor record on first observation.
func (s *TrackerServiceImpl) ensureFlavor(ctx context.Context, userID int64, flavorText string) error {
	unlock := s.mergeMu.lock(fmt.Sprintf("flavor:%d:%s", userID, flavorText))
	defer unlock()

	existing, err := s.flavorRepo.Get(ctx, userID, flavorText)
	if err != nil {
		return fmt.Errorf("failed to load flavor record: %w", err)
	}
	if existing != nil {
		return nil
	}
	if err := s.flavorRepo.Save(ctx, toFlavorRecord(flavor.NewRecord(userID, flavorText))); err != nil {
		return fmt.Errorf("failed to create flavor record: %w", err)
	}
	return nil
}

// mergeFlavorChoice folds one resolved prompt into the player's flavor
// record. Idempotent per source timestamp.
func (s *TrackerServiceImpl) mergeFlavorChoice(ctx context.Context, userID int64, flavorText string, sourceTimestamp time.Time, tag string) (map[string]int, error) {
	unlock := s.mergeMu.lock(fmt.Sprintf("flavor:%d:%s", userID, flavorText))
	defer unlock()

	stored, err := s.flavorRepo.Get(ctx, userID, flavorText)
	if err != nil {
		return nil, fmt.Errorf("failed to load flavor record: %w", err)
	}

	rec := toFlavor(userID, flavorText, stored)
	if rec.ApplyChoice(sourceTimestamp, tag) {
		if err := s.flavorRepo.Save(ctx, toFlavorRecord(rec)); err != nil {
			return nil, fmt.Errorf("failed to save flavor record: %w", err)
		}
	}
	return rec.Counts, nil
}

// renderResolution builds the edited prompt text: game time, chosen
// tag, the quest payload, and the updated counters.
func renderResolution(sourceTimestamp time.Time, tag string, quest classify.QuestEvent, counts map[string]int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", gametime.Classify(sourceTimestamp), tag)
	b.WriteString(quest.FlavorText)
	if quest.Pathfinder {
		b.WriteString("\nSecret passage found +1🔋")
	}
	for _, item := range quest.Loot {
		fmt.Fprintf(&b, "\nEarned: %s(%s)", item.Item, item.Count)
	}
	b.WriteString("\n")
	b.WriteString(formatCounts(counts))
	return b.String()
}

// formatCounts renders a counter snapshot sorted by tag for stable
// output.
func formatCounts(counts map[string]int) string {
	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		parts = append(parts, fmt.Sprintf("%s: %d", tag, counts[tag]))
	}
	return strings.Join(parts, "  ")
}

// audit writes one audit-trail entry, swallowing failures: the audit
// log must never break message handling.
func (s *TrackerServiceImpl) audit(ctx context.Context, userID int64, kind, detail string) {
	if s.eventLog == nil {
		return
	}
	_ = s.eventLog.LogHandled(ctx, userID, kind, detail)
}

// toRoute converts a stored record to the core aggregate. nil stays
// nil (creation on first observation).
func toRoute(record *secondary.RouteRecord) *route.Route {
	if record == nil {
		return nil
	}
	return &route.Route{
		Code:     record.Code,
		Name:     record.Name,
		Occupied: record.Occupied,
		Defended: record.Defended,
		Seen:     record.Seen,
	}
}

func toRouteRecord(r route.Route) *secondary.RouteRecord {
	return &secondary.RouteRecord{
		Code:     r.Code,
		Name:     r.Name,
		Occupied: r.Occupied,
		Defended: r.Defended,
		Seen:     r.Seen,
	}
}

func toFlavor(userID int64, flavorText string, record *secondary.FlavorRecord) *flavor.Record {
	if record == nil {
		return flavor.NewRecord(userID, flavorText)
	}
	counts := make(map[string]int, len(record.Counts))
	for tag, n := range record.Counts {
		counts[tag] = n
	}
	return &flavor.Record{
		UserID:     record.UserID,
		FlavorText: record.FlavorText,
		Counts:     counts,
		Seen:       record.Seen,
	}
}

func toFlavorRecord(r *flavor.Record) *secondary.FlavorRecord {
	return &secondary.FlavorRecord{
		UserID:     r.UserID,
		FlavorText: r.FlavorText,
		Counts:     r.Counts,
		Seen:       r.Seen,
	}
}
