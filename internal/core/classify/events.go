package classify

import "time"

// Kind constants for classified events.
const (
	KindIdentity = "identity" // Player introduced themselves
	KindRoute    = "route"    // Hidden route discovery report
	KindQuest    = "quest"    // Quest completion report
	KindUnknown  = "unknown"  // No template matched
)

// Event is a classified game message. Exactly one concrete type
// matches each incoming text; a nil Event means the message was
// dropped (group-chat noise).
type Event interface {
	Kind() string
}

// IdentityEvent is a player introduction: castle symbol, guild tag, name.
type IdentityEvent struct {
	Castle string
	Guild  string
	Name   string
}

// Kind returns KindIdentity.
func (IdentityEvent) Kind() string { return KindIdentity }

// String renders the identity the way the game displays it.
func (e IdentityEvent) String() string {
	return e.Castle + "[" + e.Guild + "]" + e.Name
}

// RouteEvent is a hidden-route discovery with its secret code.
type RouteEvent struct {
	Name       string
	Occupied   bool
	Defended   bool
	Code       string
	ObservedAt time.Time
}

// Kind returns KindRoute.
func (RouteEvent) Kind() string { return KindRoute }

// LootItem is one "Earned: <item>(<count>)" line from a quest report.
// Count stays a string: the game has produced non-numeric counts
// during events and we never do arithmetic on it.
type LootItem struct {
	Item  string
	Count string
}

// QuestEvent is a quest completion report. FlavorText is the narrative
// prefix with the pathfinder bonus line removed and the loot section
// discarded; it is the stable key for repeated occurrences of the same
// quest outcome.
type QuestEvent struct {
	FlavorText string
	Pathfinder bool
	Loot       []LootItem
}

// Kind returns KindQuest.
func (QuestEvent) Kind() string { return KindQuest }

// UnknownEvent carries text that matched no known template.
type UnknownEvent struct {
	Raw string
}

// Kind returns KindUnknown.
func (UnknownEvent) Kind() string { return KindUnknown }
