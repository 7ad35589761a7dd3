// Package classify turns raw forwarded ChatWars messages into tagged
// events. Matchers run in a fixed priority order because the game's
// templates are not mutually exclusive in raw text; the first match
// wins.
package classify

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
)

// ErrMalformedMatch is returned when a template's trigger phrase is
// present but the required capture groups cannot be extracted. The
// message must be discarded without touching any aggregate.
var ErrMalformedMatch = errors.New("message matched a template trigger but required fields are missing")

// The literal phrases below come straight from the game client.
// "То" in the route phrase is Cyrillic; do not "fix" it.
const (
	routeMarker      = "То remember the route you associated it with simple combination:"
	lootMarker       = "You received:"
	pathfinderPhrase = "Being a naturally born pathfinder, you found a secret passage and saved some energy +1🔋"
)

var (
	// Castle symbol, 2-3 char guild tag in brackets, player name.
	identityPattern = regexp.MustCompile(`(?P<castle>[🐺🐉🌑🦌🥔🦅🦈])\[(?P<guild>[A-Z\d]{2,3})\](?P<name>\w+)`)

	// Full route report: location name, optional occupied/defended
	// lines, trailing secret code.
	routePattern = regexp.MustCompile(`You found hidden \w+ (?P<name>.+)\n(?P<occupied>You noticed that objective is captured by alliance\.\n)?(?P<defended>You noticed a horde of defender near it\.\n)?То remember the route you associated it with simple combination: (?P<code>\w+)`)

	// One loot line of a quest report.
	lootPattern = regexp.MustCompile(`Earned: (?P<item>.+)\((?P<count>\d+)\)`)
)

// FlavorLookup reports whether flavorText was already recorded for the
// user. It backs the quest fallback match: a bare flavor text with no
// loot section is still a quest report if we have seen it before.
type FlavorLookup func(ctx context.Context, userID int64, flavorText string) bool

// Classifier applies the known message templates in priority order.
type Classifier struct {
	knownFlavor FlavorLookup
}

// New creates a Classifier. knownFlavor may be nil, which disables the
// seen-flavor fallback match.
func New(knownFlavor FlavorLookup) *Classifier {
	return &Classifier{knownFlavor: knownFlavor}
}

// Classify maps text to exactly one event. Priority order: identity,
// route, quest, unknown. A nil event with a nil error means the text
// arrived in a group chat and matched nothing; such noise is dropped
// rather than acknowledged.
func (c *Classifier) Classify(ctx context.Context, userID int64, text string, private bool, forwardedAt time.Time) (Event, error) {
	if ev, ok := c.matchIdentity(text, private); ok {
		return ev, nil
	}

	if strings.Contains(text, routeMarker) {
		ev, err := c.matchRoute(text, forwardedAt)
		if err != nil {
			return nil, err
		}
		return ev, nil
	}

	if private {
		if ev, ok := c.matchQuest(ctx, userID, text); ok {
			return ev, nil
		}
		return UnknownEvent{Raw: text}, nil
	}

	return nil, nil
}

// matchIdentity recognizes player introductions. Group-chat identity
// announcements are ignored; they mean nothing outside a 1:1 session.
func (c *Classifier) matchIdentity(text string, private bool) (Event, bool) {
	if !private {
		return nil, false
	}
	m := identityPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	return IdentityEvent{
		Castle: m[identityPattern.SubexpIndex("castle")],
		Guild:  m[identityPattern.SubexpIndex("guild")],
		Name:   m[identityPattern.SubexpIndex("name")],
	}, true
}

// matchRoute extracts a route report. The caller has already seen the
// trigger phrase, so a failed extraction here is a malformed message,
// not a miss.
func (c *Classifier) matchRoute(text string, forwardedAt time.Time) (Event, error) {
	m := routePattern.FindStringSubmatch(text)
	if m == nil {
		return nil, ErrMalformedMatch
	}
	return RouteEvent{
		Name:       m[routePattern.SubexpIndex("name")],
		Occupied:   m[routePattern.SubexpIndex("occupied")] != "",
		Defended:   m[routePattern.SubexpIndex("defended")] != "",
		Code:       m[routePattern.SubexpIndex("code")],
		ObservedAt: forwardedAt,
	}, nil
}

// matchQuest recognizes quest completion reports: the loot marker, the
// pathfinder bonus line, or a flavor text we have recorded before.
func (c *Classifier) matchQuest(ctx context.Context, userID int64, text string) (Event, bool) {
	pathfinder := strings.Contains(text, pathfinderPhrase)
	flavor := FlavorText(text)

	triggered := strings.Contains(text, lootMarker) || pathfinder
	if !triggered && c.knownFlavor != nil && flavor != "" {
		triggered = c.knownFlavor(ctx, userID, flavor)
	}
	if !triggered {
		return nil, false
	}

	var loot []LootItem
	for _, m := range lootPattern.FindAllStringSubmatch(text, -1) {
		loot = append(loot, LootItem{
			Item:  m[lootPattern.SubexpIndex("item")],
			Count: m[lootPattern.SubexpIndex("count")],
		})
	}

	return QuestEvent{
		FlavorText: flavor,
		Pathfinder: pathfinder,
		Loot:       loot,
	}, true
}

// FlavorText reduces a quest report to its stable narrative key:
// pathfinder bonus line removed, everything from the loot marker
// onward discarded, whitespace trimmed.
func FlavorText(text string) string {
	s := strings.ReplaceAll(text, pathfinderPhrase, "")
	if i := strings.Index(s, lootMarker); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
