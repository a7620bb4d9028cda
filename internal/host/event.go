package host

import (
	"strings"

	"github.com/dshills/cursorcolumn/internal/theme"
)

// EventType identifies a host event.
type EventType uint8

const (
	// EventSelectionChanged fires when the cursor moves. Position is set.
	EventSelectionChanged EventType = iota + 1

	// EventVisibleRangesChanged fires on scroll, resize and fold changes.
	// Ranges is set.
	EventVisibleRangesChanged

	// EventThemeChanged fires when the active theme changes. Theme is set.
	EventThemeChanged

	// EventConfigChanged fires once per changed configuration key. Key is set.
	EventConfigChanged
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventSelectionChanged:
		return "selection-changed"
	case EventVisibleRangesChanged:
		return "visible-ranges-changed"
	case EventThemeChanged:
		return "theme-changed"
	case EventConfigChanged:
		return "config-changed"
	default:
		return "unknown"
	}
}

// Event is delivered to listeners on the event-dispatch goroutine.
type Event struct {
	Type     EventType
	Position Position
	Ranges   []LineRange
	Theme    theme.Kind
	Key      string
}

// Listener receives host events.
type Listener func(ev Event)

// AffectsConfiguration reports whether a change to changedKey affects the
// configuration section. Both directions of dotted-prefix nesting count:
// a change to "cursor-column" affects "cursor-column.disabled" and a change
// to "cursor-column.disabled" affects "cursor-column".
func AffectsConfiguration(changedKey, section string) bool {
	if changedKey == "" || section == "" {
		return changedKey == section
	}
	if changedKey == section {
		return true
	}
	return strings.HasPrefix(changedKey, section+".") || strings.HasPrefix(section, changedKey+".")
}
