package race

import "fmt"

// EventType is one of the six session kinds of a race weekend. Values are
// ordered as sessions typically occur across the weekend.
type EventType int

const (
	FirstPractice EventType = iota
	SecondPractice
	ThirdPractice
	Sprint
	Qualifying
	Race
)

type eventInfo struct {
	key   string // sub-record key in the schedule feed
	label string
	icon  string
}

var eventTable = [...]eventInfo{
	FirstPractice:  {key: "FirstPractice", label: "First Practice", icon: "🔧"},
	SecondPractice: {key: "SecondPractice", label: "Second Practice", icon: "🔧"},
	ThirdPractice:  {key: "ThirdPractice", label: "Third Practice", icon: "🔧"},
	Sprint:         {key: "Sprint", label: "Sprint", icon: "💨"},
	Qualifying:     {key: "Qualifying", label: "Qualifying", icon: "⏱️"},
	Race:           {key: "Race", label: "Race", icon: "🏎️"},
}

// DefaultIcon is used for any value outside the enumeration.
const DefaultIcon = "🏁"

// EventTypes returns all event types in weekend order.
func EventTypes() []EventType {
	return []EventType{FirstPractice, SecondPractice, ThirdPractice, Sprint, Qualifying, Race}
}

// ReverseEventTypes returns all event types from Race back to FirstPractice.
func ReverseEventTypes() []EventType {
	return []EventType{Race, Qualifying, Sprint, ThirdPractice, SecondPractice, FirstPractice}
}

// ParseEventType maps a feed key such as "Qualifying" to its EventType.
func ParseEventType(key string) (EventType, error) {
	for i, info := range eventTable {
		if info.key == key {
			return EventType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event type %q", key)
}

// Valid reports whether e is one of the six defined event types.
func (e EventType) Valid() bool {
	return e >= FirstPractice && e <= Race
}

// Key is the schedule feed's sub-record name for this event type.
func (e EventType) Key() string {
	if !e.Valid() {
		return fmt.Sprintf("EventType(%d)", int(e))
	}
	return eventTable[e].key
}

// Label is the human-readable session name.
func (e EventType) Label() string {
	if !e.Valid() {
		return e.Key()
	}
	return eventTable[e].label
}

// Icon is the emoji shown in notification titles.
func (e EventType) Icon() string {
	if !e.Valid() {
		return DefaultIcon
	}
	return eventTable[e].icon
}

// Ordinal is the position of the event type within a weekend (0-based).
func (e EventType) Ordinal() int {
	return int(e)
}

func (e EventType) String() string {
	return e.Key()
}
