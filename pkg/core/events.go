// pkg/core/events.go
package core

// EventType classifies a timed mission event.
type EventType string

const (
	EventContact    EventType = "CONTACT"
	EventEngagement EventType = "ENGAGEMENT"
	EventKill       EventType = "KILL"
	EventImpact     EventType = "IMPACT"
	EventLoss       EventType = "LOSS"
	EventNote       EventType = "NOTE"
)

// Event is a discrete timed mission event. Actor and Target reference
// track IDs and may be empty. Lat/Lng are only set for events with a
// fixed ground position (e.g. IMPACT).
type Event struct {
	T      float64   `json:"t"`
	Type   EventType `json:"type"`
	Actor  string    `json:"actor,omitempty"`
	Target string    `json:"target,omitempty"`
	Lat    *float64  `json:"lat,omitempty"`
	Lng    *float64  `json:"lng,omitempty"`
	Text   string    `json:"text"`
}

// EventKey is the identity tuple used for fired-once tracking. Two
// authored events with identical keys are indistinguishable and only
// the first ever fires.
type EventKey struct {
	Type   EventType
	T      float64
	Actor  string
	Target string
}

// Key returns the event's identity tuple.
func (e Event) Key() EventKey {
	return EventKey{Type: e.Type, T: e.T, Actor: e.Actor, Target: e.Target}
}

// HasPosition reports whether the event carries its own coordinates.
func (e Event) HasPosition() bool {
	return e.Lat != nil && e.Lng != nil
}
