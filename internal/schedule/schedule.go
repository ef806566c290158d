// Package schedule decides which timed mission events have newly become
// due. The full event list is scanned every frame, so an event can never
// be skipped by a coarse time step (e.g. the first frame after a long
// stall jumping from t=3 to t=20).
package schedule

import (
	"github.com/doctor-spaghetti-md/mrdarcy/pkg/core"
)

// Scheduler tracks which events have already fired in the current
// replay epoch. It holds no reference to the event list itself; the
// caller passes the immutable authored slice each frame.
type Scheduler struct {
	fired map[core.EventKey]struct{}
}

// New creates a Scheduler with an empty fired set.
func New() *Scheduler {
	return &Scheduler{fired: make(map[core.EventKey]struct{})}
}

// Due returns the events that have become due at time t and were not
// already fired this epoch, in authoring order. Returned events are
// marked fired immediately: re-querying the same t returns nothing.
//
// Duplicate identity keys (same type, time, actor, target) are
// indistinguishable; only the first occurrence in authoring order ever
// fires.
func (s *Scheduler) Due(events []core.Event, t float64) []core.Event {
	var due []core.Event
	for _, e := range events {
		if t < e.T {
			continue
		}
		key := e.Key()
		if _, ok := s.fired[key]; ok {
			continue
		}
		s.fired[key] = struct{}{}
		due = append(due, e)
	}
	return due
}

// Fired reports whether the event's key has fired this epoch.
func (s *Scheduler) Fired(e core.Event) bool {
	_, ok := s.fired[e.Key()]
	return ok
}

// FiredCount returns the number of distinct keys fired this epoch.
func (s *Scheduler) FiredCount() int {
	return len(s.fired)
}

// Reset clears the fired set, starting a new epoch.
func (s *Scheduler) Reset() {
	s.fired = make(map[core.EventKey]struct{})
}
