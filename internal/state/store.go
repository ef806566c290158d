// Package state owns the mutable per-aircraft runtime records: current
// position, alive flag and accumulated trail. The map is only reachable
// through the Store API; views receive copies.
package state

import (
	"sync"

	"github.com/doctor-spaghetti-md/mrdarcy/internal/interp"
	"github.com/doctor-spaghetti-md/mrdarcy/pkg/core"
)

// Aircraft is the runtime record for one track. Created at mission
// load, one-to-one with the authored track; reset, never destroyed, on
// restart.
type Aircraft struct {
	Track core.Track

	Position    core.Position
	HasPosition bool
	Alive       bool

	// folded holds authored waypoints already absorbed into the trail;
	// the live interpolated point is appended as a transient head when
	// the trail is read.
	folded      []core.LatLng
	trailCursor int
}

// Trail returns the rendered trail: all folded waypoints plus the
// current position as the transient head, so the trail always ends at
// the exact live position rather than the last authored waypoint.
func (a *Aircraft) Trail() []core.LatLng {
	if !a.HasPosition {
		return nil
	}
	trail := make([]core.LatLng, 0, len(a.folded)+1)
	trail = append(trail, a.folded...)
	return append(trail, core.LatLng{Lat: a.Position.Lat, Lng: a.Position.Lng})
}

// Store holds one Aircraft per track, keyed by track id, with a stable
// iteration order matching mission authoring order.
type Store struct {
	mu    sync.Mutex
	order []string
	byID  map[string]*Aircraft
}

// NewStore creates runtime records for every track in the mission.
func NewStore(tracks []core.Track) *Store {
	s := &Store{byID: make(map[string]*Aircraft, len(tracks))}
	for _, tr := range tracks {
		s.order = append(s.order, tr.ID)
		s.byID[tr.ID] = &Aircraft{Track: tr, Alive: true}
	}
	return s
}

// Get returns the runtime record for a track id.
func (s *Store) Get(id string) (*Aircraft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	return a, ok
}

// Len returns the number of aircraft in the store.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Advance updates every living aircraft for logical time t. Dead
// aircraft keep their frozen position and trail. An aircraft whose path
// cannot be interpolated this frame is skipped, not removed.
func (s *Store) Advance(t float64, trails bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		s.advanceOne(s.byID[id], t, trails)
	}
}

func (s *Store) advanceOne(a *Aircraft, t float64, trails bool) {
	if !a.Alive {
		return
	}
	pos := interp.Interpolate(a.Track.Path, t)
	if pos == nil {
		return
	}
	a.Position = *pos
	a.HasPosition = true
	if trails {
		s.foldTrail(a, t)
	}
}

// foldTrail absorbs authored waypoints whose time has passed. The
// cursor only advances; it is reset solely by Reset.
func (s *Store) foldTrail(a *Aircraft, t float64) {
	path := a.Track.Path
	for a.trailCursor < len(path) && path[a.trailCursor].T <= t {
		wp := path[a.trailCursor]
		a.folded = append(a.folded, core.LatLng{Lat: wp.Lat, Lng: wp.Lng})
		a.trailCursor++
	}
}

// Kill marks the target of a KILL event dead at event time t. The
// aircraft is pinned to its position at the death instant so it is
// never drawn moving past it, and its trail freezes there. Returns
// false for unknown ids. Killing an already-dead aircraft is a no-op.
func (s *Store) Kill(id string, t float64, trails bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return false
	}
	if !a.Alive {
		return true
	}
	if pos := interp.Interpolate(a.Track.Path, t); pos != nil {
		a.Position = *pos
		a.HasPosition = true
		if trails {
			s.foldTrail(a, t)
		}
	}
	a.Alive = false
	return true
}

// Each calls fn for every aircraft in authoring order. The callback
// must not retain the pointer past the call.
func (s *Store) Each(fn func(*Aircraft)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		fn(s.byID[id])
	}
}

// Reset returns every aircraft to its epoch-start state: alive, no
// position, empty trail, cursor at the first waypoint. The authored
// tracks are untouched.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.byID {
		a.Alive = true
		a.HasPosition = false
		a.Position = core.Position{}
		a.folded = nil
		a.trailCursor = 0
	}
}
