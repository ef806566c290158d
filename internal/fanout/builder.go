package fanout

import (
	"github.com/doctor-spaghetti-md/mrdarcy/internal/geo"
	"github.com/doctor-spaghetti-md/mrdarcy/internal/state"
	"github.com/doctor-spaghetti-md/mrdarcy/pkg/core"
)

// DangerWindowS is the kill lookahead window: an aircraft is flagged
// for "about to die" highlighting when a KILL event naming it as target
// falls within this many seconds of the current time.
const DangerWindowS = 3.0

// Builder assembles the per-frame snapshot from the aircraft store and
// the authored event list.
type Builder struct {
	store  *state.Store
	events []core.Event
}

// NewBuilder creates a Builder over the immutable mission event list.
func NewBuilder(store *state.Store, events []core.Event) *Builder {
	return &Builder{store: store, events: events}
}

// Snapshot captures the frame at time t. fired holds the events that
// fired this frame, already applied to the store, so the snapshot never
// shows a kill without the matching dead aircraft.
func (b *Builder) Snapshot(t float64, running bool, speed float64, trails bool, fired []core.Event, tally *Tally) core.FrameSnapshot {
	snap := core.FrameSnapshot{
		Time:      t,
		Running:   running,
		Speed:     speed,
		Tallies:   tally.Snapshot(),
		Intensity: tally.Intensity(),
	}

	positions := make(map[string]core.Position)
	b.store.Each(func(a *state.Aircraft) {
		if !a.HasPosition {
			return
		}
		positions[a.Track.ID] = a.Position

		ll := core.LatLng{Lat: a.Position.Lat, Lng: a.Position.Lng}
		x, y := geo.Project3857(ll)
		as := core.AircraftSnapshot{
			ID:       a.Track.ID,
			Callsign: a.Track.Callsign,
			Side:     a.Track.Side,
			Position: a.Position,
			PlanarX:  x,
			PlanarY:  y,
			Alive:    a.Alive,
			Danger:   a.Alive && b.dangerAt(a.Track.ID, t),
		}
		if trails {
			as.Trail = a.Trail()
			as.TrailM = geo.TrailLengthM(as.Trail)
		}
		snap.Aircraft = append(snap.Aircraft, as)
	})

	for _, e := range fired {
		snap.Log = append(snap.Log, core.LogEntry{T: e.T, Type: e.Type, Text: e.Text})
		if eff, ok := effectFor(e, positions); ok {
			snap.Effects = append(snap.Effects, eff)
		}
	}

	return snap
}

// dangerAt reports whether a KILL event targeting id lies inside the
// lookahead window.
func (b *Builder) dangerAt(id string, t float64) bool {
	for _, e := range b.events {
		if e.Type != core.EventKill || e.Target != id {
			continue
		}
		if e.T >= t && e.T <= t+DangerWindowS {
			return true
		}
	}
	return false
}

// effectFor maps a fired event to its one-shot view effect: impacts at
// the event's own coordinates, weapons fire at the shooter's current
// position. Events referencing an unknown actor simply produce no
// effect.
func effectFor(e core.Event, positions map[string]core.Position) (core.Effect, bool) {
	switch e.Type {
	case core.EventImpact:
		if e.HasPosition() {
			return core.Effect{Kind: core.EffectImpact, Lat: *e.Lat, Lng: *e.Lng}, true
		}
	case core.EventEngagement:
		if pos, ok := positions[e.Actor]; ok {
			return core.Effect{Kind: core.EffectWeaponsFire, Lat: pos.Lat, Lng: pos.Lng}, true
		}
	}
	return core.Effect{}, false
}
