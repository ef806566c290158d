// Package fanout pushes replay state to the external views. Views are
// push-only collaborators: the engine never queries them, and they must
// not mutate anything they receive.
package fanout

import (
	"github.com/doctor-spaghetti-md/mrdarcy/pkg/core"
)

// MapView renders moving markers and trails on a geographic surface and
// animates transient effects (impacts, weapons fire).
type MapView interface {
	UpdateAircraft(aircraft []core.AircraftSnapshot)
	ShowEffect(effect core.Effect)
}

// RadarView renders the same aircraft stream on a polar display. It
// performs its own projection from the planar coordinates it is given.
type RadarView interface {
	UpdateAircraft(aircraft []core.AircraftSnapshot)
}

// LogView receives fired events in fire order. Entries are append-only
// within an epoch; Clear is only called on restart.
type LogView interface {
	Append(entry core.LogEntry)
	Clear()
}

// HUDView displays the running tallies and the derived intensity value.
type HUDView interface {
	UpdateTallies(tallies core.Tallies, intensity float64)
}

// Publisher fans a frame snapshot out to all registered views in a
// fixed order: map, radar, log, HUD. The publish is synchronous, so no
// view can observe a later frame before an earlier view has seen this
// one. Nil views are skipped.
type Publisher struct {
	Map   MapView
	Radar RadarView
	Log   LogView
	HUD   HUDView
}

// Publish delivers one frame to every view.
func (p *Publisher) Publish(snap core.FrameSnapshot) {
	if p.Map != nil {
		p.Map.UpdateAircraft(snap.Aircraft)
		for _, eff := range snap.Effects {
			p.Map.ShowEffect(eff)
		}
	}
	if p.Radar != nil {
		p.Radar.UpdateAircraft(snap.Aircraft)
	}
	if p.Log != nil {
		for _, entry := range snap.Log {
			p.Log.Append(entry)
		}
	}
	if p.HUD != nil {
		p.HUD.UpdateTallies(snap.Tallies, snap.Intensity)
	}
}

// Reset clears the epoch-scoped view state (the event log).
func (p *Publisher) Reset() {
	if p.Log != nil {
		p.Log.Clear()
	}
}
