// Package interp derives continuous aircraft positions from sparse
// authored waypoints. It is pure: no state, no side effects.
package interp

import (
	"github.com/doctor-spaghetti-md/mrdarcy/internal/geo"
	"github.com/doctor-spaghetti-md/mrdarcy/pkg/core"
)

// Interpolate returns the instantaneous position on path at time t, or
// nil when the path is empty (the aircraft has no renderable state).
//
// Outside the path's temporal span the position clamps to the nearest
// endpoint with heading 0; there is no extrapolation and no heading is
// defined at rest. Within the span, lat/lng interpolate linearly across
// the bracketing segment and the heading is the segment's initial
// great-circle bearing, constant until the next waypoint.
func Interpolate(path []core.Waypoint, t float64) *core.Position {
	if len(path) == 0 {
		return nil
	}

	first := path[0]
	last := path[len(path)-1]

	if t <= first.T {
		return &core.Position{Lat: first.Lat, Lng: first.Lng, HeadingDeg: 0}
	}
	if t >= last.T {
		return &core.Position{Lat: last.Lat, Lng: last.Lng, HeadingDeg: 0}
	}

	// Segments are temporally ordered and non-overlapping; take the
	// first bracket scanning from the start.
	for i := 0; i < len(path)-1; i++ {
		a, b := path[i], path[i+1]
		if t < a.T || t > b.T {
			continue
		}
		if b.T == a.T {
			// zero-length segment, sit on its start
			return &core.Position{Lat: a.Lat, Lng: a.Lng, HeadingDeg: 0}
		}
		u := (t - a.T) / (b.T - a.T)
		return &core.Position{
			Lat: geo.Lerp(a.Lat, b.Lat, u),
			Lng: geo.Lerp(a.Lng, b.Lng, u),
			HeadingDeg: geo.InitialBearing(
				core.LatLng{Lat: a.Lat, Lng: a.Lng},
				core.LatLng{Lat: b.Lat, Lng: b.Lng},
			),
		}
	}

	// not reached for a well-ordered path
	return &core.Position{Lat: last.Lat, Lng: last.Lng, HeadingDeg: 0}
}
