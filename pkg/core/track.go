// pkg/core/track.go
package core

// Side identifies which force an aircraft belongs to.
type Side string

const (
	SideFriendly Side = "FRIENDLY"
	SideHostile  Side = "HOSTILE"
)

// Waypoint is one authored (time, position) sample on a track's path.
// T is seconds from mission start and is non-decreasing within a path.
type Waypoint struct {
	T   float64 `json:"t"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LatLng is a bare geographic coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Position is an instantaneous aircraft position with heading in
// degrees clockwise from north, 0-360.
type Position struct {
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	HeadingDeg float64 `json:"heading"`
}

// Track is an aircraft's authored path and identity.
// ID is unique within a mission; Path holds at least one waypoint
// ordered by time.
type Track struct {
	ID       string     `json:"id"`
	Callsign string     `json:"callsign"`
	Side     Side       `json:"side"`
	Path     []Waypoint `json:"path"`
}

// Span returns the temporal extent covered by the track's path.
// Zero values are returned for an empty path.
func (t Track) Span() (start, end float64) {
	if len(t.Path) == 0 {
		return 0, 0
	}
	return t.Path[0].T, t.Path[len(t.Path)-1].T
}
