// pkg/core/mission.go
package core

// Meta carries display information about a mission.
type Meta struct {
	Title  string `json:"title"`
	Sector string `json:"sector"`
}

// Mission is the immutable input to a replay session: the authored
// tracks, the timed event list and the overall duration. Loaded once
// before playback starts and never mutated afterwards.
type Mission struct {
	DurationS float64 `json:"duration_s"`
	Center    LatLng  `json:"center"`
	Aircraft  []Track `json:"aircraft"`
	Events    []Event `json:"events"`
	Meta      Meta    `json:"meta"`
}

// TrackByID returns the track with the given id, or nil.
func (m *Mission) TrackByID(id string) *Track {
	for i := range m.Aircraft {
		if m.Aircraft[i].ID == id {
			return &m.Aircraft[i]
		}
	}
	return nil
}
