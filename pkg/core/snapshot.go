// pkg/core/snapshot.go
package core

// Tallies are the running HUD counters derived from fired events.
type Tallies struct {
	Contacts    int `json:"contacts"`
	Engagements int `json:"engagements"`
	Kills       int `json:"kills"`
	Losses      int `json:"losses"`
}

// AircraftSnapshot is the read-only per-aircraft view state pushed to
// the map and radar views each frame. Planar X/Y are EPSG:3857
// coordinates derived from Lat/Lng for views that draw on a flat
// surface.
type AircraftSnapshot struct {
	ID       string   `json:"id"`
	Callsign string   `json:"callsign"`
	Side     Side     `json:"side"`
	Position Position `json:"position"`
	PlanarX  float64  `json:"x"`
	PlanarY  float64  `json:"y"`
	Alive    bool     `json:"alive"`
	Danger   bool     `json:"danger"`
	Trail    []LatLng `json:"trail,omitempty"`
	// TrailM is the flown distance along the rendered trail, in meters.
	TrailM float64 `json:"trail_m,omitempty"`
}

// EffectKind classifies one-shot visual effect notifications.
type EffectKind string

const (
	EffectImpact      EffectKind = "impact"
	EffectWeaponsFire EffectKind = "weapons_fire"
)

// Effect is a transient notification paired with the coordinates the
// receiving view should animate at.
type Effect struct {
	Kind EffectKind `json:"kind"`
	Lat  float64    `json:"lat"`
	Lng  float64    `json:"lng"`
}

// LogEntry is one fired event as delivered to the log view.
type LogEntry struct {
	T    float64   `json:"t"`
	Type EventType `json:"type"`
	Text string    `json:"text"`
}

// FrameSnapshot is the consistent view of one replay frame: every view
// receives values derived from the same snapshot, never a half-updated
// state.
type FrameSnapshot struct {
	Time      float64            `json:"time"`
	Running   bool               `json:"running"`
	Speed     float64            `json:"speed"`
	Labels    bool               `json:"labels"`
	Selected  string             `json:"selected,omitempty"`
	Aircraft  []AircraftSnapshot `json:"aircraft"`
	Effects   []Effect           `json:"effects,omitempty"`
	Log       []LogEntry         `json:"log,omitempty"`
	Tallies   Tallies            `json:"tallies"`
	Intensity float64            `json:"intensity"`
}
