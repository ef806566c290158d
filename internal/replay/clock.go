// Package replay owns the logical mission time and drives the per-frame
// pass that keeps every view consistent.
package replay

// ClockState is the replay clock's state machine position.
type ClockState int

const (
	// Playing advances time each frame.
	Playing ClockState = iota
	// Paused holds time without losing it.
	Paused
	// EndHold is the transient real-time pause at mission end before
	// the automatic restart.
	EndHold
)

func (s ClockState) String() string {
	switch s {
	case Playing:
		return "PLAYING"
	case Paused:
		return "PAUSED"
	case EndHold:
		return "END_HOLD"
	default:
		return "UNKNOWN"
	}
}

// DefaultHoldS is the wall-clock length of the end-of-mission hold.
// It is independent of playback speed.
const DefaultHoldS = 0.8

// Clock owns the single logical time value. Time only ever moves
// forward within a play segment; Restart is the one operation allowed
// to move it back (to zero).
type Clock struct {
	duration float64
	hold     float64

	time        float64
	speed       float64
	state       ClockState
	holdElapsed float64
}

// NewClock creates a clock for a mission of the given duration in
// seconds, starting at t=0, speed 1, playing.
func NewClock(duration float64) *Clock {
	return &Clock{duration: duration, hold: DefaultHoldS, speed: 1, state: Playing}
}

// Time returns the current logical time in seconds.
func (c *Clock) Time() float64 { return c.time }

// Speed returns the current playback multiplier.
func (c *Clock) Speed() float64 { return c.speed }

// State returns the state machine position.
func (c *Clock) State() ClockState { return c.state }

// Duration returns the mission duration.
func (c *Clock) Duration() float64 { return c.duration }

// Advance moves logical time by wallDt seconds of wall clock, scaled by
// the speed multiplier and clamped at the mission duration. wallDt may
// be arbitrarily large or small; the duration clamp bounds the result,
// never the input. Returns true when the end-of-mission hold has just
// expired and the caller must restart the epoch.
func (c *Clock) Advance(wallDt float64) (restartDue bool) {
	switch c.state {
	case Paused:
		return false
	case EndHold:
		// the hold runs on wall clock, unaffected by speed
		c.holdElapsed += wallDt
		return c.holdElapsed >= c.hold
	}

	c.time += wallDt * c.speed
	if c.time >= c.duration {
		c.time = c.duration
		c.state = EndHold
		c.holdElapsed = 0
	}
	return false
}

// Pause stops time advancement. No-op unless playing.
func (c *Clock) Pause() {
	if c.state == Playing {
		c.state = Paused
	}
}

// Resume continues playback after a pause without touching time.
func (c *Clock) Resume() {
	if c.state == Paused {
		c.state = Playing
	}
}

// SetSpeed replaces the playback multiplier. Non-positive values are
// rejected. The new speed takes effect on the next Advance; there is no
// ramping.
func (c *Clock) SetSpeed(multiplier float64) bool {
	if multiplier <= 0 {
		return false
	}
	c.speed = multiplier
	return true
}

// Restart rewinds to t=0 and resumes playing. Speed is preserved.
func (c *Clock) Restart() {
	c.time = 0
	c.holdElapsed = 0
	c.state = Playing
}
