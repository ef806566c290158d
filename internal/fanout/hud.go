package fanout

import (
	"sync"

	"github.com/doctor-spaghetti-md/mrdarcy/pkg/core"
)

// Intensity weights. Kills and losses dominate, contacts barely move
// the needle.
const (
	contactWeight    = 0.15
	engagementWeight = 0.35
	lethalWeight     = 0.5

	intensityMax = 10.0
)

// Tally accumulates the HUD counters from fired events. Thread-safe so
// the monitor can read it while the frame loop writes.
type Tally struct {
	mu sync.Mutex
	t  core.Tallies
}

// Record bumps the counter matching the event type. NOTE and IMPACT
// events carry no tally.
func (c *Tally) Record(typ core.EventType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch typ {
	case core.EventContact:
		c.t.Contacts++
	case core.EventEngagement:
		c.t.Engagements++
	case core.EventKill:
		c.t.Kills++
	case core.EventLoss:
		c.t.Losses++
	}
}

// Snapshot returns a copy of the current counters.
func (c *Tally) Snapshot() core.Tallies {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Intensity derives the bounded HUD intensity scalar from the current
// counters, clamped to [0, intensityMax].
func (c *Tally) Intensity() float64 {
	t := c.Snapshot()
	v := contactWeight*float64(t.Contacts) +
		engagementWeight*float64(t.Engagements) +
		lethalWeight*float64(t.Kills+t.Losses)
	if v > intensityMax {
		return intensityMax
	}
	if v < 0 {
		return 0
	}
	return v
}

// Reset zeroes all counters for a new epoch.
func (c *Tally) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = core.Tallies{}
}
