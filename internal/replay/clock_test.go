package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock_AdvanceScalesBySpeed(t *testing.T) {
	c := NewClock(120)
	c.Advance(1)
	assert.InDelta(t, 1, c.Time(), 1e-9)

	require.True(t, c.SetSpeed(4))
	c.Advance(0.5)
	assert.InDelta(t, 3, c.Time(), 1e-9)
}

func TestClock_PauseHoldsTime(t *testing.T) {
	c := NewClock(120)
	c.Advance(10)
	c.Pause()
	assert.Equal(t, Paused, c.State())

	c.Advance(1000)
	assert.InDelta(t, 10, c.Time(), 1e-9)

	c.Resume()
	assert.Equal(t, Playing, c.State())
	c.Advance(1)
	assert.InDelta(t, 11, c.Time(), 1e-9)
}

func TestClock_RejectsBadSpeed(t *testing.T) {
	c := NewClock(120)
	assert.False(t, c.SetSpeed(0))
	assert.False(t, c.SetSpeed(-2))
	assert.Equal(t, 1.0, c.Speed())
}

func TestClock_ClampsAtDuration(t *testing.T) {
	c := NewClock(120)
	// a huge wall_dt (e.g. first tick after a stall) clamps at duration
	c.Advance(1e9)
	assert.Equal(t, 120.0, c.Time())
	assert.Equal(t, EndHold, c.State())
}

func TestClock_EndHoldThenRestartDue(t *testing.T) {
	c := NewClock(60)
	c.Advance(60)
	require.Equal(t, EndHold, c.State())

	// the hold runs on wall clock regardless of speed
	c.SetSpeed(100)
	restart := false
	elapsed := 0.0
	for !restart {
		restart = c.Advance(0.1)
		elapsed += 0.1
		require.Less(t, elapsed, 2.0, "hold never expired")
	}
	assert.InDelta(t, DefaultHoldS, elapsed, 0.15)
	assert.Equal(t, 60.0, c.Time(), "time holds at duration until restart")

	c.Restart()
	assert.Zero(t, c.Time())
	assert.Equal(t, Playing, c.State())
	assert.Equal(t, 100.0, c.Speed(), "restart preserves speed")
}

func TestClockState_String(t *testing.T) {
	assert.Equal(t, "PLAYING", Playing.String())
	assert.Equal(t, "PAUSED", Paused.String())
	assert.Equal(t, "END_HOLD", EndHold.String())
}
