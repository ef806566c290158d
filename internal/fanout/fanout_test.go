package fanout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctor-spaghetti-md/mrdarcy/internal/state"
	"github.com/doctor-spaghetti-md/mrdarcy/pkg/core"
)

type recordingView struct {
	updates [][]core.AircraftSnapshot
	effects []core.Effect
	log     []core.LogEntry
	cleared int
	tallies core.Tallies
	intens  float64
}

func (v *recordingView) UpdateAircraft(a []core.AircraftSnapshot) { v.updates = append(v.updates, a) }
func (v *recordingView) ShowEffect(e core.Effect)                 { v.effects = append(v.effects, e) }
func (v *recordingView) Append(e core.LogEntry)                   { v.log = append(v.log, e) }
func (v *recordingView) Clear()                                   { v.cleared++; v.log = nil }
func (v *recordingView) UpdateTallies(t core.Tallies, i float64)  { v.tallies = t; v.intens = i }

func demoStore() *state.Store {
	return state.NewStore([]core.Track{
		{ID: "v1", Callsign: "VIPER 1", Side: core.SideFriendly, Path: []core.Waypoint{
			{T: 0, Lat: 0, Lng: 0}, {T: 10, Lat: 0, Lng: 10},
		}},
		{ID: "h1", Callsign: "BANDIT 1", Side: core.SideHostile, Path: []core.Waypoint{
			{T: 0, Lat: 1, Lng: 0}, {T: 10, Lat: 1, Lng: 10},
		}},
	})
}

func TestTally_RecordAndIntensity(t *testing.T) {
	var c Tally
	c.Record(core.EventContact)
	c.Record(core.EventEngagement)
	c.Record(core.EventKill)
	c.Record(core.EventLoss)
	c.Record(core.EventNote) // no tally

	got := c.Snapshot()
	assert.Equal(t, core.Tallies{Contacts: 1, Engagements: 1, Kills: 1, Losses: 1}, got)
	assert.InDelta(t, 0.15+0.35+0.5*2, c.Intensity(), 1e-9)
}

func TestTally_IntensityClamped(t *testing.T) {
	var c Tally
	for i := 0; i < 100; i++ {
		c.Record(core.EventKill)
	}
	assert.Equal(t, 10.0, c.Intensity())
}

func TestTally_Reset(t *testing.T) {
	var c Tally
	c.Record(core.EventKill)
	c.Reset()
	assert.Equal(t, core.Tallies{}, c.Snapshot())
	assert.Zero(t, c.Intensity())
}

func TestSnapshot_DangerWindow(t *testing.T) {
	store := demoStore()
	events := []core.Event{
		{T: 8, Type: core.EventKill, Actor: "v1", Target: "h1", Text: "splash"},
	}
	b := NewBuilder(store, events)
	var tally Tally

	store.Advance(4, false)
	snap := b.Snapshot(4, true, 1, false, nil, &tally)
	require.Len(t, snap.Aircraft, 2)
	assert.False(t, snap.Aircraft[1].Danger, "kill 4s out is beyond the window")

	store.Advance(5.5, false)
	snap = b.Snapshot(5.5, true, 1, false, nil, &tally)
	assert.True(t, snap.Aircraft[1].Danger, "kill 2.5s out is inside the window")
	assert.False(t, snap.Aircraft[0].Danger)

	// once dead, never flagged
	store.Kill("h1", 8, false)
	snap = b.Snapshot(8, true, 1, false, nil, &tally)
	assert.False(t, snap.Aircraft[1].Danger)
	assert.False(t, snap.Aircraft[1].Alive)
}

func TestSnapshot_EffectsAndLog(t *testing.T) {
	store := demoStore()
	lat, lng := 3.5, 7.25
	fired := []core.Event{
		{T: 5, Type: core.EventEngagement, Actor: "v1", Text: "fox two"},
		{T: 5, Type: core.EventImpact, Lat: &lat, Lng: &lng, Text: "impact"},
		{T: 5, Type: core.EventEngagement, Actor: "unknown", Text: "ghost shot"},
	}
	b := NewBuilder(store, nil)
	var tally Tally

	store.Advance(5, false)
	snap := b.Snapshot(5, true, 1, false, fired, &tally)

	require.Len(t, snap.Log, 3)
	assert.Equal(t, "fox two", snap.Log[0].Text)

	// unknown actor yields no effect, the other two do
	require.Len(t, snap.Effects, 2)
	assert.Equal(t, core.EffectWeaponsFire, snap.Effects[0].Kind)
	assert.InDelta(t, 5, snap.Effects[0].Lng, 1e-9)
	assert.Equal(t, core.EffectImpact, snap.Effects[1].Kind)
	assert.Equal(t, lat, snap.Effects[1].Lat)
}

func TestSnapshot_TrailsToggle(t *testing.T) {
	store := demoStore()
	b := NewBuilder(store, nil)
	var tally Tally

	store.Advance(5, true)
	withTrails := b.Snapshot(5, true, 1, true, nil, &tally)
	assert.NotEmpty(t, withTrails.Aircraft[0].Trail)

	bare := b.Snapshot(5, true, 1, false, nil, &tally)
	assert.Empty(t, bare.Aircraft[0].Trail)
}

func TestSnapshot_PlanarCoordinates(t *testing.T) {
	store := demoStore()
	b := NewBuilder(store, nil)
	var tally Tally

	store.Advance(10, false)
	snap := b.Snapshot(10, true, 1, false, nil, &tally)
	// lng 10E projects to positive x in EPSG:3857
	assert.Greater(t, snap.Aircraft[0].PlanarX, 0.0)
}

func TestPublisher_OrderAndNilViews(t *testing.T) {
	mapView := &recordingView{}
	radar := &recordingView{}
	logView := &recordingView{}
	hud := &recordingView{}

	p := &Publisher{Map: mapView, Radar: radar, Log: logView, HUD: hud}
	snap := core.FrameSnapshot{
		Aircraft:  []core.AircraftSnapshot{{ID: "v1"}},
		Effects:   []core.Effect{{Kind: core.EffectImpact}},
		Log:       []core.LogEntry{{Text: "hello"}},
		Tallies:   core.Tallies{Kills: 2},
		Intensity: 1,
	}
	p.Publish(snap)

	assert.Len(t, mapView.updates, 1)
	assert.Len(t, mapView.effects, 1)
	assert.Len(t, radar.updates, 1)
	assert.Len(t, logView.log, 1)
	assert.Equal(t, 2, hud.tallies.Kills)

	p.Reset()
	assert.Equal(t, 1, logView.cleared)

	// nil views must not panic
	empty := &Publisher{}
	empty.Publish(snap)
	empty.Reset()
}
