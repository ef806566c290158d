package gormdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctor-spaghetti-md/mrdarcy/pkg/core"
)

// newTestSource points the archive at a throwaway SQLite file. The
// Postgres attempt fails fast in tests and the manager falls back.
func newTestSource(t *testing.T, missionName string) *Source {
	t.Helper()

	viper.Set("db.host", "127.0.0.1")
	viper.Set("db.port", "1")
	viper.Set("db.sqlitePath", filepath.Join(t.TempDir(), "archive.db"))

	src, err := New(zerolog.Nop(), missionName)
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })
	return src
}

func testMission(title string) *core.Mission {
	lat, lng := 36.4, 28.2
	return &core.Mission{
		DurationS: 120,
		Center:    core.LatLng{Lat: 36.3, Lng: 28.1},
		Meta:      core.Meta{Title: title, Sector: "AEGEAN"},
		Aircraft: []core.Track{
			{ID: "vpr1", Callsign: "VIPER 1", Side: core.SideFriendly, Path: []core.Waypoint{
				{T: 0, Lat: 36.1, Lng: 27.8},
				{T: 120, Lat: 36.5, Lng: 28.4},
			}},
			{ID: "bst1", Callsign: "BANDIT 1", Side: core.SideHostile, Path: []core.Waypoint{
				{T: 0, Lat: 36.6, Lng: 28.6},
				{T: 120, Lat: 36.2, Lng: 28.0},
			}},
		},
		Events: []core.Event{
			{T: 12, Type: core.EventContact, Actor: "vpr1", Text: "contact"},
			{T: 86, Type: core.EventImpact, Lat: &lat, Lng: &lng, Text: "splash"},
		},
	}
}

func TestSaveAndLoad(t *testing.T) {
	src := newTestSource(t, "SORTIE 07")
	ctx := context.Background()

	require.NoError(t, src.SaveMission(ctx, testMission("SORTIE 07")))

	m, err := src.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, "SORTIE 07", m.Meta.Title)
	assert.Equal(t, 120.0, m.DurationS)
	require.Len(t, m.Aircraft, 2)
	assert.Equal(t, "vpr1", m.Aircraft[0].ID)
	require.Len(t, m.Aircraft[0].Path, 2)
	require.Len(t, m.Events, 2)
	assert.True(t, m.Events[1].HasPosition())
}

func TestLoad_MissionNotFound(t *testing.T) {
	src := newTestSource(t, "NO SUCH SORTIE")

	_, err := src.Load(context.Background())
	assert.Error(t, err)
}

func TestLoad_LatestWhenUnnamed(t *testing.T) {
	src := newTestSource(t, "")
	ctx := context.Background()

	require.NoError(t, src.SaveMission(ctx, testMission("SORTIE 01")))
	require.NoError(t, src.SaveMission(ctx, testMission("SORTIE 02")))

	m, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "SORTIE 02", m.Meta.Title)
}

func TestSaveSession(t *testing.T) {
	src := newTestSource(t, "SORTIE 07")
	ctx := context.Background()

	require.NoError(t, src.SaveMission(ctx, testMission("SORTIE 07")))
	err := src.SaveSession(ctx, "SORTIE 07", 3, core.Tallies{Contacts: 2, Kills: 1})
	require.NoError(t, err)

	err = src.SaveSession(ctx, "UNKNOWN", 1, core.Tallies{})
	assert.Error(t, err)
}

func TestCount(t *testing.T) {
	src := newTestSource(t, "")
	ctx := context.Background()

	n, err := src.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	require.NoError(t, src.SaveMission(ctx, testMission("SORTIE 01")))

	n, err = src.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
