// internal/storage/storage_test.go
package storage_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctor-spaghetti-md/mrdarcy/internal/config"
	"github.com/doctor-spaghetti-md/mrdarcy/internal/storage"
	"github.com/doctor-spaghetti-md/mrdarcy/pkg/core"
)

func validMission() *core.Mission {
	return &core.Mission{
		DurationS: 60,
		Aircraft: []core.Track{
			{ID: "vpr1", Callsign: "VIPER 1", Side: core.SideFriendly, Path: []core.Waypoint{
				{T: 0, Lat: 36.0, Lng: 28.0},
				{T: 60, Lat: 36.5, Lng: 28.5},
			}},
		},
		Events: []core.Event{
			{T: 10, Type: core.EventContact, Actor: "vpr1", Text: "contact"},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, storage.Validate(validMission()))
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*core.Mission)
	}{
		{"zero duration", func(m *core.Mission) { m.DurationS = 0 }},
		{"empty track id", func(m *core.Mission) { m.Aircraft[0].ID = "" }},
		{"duplicate track id", func(m *core.Mission) {
			m.Aircraft = append(m.Aircraft, m.Aircraft[0])
		}},
		{"empty path", func(m *core.Mission) { m.Aircraft[0].Path = nil }},
		{"decreasing waypoint times", func(m *core.Mission) {
			m.Aircraft[0].Path[1].T = -5
		}},
		{"empty event type", func(m *core.Mission) { m.Events[0].Type = "" }},
		{"negative event time", func(m *core.Mission) { m.Events[0].T = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMission()
			tt.mutate(m)
			assert.Error(t, storage.Validate(m))
		})
	}
}

func TestValidate_NilMission(t *testing.T) {
	assert.Error(t, storage.Validate(nil))
}

func TestNewSource_Sample(t *testing.T) {
	src, err := storage.NewSource(config.StorageConfig{Type: "sample"}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "sample", src.Name())
}

func TestNewSource_Unknown(t *testing.T) {
	_, err := storage.NewSource(config.StorageConfig{Type: "carrier-pigeon"}, zerolog.Nop())
	assert.Error(t, err)
}
