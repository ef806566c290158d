package monitor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctor-spaghetti-md/mrdarcy/internal/logging"
	"github.com/doctor-spaghetti-md/mrdarcy/pkg/core"
)

func TestMonitor_WritesStatusFile(t *testing.T) {
	dir := t.TempDir()

	var frames atomic.Uint64
	svc := NewService(Dependencies{
		LogManager: logging.NewSlogManager(),
		StatusDir:  dir,
		Interval:   10 * time.Millisecond,
		Sample: func() Status {
			return Status{
				Mission: "SORTIE 07",
				State:   "PLAYING",
				Time:    42.5,
				Speed:   2,
				Frames:  frames.Add(5),
				Tallies: core.Tallies{Kills: 1},
			}
		},
	})

	require.NoError(t, svc.Start())
	defer svc.Stop()

	statusPath := filepath.Join(dir, "status.txt")
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(statusPath)
		if err != nil || len(data) == 0 {
			return false
		}
		var rep map[string]any
		if json.Unmarshal(data, &rep) != nil {
			return false
		}
		fps, ok := rep["framesPerSecond"].(float64)
		return ok && fps > 0 && rep["mission"] == "SORTIE 07"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestMonitor_StartStop(t *testing.T) {
	svc := NewService(Dependencies{
		LogManager: logging.NewSlogManager(),
		StatusDir:  t.TempDir(),
		Interval:   5 * time.Millisecond,
		Sample:     func() Status { return Status{} },
	})

	require.NoError(t, svc.Start())
	assert.True(t, svc.IsRunning())

	// second start is a no-op
	require.NoError(t, svc.Start())

	svc.Stop()
	assert.Eventually(t, func() bool { return !svc.IsRunning() },
		time.Second, 5*time.Millisecond)
}

func TestMonitor_RequiresSampler(t *testing.T) {
	svc := NewService(Dependencies{
		LogManager: logging.NewSlogManager(),
		StatusDir:  t.TempDir(),
	})
	assert.Error(t, svc.Start())
}
