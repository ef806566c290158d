// internal/storage/storage.go
package storage

import (
	"context"
	"fmt"

	"github.com/doctor-spaghetti-md/mrdarcy/pkg/core"
)

// Source is the interface all mission source implementations must satisfy.
type Source interface {
	// Name identifies the backend for logging.
	Name() string

	// Load fetches the mission to replay.
	Load(ctx context.Context) (*core.Mission, error)

	// Close releases backend resources.
	Close() error
}

// Archiver is an optional interface for sources that can also write
// missions and replay session records back to their store.
type Archiver interface {
	SaveMission(ctx context.Context, m *core.Mission) error
	SaveSession(ctx context.Context, missionName string, epochs uint, tallies core.Tallies) error
}

// Validate checks a loaded mission for the structural problems that
// would corrupt playback. Unknown event actors are tolerated; a
// malformed track is not.
func Validate(m *core.Mission) error {
	if m == nil {
		return fmt.Errorf("no mission")
	}
	if m.DurationS <= 0 {
		return fmt.Errorf("mission duration must be positive, got %v", m.DurationS)
	}

	seen := make(map[string]struct{}, len(m.Aircraft))
	for _, t := range m.Aircraft {
		if t.ID == "" {
			return fmt.Errorf("track with empty id")
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("duplicate track id: %s", t.ID)
		}
		seen[t.ID] = struct{}{}

		if len(t.Path) == 0 {
			return fmt.Errorf("track %s: empty path", t.ID)
		}
		for i := 1; i < len(t.Path); i++ {
			if t.Path[i].T < t.Path[i-1].T {
				return fmt.Errorf("track %s: waypoint times decrease at index %d", t.ID, i)
			}
		}
	}

	for i, e := range m.Events {
		if e.Type == "" {
			return fmt.Errorf("event %d: empty type", i)
		}
		if e.T < 0 {
			return fmt.Errorf("event %d: negative time %v", i, e.T)
		}
	}

	return nil
}
