// Package file loads a mission from a JSON file on disk.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/doctor-spaghetti-md/mrdarcy/pkg/core"
)

// Source reads one mission JSON document.
type Source struct {
	path string
}

// New creates a file source for the given path.
func New(path string) *Source {
	return &Source{path: path}
}

func (s *Source) Name() string {
	return "file:" + s.path
}

// Load reads and decodes the mission file. Unknown fields are rejected
// so a typo in an authored mission surfaces at load instead of as a
// silently empty track list.
func (s *Source) Load(ctx context.Context) (*core.Mission, error) {
	if s.path == "" {
		return nil, fmt.Errorf("no mission file path configured")
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening mission file: %w", err)
	}
	defer f.Close()

	var m core.Mission
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding mission file %s: %w", s.path, err)
	}

	return &m, nil
}

func (s *Source) Close() error {
	return nil
}
