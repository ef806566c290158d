// Package sample serves the built-in demonstration mission.
package sample

import (
	"context"

	"github.com/doctor-spaghetti-md/mrdarcy/internal/mission"
	"github.com/doctor-spaghetti-md/mrdarcy/pkg/core"
)

// Source serves the compiled-in sample mission. It is the fallback
// when no other source is configured or a configured one fails.
type Source struct{}

// New creates a sample source.
func New() *Source {
	return &Source{}
}

func (s *Source) Name() string {
	return "sample"
}

func (s *Source) Load(ctx context.Context) (*core.Mission, error) {
	return mission.Sample(), nil
}

func (s *Source) Close() error {
	return nil
}
