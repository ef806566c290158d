// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/doctor-spaghetti-md/mrdarcy/internal/config"
	"github.com/doctor-spaghetti-md/mrdarcy/internal/storage/file"
	"github.com/doctor-spaghetti-md/mrdarcy/internal/storage/gormdb"
	"github.com/doctor-spaghetti-md/mrdarcy/internal/storage/sample"
)

// NewSource creates a mission source based on configuration.
func NewSource(cfg config.StorageConfig, log zerolog.Logger) (Source, error) {
	switch cfg.Type {
	case "gormdb":
		return gormdb.New(log, cfg.Mission)
	case "file":
		return file.New(cfg.Path), nil
	case "sample":
		return sample.New(), nil
	default:
		return nil, fmt.Errorf("unknown source type: %s", cfg.Type)
	}
}
