// Package gormdb loads missions from the gorm-backed archive
// (Postgres, falling back to local SQLite).
package gormdb

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/doctor-spaghetti-md/mrdarcy/internal/database"
	"github.com/doctor-spaghetti-md/mrdarcy/internal/model"
	"github.com/doctor-spaghetti-md/mrdarcy/pkg/core"
)

// Source loads archived missions through a database manager.
type Source struct {
	mgr     *database.Manager
	mission string
	log     zerolog.Logger
}

// New connects to the archive and migrates the schema. missionName
// selects which archived mission Load fetches; empty means the most
// recently recorded one.
func New(log zerolog.Logger, missionName string) (*Source, error) {
	mgr := database.NewManager(log)
	if err := mgr.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to archive: %w", err)
	}
	if err := mgr.Setup(); err != nil {
		return nil, fmt.Errorf("setting up archive: %w", err)
	}
	return &Source{mgr: mgr, mission: missionName, log: log}, nil
}

func (s *Source) Name() string {
	if s.mission == "" {
		return "gormdb:latest"
	}
	return "gormdb:" + s.mission
}

// Load fetches the selected mission with its tracks and events.
func (s *Source) Load(ctx context.Context) (*core.Mission, error) {
	q := s.mgr.DB.WithContext(ctx).
		Preload("Tracks").
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("t ASC, id ASC")
		})

	var rec model.Mission
	var err error
	if s.mission != "" {
		err = q.Where("name = ?", s.mission).First(&rec).Error
	} else {
		err = q.Order("recorded_at DESC, id DESC").First(&rec).Error
	}
	if err != nil {
		return nil, fmt.Errorf("fetching mission: %w", err)
	}

	s.log.Info().
		Str("mission", rec.Name).
		Int("tracks", len(rec.Tracks)).
		Int("events", len(rec.Events)).
		Msg("Loaded mission from archive")

	return rec.ToCore()
}

// SaveMission archives a mission with its tracks and events in one create.
func (s *Source) SaveMission(ctx context.Context, m *core.Mission) error {
	rec, err := model.FromCore(m, time.Now())
	if err != nil {
		return err
	}
	if err := s.mgr.DB.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("archiving mission: %w", err)
	}
	return nil
}

// SaveSession records one finished playback against the archived mission.
func (s *Source) SaveSession(ctx context.Context, missionName string, epochs uint, t core.Tallies) error {
	var rec model.Mission
	err := s.mgr.DB.WithContext(ctx).Where("name = ?", missionName).First(&rec).Error
	if err != nil {
		return fmt.Errorf("finding mission for session: %w", err)
	}

	session := model.ReplaySession{
		MissionID:   rec.ID,
		EndedAt:     time.Now(),
		Epochs:      epochs,
		Contacts:    uint(t.Contacts),
		Engagements: uint(t.Engagements),
		Kills:       uint(t.Kills),
		Losses:      uint(t.Losses),
	}
	if err := s.mgr.DB.WithContext(ctx).Create(&session).Error; err != nil {
		return fmt.Errorf("recording session: %w", err)
	}
	return nil
}

// Count returns the number of archived missions.
func (s *Source) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.mgr.DB.WithContext(ctx).Model(&model.Mission{}).Count(&n).Error
	return n, err
}

func (s *Source) Close() error {
	if s.mgr.SqlDB != nil {
		return s.mgr.SqlDB.Close()
	}
	return nil
}
