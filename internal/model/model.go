package model

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/doctor-spaghetti-md/mrdarcy/pkg/core"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&ArchiveInfo{},
	&Mission{},
	&Track{},
	&MissionEvent{},
	&ReplaySession{},
}

////////////////////////
// SYSTEM MODELS
////////////////////////

// ArchiveInfo contains information about this mission archive instance
type ArchiveInfo struct {
	gorm.Model
	ArchiveName        string `json:"archiveName" gorm:"size:127"`
	ArchiveDescription string `json:"archiveDescription" gorm:"size:255"`
}

func (*ArchiveInfo) TableName() string {
	return "archive_infos"
}

////////////////////////
// MISSION ARCHIVE
////////////////////////

// Mission is one archived sortie: metadata, center point, and the
// recorded tracks and timeline events hanging off it.
type Mission struct {
	gorm.Model
	Name       string    `json:"name" gorm:"size:200;index:idx_mission_name"`
	Sector     string    `json:"sector" gorm:"size:127"`
	DurationS  float64   `json:"durationS"`
	CenterLat  float64   `json:"centerLat"`
	CenterLng  float64   `json:"centerLng"`
	RecordedAt time.Time `json:"recordedAt" gorm:"index:idx_mission_recorded_at"`

	Tracks []Track        `json:"tracks"`
	Events []MissionEvent `json:"events"`
}

func (*Mission) TableName() string {
	return "missions"
}

// Track is one aircraft's flight path within an archived mission. The
// waypoint list is stored as a JSON document; replay interpolates it,
// the database never needs to query inside it.
type Track struct {
	gorm.Model
	MissionID uint    `json:"missionId" gorm:"index:idx_track_mission_id"`
	Mission   Mission `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:MissionID;"`

	TrackID  string         `json:"trackId" gorm:"size:64;index:idx_track_track_id"`
	Callsign string         `json:"callsign" gorm:"size:64"`
	Side     string         `json:"side" gorm:"size:16"`
	Path     datatypes.JSON `json:"path"`
}

func (*Track) TableName() string {
	return "tracks"
}

// MissionEvent is one timeline event within an archived mission.
type MissionEvent struct {
	ID uint `json:"id" gorm:"primarykey;autoIncrement;"`

	MissionID uint    `json:"missionId" gorm:"index:idx_missionevent_mission_id"`
	Mission   Mission `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:MissionID;"`

	T      float64  `json:"t" gorm:"index:idx_missionevent_t"`
	Type   string   `json:"type" gorm:"size:16"`
	Actor  string   `json:"actor" gorm:"size:64"`
	Target string   `json:"target" gorm:"size:64"`
	Lat    *float64 `json:"lat" gorm:"default:NULL"`
	Lng    *float64 `json:"lng" gorm:"default:NULL"`
	Text   string   `json:"text" gorm:"size:255"`
}

func (*MissionEvent) TableName() string {
	return "mission_events"
}

// ReplaySession records one playback of an archived mission: when it
// ran, how many epochs it looped through and the closing tallies.
type ReplaySession struct {
	gorm.Model
	MissionID uint    `json:"missionId" gorm:"index:idx_replaysession_mission_id"`
	Mission   Mission `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:MissionID;"`

	StartedAt   time.Time `json:"startedAt" gorm:"index:idx_replaysession_started_at"`
	EndedAt     time.Time `json:"endedAt"`
	Epochs      uint      `json:"epochs"`
	Contacts    uint      `json:"contacts"`
	Engagements uint      `json:"engagements"`
	Kills       uint      `json:"kills"`
	Losses      uint      `json:"losses"`
}

func (*ReplaySession) TableName() string {
	return "replay_sessions"
}

////////////////////////
// CONVERSION
////////////////////////

// ToCore materializes an archived mission into the runtime form the
// replay engine consumes.
func (m *Mission) ToCore() (*core.Mission, error) {
	out := &core.Mission{
		DurationS: m.DurationS,
		Center:    core.LatLng{Lat: m.CenterLat, Lng: m.CenterLng},
		Meta: core.Meta{
			Title:  m.Name,
			Sector: m.Sector,
		},
	}

	for i := range m.Tracks {
		t := &m.Tracks[i]
		var path []core.Waypoint
		if len(t.Path) > 0 {
			if err := json.Unmarshal(t.Path, &path); err != nil {
				return nil, fmt.Errorf("track %s: decoding path: %w", t.TrackID, err)
			}
		}
		out.Aircraft = append(out.Aircraft, core.Track{
			ID:       t.TrackID,
			Callsign: t.Callsign,
			Side:     core.Side(t.Side),
			Path:     path,
		})
	}

	for _, e := range m.Events {
		out.Events = append(out.Events, core.Event{
			T:      e.T,
			Type:   core.EventType(e.Type),
			Actor:  e.Actor,
			Target: e.Target,
			Lat:    e.Lat,
			Lng:    e.Lng,
			Text:   e.Text,
		})
	}

	return out, nil
}

// FromCore builds the archive form of a runtime mission, ready to be
// inserted with its tracks and events in one create.
func FromCore(m *core.Mission, recordedAt time.Time) (*Mission, error) {
	out := &Mission{
		Name:       m.Meta.Title,
		Sector:     m.Meta.Sector,
		DurationS:  m.DurationS,
		CenterLat:  m.Center.Lat,
		CenterLng:  m.Center.Lng,
		RecordedAt: recordedAt,
	}

	for _, t := range m.Aircraft {
		path, err := json.Marshal(t.Path)
		if err != nil {
			return nil, fmt.Errorf("track %s: encoding path: %w", t.ID, err)
		}
		out.Tracks = append(out.Tracks, Track{
			TrackID:  t.ID,
			Callsign: t.Callsign,
			Side:     string(t.Side),
			Path:     datatypes.JSON(path),
		})
	}

	for _, e := range m.Events {
		out.Events = append(out.Events, MissionEvent{
			T:      e.T,
			Type:   string(e.Type),
			Actor:  e.Actor,
			Target: e.Target,
			Lat:    e.Lat,
			Lng:    e.Lng,
			Text:   e.Text,
		})
	}

	return out, nil
}
