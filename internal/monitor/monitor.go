package monitor

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/doctor-spaghetti-md/mrdarcy/internal/logging"
	"github.com/doctor-spaghetti-md/mrdarcy/pkg/core"
)

// Status is one sample of replay health, provided by the engine loop.
type Status struct {
	Mission string       `json:"mission"`
	State   string       `json:"state"`
	Time    float64      `json:"time"`
	Speed   float64      `json:"speed"`
	Epoch   int          `json:"epoch"`
	Frames  uint64       `json:"frames"`
	Viewers int          `json:"viewers"`
	Tallies core.Tallies `json:"tallies"`
}

// report is what gets written to the status file: the raw sample plus
// the frame rate derived from successive samples.
type report struct {
	Status
	FramesPerSecond float64   `json:"framesPerSecond"`
	SampledAt       time.Time `json:"sampledAt"`
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	LogManager *logging.SlogManager
	StatusDir  string
	Sample     func() Status
	// Interval between samples; defaults to one second.
	Interval time.Duration
}

// Service periodically samples replay status and writes it to
// status.txt in the status directory.
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = time.Second
	}
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	if s.deps.Sample == nil {
		return fmt.Errorf("no status sampler configured")
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		logger := s.deps.LogManager.Logger()
		logger.Debug("Starting status monitor goroutine")

		statusFile, err := os.Create(s.deps.StatusDir + "/status.txt")
		if err != nil {
			logger.Error("Error creating status file", "error", err)
		}
		defer statusFile.Close()

		var last Status
		var lastAt time.Time

		for {
			select {
			case <-s.stopChan:
				return
			default:
				time.Sleep(s.deps.Interval)

				now := time.Now()
				status := s.deps.Sample()

				rep := report{Status: status, SampledAt: now}
				if !lastAt.IsZero() && status.Frames >= last.Frames {
					elapsed := now.Sub(lastAt).Seconds()
					if elapsed > 0 {
						rep.FramesPerSecond = float64(status.Frames-last.Frames) / elapsed
					}
				}
				last = status
				lastAt = now

				data, err := json.MarshalIndent(rep, "", "  ")
				if err != nil {
					data = []byte(fmt.Sprintf(`{"error": "%s"}`, err))
				}

				if statusFile != nil {
					statusFile.Truncate(0)
					statusFile.Seek(0, 0)
					statusFile.Write(data)
					statusFile.WriteString("\n")
				}
			}
		}
	}()

	return nil
}

// Stop stops the status monitor
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		close(s.stopChan)
	}
}
