package main

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/doctor-spaghetti-md/mrdarcy/internal/queue"
	"github.com/doctor-spaghetti-md/mrdarcy/pkg/core"
)

// consoleLog is the headless log view: fired events are queued off the
// frame loop and drained to the logger by a background goroutine, so
// terminal IO never stalls a frame.
type consoleLog struct {
	entries *queue.Queue[core.LogEntry]
	logger  *slog.Logger
	stop    chan struct{}
	once    sync.Once
}

func newConsoleLog(logger *slog.Logger) *consoleLog {
	v := &consoleLog{
		entries: queue.New[core.LogEntry](),
		logger:  logger,
		stop:    make(chan struct{}),
	}
	go v.drain()
	return v
}

func (v *consoleLog) Append(entry core.LogEntry) {
	v.entries.Push(entry)
}

func (v *consoleLog) Clear() {
	v.entries.Clear()
	v.logger.Info("--- replay restarted ---")
}

func (v *consoleLog) drain() {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-v.stop:
			return
		case <-ticker.C:
			for _, e := range v.entries.GetAndEmpty() {
				v.logger.Info(fmt.Sprintf("[%6.1fs] %-10s %s", e.T, string(e.Type), e.Text))
			}
		}
	}
}

func (v *consoleLog) Close() {
	v.once.Do(func() { close(v.stop) })
}

// consoleHUD logs the tallies whenever they change.
type consoleHUD struct {
	logger *slog.Logger
	last   core.Tallies
}

func newConsoleHUD(logger *slog.Logger) *consoleHUD {
	return &consoleHUD{logger: logger}
}

func (v *consoleHUD) UpdateTallies(t core.Tallies, intensity float64) {
	if t == v.last {
		return
	}
	v.last = t
	v.logger.Info("tallies",
		"contacts", t.Contacts,
		"engagements", t.Engagements,
		"kills", t.Kills,
		"losses", t.Losses,
		"intensity", fmt.Sprintf("%.1f", intensity),
	)
}
