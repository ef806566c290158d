package replay

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/doctor-spaghetti-md/mrdarcy/internal/fanout"
	"github.com/doctor-spaghetti-md/mrdarcy/internal/schedule"
	"github.com/doctor-spaghetti-md/mrdarcy/internal/state"
	"github.com/doctor-spaghetti-md/mrdarcy/pkg/core"
)

// Engine ties the clock, scheduler, aircraft store and fan-out together
// into the per-frame pass. One mutex serializes Frame and every control
// mutation, so commands arriving from viewer connections apply between
// frames and never while a frame is in flight. Other goroutines read
// playback state only through ClockStatus and Tallies; views only ever
// see snapshot copies.
type Engine struct {
	mu sync.Mutex

	mission *core.Mission

	clock   *Clock
	sched   *schedule.Scheduler
	store   *state.Store
	builder *fanout.Builder
	pub     *fanout.Publisher
	tally   *fanout.Tally

	trails   bool
	labels   bool
	selected string

	onEvent   func(core.Event)
	onRestart func(core.Tallies)

	// status mirrors the clock for readers outside the engine lock
	// (monitor, log context). Kept separate so a status read can never
	// block on, or deadlock with, a frame in progress.
	status struct {
		mu    sync.Mutex
		state ClockState
		time  float64
		speed float64
	}

	logger *slog.Logger

	framesAdvanced metric.Int64Counter
	eventsFired    metric.Int64Counter
	epochs         metric.Int64Counter
}

// NewEngine wires an engine over an immutable mission. The publisher
// may hold nil views. Uses the global OTel meter for metrics (no-op if
// not configured).
func NewEngine(mission *core.Mission, pub *fanout.Publisher, logger *slog.Logger) (*Engine, error) {
	if mission == nil {
		return nil, fmt.Errorf("no mission data")
	}
	if pub == nil {
		pub = &fanout.Publisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	store := state.NewStore(mission.Aircraft)
	e := &Engine{
		mission: mission,
		clock:   NewClock(mission.DurationS),
		sched:   schedule.New(),
		store:   store,
		builder: fanout.NewBuilder(store, mission.Events),
		pub:     pub,
		tally:   &fanout.Tally{},
		trails:  true,
		labels:  true,
		logger:  logger,
	}

	m := meter()
	var err error

	e.framesAdvanced, err = m.Int64Counter(
		"replay.frames.advanced",
		metric.WithDescription("Total frames processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating frames counter: %w", err)
	}

	e.eventsFired, err = m.Int64Counter(
		"replay.events.fired",
		metric.WithDescription("Total mission events fired"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating events counter: %w", err)
	}

	e.epochs, err = m.Int64Counter(
		"replay.epochs",
		metric.WithDescription("Total replay restarts"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating epochs counter: %w", err)
	}

	e.warnUnresolvedEvents()
	e.syncStatus()

	return e, nil
}

// syncStatus refreshes the lock-free status mirror. Callers hold e.mu
// (or, in NewEngine, nothing runs concurrently yet).
func (e *Engine) syncStatus() {
	e.status.mu.Lock()
	e.status.state = e.clock.State()
	e.status.time = e.clock.Time()
	e.status.speed = e.clock.Speed()
	e.status.mu.Unlock()
}

// ClockStatus returns the clock's state, logical time and speed. Safe
// from any goroutine, including while a frame is being processed.
func (e *Engine) ClockStatus() (state ClockState, t, speed float64) {
	e.status.mu.Lock()
	defer e.status.mu.Unlock()
	return e.status.state, e.status.time, e.status.speed
}

// warnUnresolvedEvents surfaces events naming unknown track ids at load
// time. They stay in the timeline; only their entity effects are
// skipped when they fire.
func (e *Engine) warnUnresolvedEvents() {
	for _, ev := range e.mission.Events {
		if ev.Actor != "" && e.mission.TrackByID(ev.Actor) == nil {
			e.logger.Warn("event references unknown actor", "type", string(ev.Type), "t", ev.T, "actor", ev.Actor)
		}
		if ev.Target != "" && e.mission.TrackByID(ev.Target) == nil {
			e.logger.Warn("event references unknown target", "type", string(ev.Type), "t", ev.T, "target", ev.Target)
		}
	}
}

// Frame runs one complete frame: advance the clock by the elapsed wall
// time, fire newly-due events, update aircraft, then publish one
// consistent snapshot to every view. Returns the published snapshot.
func (e *Engine) Frame(wallDt float64) core.FrameSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.syncStatus()

	ctx := context.Background()

	if e.clock.Advance(wallDt) {
		e.restart()
	}
	t := e.clock.Time()

	// events resolve before the position pass so a just-killed
	// aircraft is never drawn moving past its death instant
	fired := e.sched.Due(e.mission.Events, t)
	for _, ev := range fired {
		e.applyEvent(ev)
	}
	if n := len(fired); n > 0 {
		e.eventsFired.Add(ctx, int64(n))
	}

	e.store.Advance(t, e.trails)

	snap := e.builder.Snapshot(t, e.clock.State() == Playing, e.clock.Speed(), e.trails, fired, e.tally)
	snap.Labels = e.labels
	snap.Selected = e.selected
	e.pub.Publish(snap)

	e.framesAdvanced.Add(ctx, 1, metric.WithAttributes(
		attribute.String("state", e.clock.State().String()),
	))
	return snap
}

// applyEvent folds one fired event into the runtime state. A bad event
// is isolated: it still logs and tallies, but an unknown kill target
// cannot stall the replay.
func (e *Engine) applyEvent(ev core.Event) {
	e.tally.Record(ev.Type)
	if ev.Type == core.EventKill && ev.Target != "" {
		if !e.store.Kill(ev.Target, ev.T, e.trails) {
			e.logger.Warn("kill event target not found", "target", ev.Target, "t", ev.T)
		}
	}
	e.logger.Debug("event fired", "type", string(ev.Type), "t", ev.T, "text", ev.Text)
	if e.onEvent != nil {
		e.onEvent(ev)
	}
}

// OnEvent registers a hook invoked once per fired event, after it has
// been applied to the runtime state.
func (e *Engine) OnEvent(fn func(core.Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onEvent = fn
}

// OnRestart registers a hook invoked at the start of every new epoch
// with the closing tallies of the epoch that just ended.
func (e *Engine) OnRestart(fn func(core.Tallies)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onRestart = fn
}

// Pause stops the clock and returns the resulting state. The next
// frames still publish so views can re-render, but time holds.
func (e *Engine) Pause() ClockState {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.syncStatus()
	e.clock.Pause()
	return e.clock.State()
}

// Resume continues playback and returns the resulting state.
func (e *Engine) Resume() ClockState {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.syncStatus()
	e.clock.Resume()
	return e.clock.State()
}

// TogglePlayback pauses when playing and resumes when paused, returning
// the resulting state.
func (e *Engine) TogglePlayback() ClockState {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.syncStatus()
	if e.clock.State() == Playing {
		e.clock.Pause()
	} else {
		e.clock.Resume()
	}
	return e.clock.State()
}

// Restart begins a new epoch: time to zero, fired set cleared, every
// aircraft alive with an empty trail, tallies zeroed and the log view
// cleared. The loaded mission is untouched.
func (e *Engine) Restart() {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.syncStatus()
	e.restart()
}

// restart is the epoch rollover. Callers hold e.mu. The restart hook
// receives the tallies as they stood at the end of the closing epoch,
// before they are zeroed.
func (e *Engine) restart() {
	closing := e.tally.Snapshot()
	e.clock.Restart()
	e.sched.Reset()
	e.store.Reset()
	e.tally.Reset()
	e.pub.Reset()
	e.epochs.Add(context.Background(), 1)
	e.logger.Info("replay restarted")
	if e.onRestart != nil {
		e.onRestart(closing)
	}
}

// SetSpeed updates the playback multiplier; rejects non-positive values.
func (e *Engine) SetSpeed(multiplier float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.syncStatus()
	if !e.clock.SetSpeed(multiplier) {
		return fmt.Errorf("invalid speed multiplier: %v", multiplier)
	}
	return nil
}

// ToggleTrails flips trail accumulation and returns the new setting.
func (e *Engine) ToggleTrails() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.trails = !e.trails
	return e.trails
}

// ToggleLabels flips callsign labels and returns the new setting.
func (e *Engine) ToggleLabels() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.labels = !e.labels
	return e.labels
}

// Select marks an aircraft as selected for the views. An empty id
// clears the selection; unknown ids are rejected.
func (e *Engine) Select(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id != "" && e.mission.TrackByID(id) == nil {
		return fmt.Errorf("unknown aircraft: %s", id)
	}
	e.selected = id
	return nil
}

// Clock exposes the clock to the goroutine driving Frame (and to
// single-goroutine tests). Concurrent readers use ClockStatus instead.
func (e *Engine) Clock() *Clock { return e.clock }

// Tallies returns the current HUD counters.
func (e *Engine) Tallies() core.Tallies { return e.tally.Snapshot() }

// Mission returns the loaded mission.
func (e *Engine) Mission() *core.Mission { return e.mission }
