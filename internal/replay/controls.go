package replay

import (
	"fmt"
	"strconv"

	"github.com/doctor-spaghetti-md/mrdarcy/internal/dispatcher"
)

// Control command names accepted by RegisterControls.
const (
	CmdPlay    = "play"
	CmdPause   = "pause"
	CmdToggle  = "toggle"
	CmdRestart = "restart"
	CmdSpeed   = "speed"
	CmdTrails  = "trails"
	CmdLabels  = "labels"
	CmdSelect  = "select"
)

// RegisterControls binds the replay engine's operations to a command
// dispatcher. Commands arrive from whatever front end is attached
// (websocket stream, CLI); the engine lock serializes them against the
// frame loop, so each applies between frames and the next Frame call
// observes it.
func RegisterControls(d *dispatcher.Dispatcher, e *Engine) {
	d.Register(CmdPlay, func(c dispatcher.Command) (any, error) {
		return e.Resume().String(), nil
	}, dispatcher.Logged())

	d.Register(CmdPause, func(c dispatcher.Command) (any, error) {
		return e.Pause().String(), nil
	}, dispatcher.Logged())

	d.Register(CmdToggle, func(c dispatcher.Command) (any, error) {
		return e.TogglePlayback().String(), nil
	}, dispatcher.Logged())

	d.Register(CmdRestart, func(c dispatcher.Command) (any, error) {
		e.Restart()
		return "restarted", nil
	}, dispatcher.Logged())

	d.Register(CmdSpeed, func(c dispatcher.Command) (any, error) {
		if len(c.Args) != 1 {
			return nil, fmt.Errorf("speed requires one argument")
		}
		m, err := strconv.ParseFloat(c.Args[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid speed %q: %w", c.Args[0], err)
		}
		if err := e.SetSpeed(m); err != nil {
			return nil, err
		}
		return m, nil
	}, dispatcher.Logged())

	d.Register(CmdTrails, func(c dispatcher.Command) (any, error) {
		return e.ToggleTrails(), nil
	})

	d.Register(CmdLabels, func(c dispatcher.Command) (any, error) {
		return e.ToggleLabels(), nil
	})

	d.Register(CmdSelect, func(c dispatcher.Command) (any, error) {
		if len(c.Args) != 1 {
			return nil, fmt.Errorf("select requires one argument")
		}
		// Empty id clears the selection.
		if err := e.Select(c.Args[0]); err != nil {
			return nil, err
		}
		return c.Args[0], nil
	}, dispatcher.Logged())
}
