package replay

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctor-spaghetti-md/mrdarcy/internal/dispatcher"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func newControlled(t *testing.T) (*dispatcher.Dispatcher, *Engine) {
	t.Helper()

	d, err := dispatcher.New(nopLogger{})
	require.NoError(t, err)

	e, err := NewEngine(testMission(), nil, nil)
	require.NoError(t, err)

	RegisterControls(d, e)
	return d, e
}

func TestControls_PauseAndPlay(t *testing.T) {
	d, e := newControlled(t)

	result, err := d.Dispatch(dispatcher.Command{Name: CmdPause})
	require.NoError(t, err)
	assert.Equal(t, "PAUSED", result)
	assert.Equal(t, Paused, e.Clock().State())

	result, err = d.Dispatch(dispatcher.Command{Name: CmdPlay})
	require.NoError(t, err)
	assert.Equal(t, "PLAYING", result)
	assert.Equal(t, Playing, e.Clock().State())
}

func TestControls_Toggle(t *testing.T) {
	d, e := newControlled(t)

	_, err := d.Dispatch(dispatcher.Command{Name: CmdToggle})
	require.NoError(t, err)
	assert.Equal(t, Paused, e.Clock().State())

	_, err = d.Dispatch(dispatcher.Command{Name: CmdToggle})
	require.NoError(t, err)
	assert.Equal(t, Playing, e.Clock().State())
}

func TestControls_Speed(t *testing.T) {
	d, e := newControlled(t)

	result, err := d.Dispatch(dispatcher.Command{Name: CmdSpeed, Args: []string{"4"}})
	require.NoError(t, err)
	assert.Equal(t, 4.0, result)
	assert.Equal(t, 4.0, e.Clock().Speed())

	_, err = d.Dispatch(dispatcher.Command{Name: CmdSpeed, Args: []string{"0"}})
	assert.Error(t, err)

	_, err = d.Dispatch(dispatcher.Command{Name: CmdSpeed, Args: []string{"fast"}})
	assert.Error(t, err)

	_, err = d.Dispatch(dispatcher.Command{Name: CmdSpeed})
	assert.Error(t, err)

	assert.Equal(t, 4.0, e.Clock().Speed(), "failed commands leave speed unchanged")
}

func TestControls_Restart(t *testing.T) {
	d, e := newControlled(t)

	e.Frame(30)
	require.Greater(t, e.Clock().Time(), 0.0)

	result, err := d.Dispatch(dispatcher.Command{Name: CmdRestart})
	require.NoError(t, err)
	assert.Equal(t, "restarted", result)
	assert.Equal(t, 0.0, e.Clock().Time())
}

func TestControls_TrailsAndLabels(t *testing.T) {
	d, _ := newControlled(t)

	result, err := d.Dispatch(dispatcher.Command{Name: CmdTrails})
	require.NoError(t, err)
	assert.Equal(t, false, result)

	result, err = d.Dispatch(dispatcher.Command{Name: CmdTrails})
	require.NoError(t, err)
	assert.Equal(t, true, result)

	result, err = d.Dispatch(dispatcher.Command{Name: CmdLabels})
	require.NoError(t, err)
	assert.Equal(t, false, result)
}

// Commands arrive on viewer connection goroutines while the frame loop
// runs on its own; the engine lock must keep that safe, including the
// scheduler reset racing the per-frame due scan. Run with -race.
func TestControls_ConcurrentWithFrameLoop(t *testing.T) {
	d, e := newControlled(t)

	const frames = 500
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < frames; i++ {
			e.Frame(0.5)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			d.Dispatch(dispatcher.Command{Name: CmdPause})
			d.Dispatch(dispatcher.Command{Name: CmdPlay})
			d.Dispatch(dispatcher.Command{Name: CmdSpeed, Args: []string{strconv.Itoa(i%4 + 1)}})
			d.Dispatch(dispatcher.Command{Name: CmdTrails})
			d.Dispatch(dispatcher.Command{Name: CmdSelect, Args: []string{"v1"}})
			d.Dispatch(dispatcher.Command{Name: CmdRestart})
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			st, tm, speed := e.ClockStatus()
			_ = st
			_ = tm
			_ = speed
			e.Tallies()
		}
	}()

	wg.Wait()

	st, tm, speed := e.ClockStatus()
	assert.Contains(t, []ClockState{Playing, Paused, EndHold}, st)
	assert.GreaterOrEqual(t, tm, 0.0)
	assert.Greater(t, speed, 0.0)
}

func TestControls_Select(t *testing.T) {
	d, e := newControlled(t)

	id := e.Mission().Aircraft[0].ID
	result, err := d.Dispatch(dispatcher.Command{Name: CmdSelect, Args: []string{id}})
	require.NoError(t, err)
	assert.Equal(t, id, result)

	snap := e.Frame(0.1)
	assert.Equal(t, id, snap.Selected)

	_, err = d.Dispatch(dispatcher.Command{Name: CmdSelect, Args: []string{"ghost9"}})
	assert.Error(t, err)

	_, err = d.Dispatch(dispatcher.Command{Name: CmdSelect, Args: []string{""}})
	require.NoError(t, err)
	snap = e.Frame(0.1)
	assert.Equal(t, "", snap.Selected)
}
