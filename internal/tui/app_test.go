package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/serialscope/internal/engine"
	"github.com/dm/serialscope/internal/model"
)

// fakeScope is a scriptable Scope for driving the App without an engine.
type fakeScope struct {
	points    []model.Point
	maxWindow float64
	stats     model.Stats
	windowErr error

	requested []float64
	resets    int
}

func (f *fakeScope) Window(d float64) ([]model.Point, error) {
	f.requested = append(f.requested, d)
	if f.windowErr != nil {
		return nil, f.windowErr
	}
	if f.maxWindow > 0 && d > f.maxWindow {
		return nil, engine.ErrUnsupportedWindow
	}
	return f.points, nil
}

func (f *fakeScope) MaxWindow() float64 { return f.maxWindow }
func (f *fakeScope) Stats() model.Stats { return f.stats }
func (f *fakeScope) StartRecording()    { f.stats.Recording = true; f.stats.Recorded = 0 }
func (f *fakeScope) StopRecording()     { f.stats.Recording = false }
func (f *fakeScope) Reset()             { f.resets++; f.stats.TotalWritten = 0 }

// setPoints loads a window ending at x=0 with one-second spacing.
func (f *fakeScope) setPoints(ys ...float64) {
	f.points = make([]model.Point, len(ys))
	for i, y := range ys {
		f.points[i] = model.Point{X: float64(i - len(ys) + 1), Y: y}
	}
}

func newTestApp(s *fakeScope) *App {
	app := NewApp(s, "/dev/ttyUSB0", 10, 100*time.Millisecond)
	app.width = 120
	app.height = 30
	return app
}

func update(t *testing.T, app *App, msg tea.Msg) (*App, tea.Cmd) {
	t.Helper()
	m, cmd := app.Update(msg)
	next, ok := m.(*App)
	require.True(t, ok)
	return next, cmd
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApp_InitSchedulesTick(t *testing.T) {
	app := newTestApp(&fakeScope{})
	cmd := app.Init()
	require.NotNil(t, cmd)
	_, ok := cmd().(TickMsg)
	assert.True(t, ok)
}

func TestApp_TickPullsWindow(t *testing.T) {
	s := &fakeScope{stats: model.Stats{TotalWritten: 4, RateHz: 1}}
	s.setPoints(2, 3, 4, 5)
	app := newTestApp(s)

	app, cmd := update(t, app, TickMsg(time.Now()))
	assert.NotNil(t, cmd, "tick must reschedule itself")
	assert.Equal(t, []float64{10}, s.requested)
	assert.Equal(t, s.points, app.window)
	assert.Equal(t, int64(4), app.stats.TotalWritten)
	assert.NoError(t, app.lastErr)
}

func TestApp_TickClampsUnsupportedWindow(t *testing.T) {
	s := &fakeScope{maxWindow: 4.5}
	s.setPoints(1, 2)
	app := newTestApp(s)

	app, _ = update(t, app, TickMsg(time.Now()))
	assert.Equal(t, []float64{10, 4.5}, s.requested)
	assert.Equal(t, 10.0, app.duration, "requested length is kept")
	assert.Equal(t, 4.5, app.effective)
	assert.Contains(t, app.notice, "clamped")
	assert.NoError(t, app.lastErr)
	assert.Len(t, app.window, 2)
}

func TestApp_ClampReleasedWhenRateRecovers(t *testing.T) {
	s := &fakeScope{}
	s.setPoints(1, 2, 3)
	app := newTestApp(s)

	// A burst drives the rate up: the buffer covers only 0.199s.
	s.maxWindow = 0.199
	app, _ = update(t, app, TickMsg(time.Now()))
	assert.Equal(t, 0.199, app.effective)
	assert.Equal(t, 10.0, app.duration)
	assert.Contains(t, stripANSI(renderHeader(app)), "window 199ms")

	// Rate back to normal: the full requested window is shown again.
	s.maxWindow = 0
	s.setPoints(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11)
	app, _ = update(t, app, TickMsg(time.Now()))
	assert.Equal(t, 10.0, app.effective)
	assert.Len(t, app.window, 11)
	assert.Empty(t, app.notice)
	assert.Equal(t, []float64{10, 0.199, 10}, s.requested)
	assert.Contains(t, stripANSI(renderHeader(app)), "window 10s")
}

func TestApp_BurstyEngineRecoversWindow(t *testing.T) {
	now := time.Unix(0, 0)
	eng, err := engine.New(engine.Options{
		Capacity:      200,
		InitialRateHz: 10,
		Clock:         func() time.Time { return now },
	})
	require.NoError(t, err)
	ingest := func(count int, gap time.Duration) {
		for i := 0; i < count; i++ {
			now = now.Add(gap)
			eng.Ingest(float64(i))
		}
	}

	app := NewApp(eng, "/dev/ttyUSB0", 10, 100*time.Millisecond)
	ingest(20, 100*time.Millisecond)
	ingest(1, time.Millisecond)
	app, _ = update(t, app, TickMsg(now))
	assert.InDelta(t, 0.199, app.effective, 1e-9)

	ingest(20, 100*time.Millisecond)
	app, _ = update(t, app, TickMsg(now))
	assert.Equal(t, 10.0, app.effective)
	assert.Len(t, app.window, 101)
}

func TestApp_TickKeepsLastWindowOnError(t *testing.T) {
	s := &fakeScope{}
	s.setPoints(7)
	app := newTestApp(s)
	app, _ = update(t, app, TickMsg(time.Now()))
	require.Len(t, app.window, 1)

	s.windowErr = engine.ErrInvalidDuration
	app, _ = update(t, app, TickMsg(time.Now()))
	assert.ErrorIs(t, app.lastErr, engine.ErrInvalidDuration)
	assert.Len(t, app.window, 1)
	assert.Contains(t, stripANSI(renderPlotPanel(app)), "window:")
}

func TestApp_WindowLengthKeys(t *testing.T) {
	s := &fakeScope{}
	app := newTestApp(s)

	app, _ = update(t, app, runeKey("+"))
	assert.Equal(t, 20.0, app.duration)
	app, _ = update(t, app, runeKey("-"))
	app, _ = update(t, app, runeKey("-"))
	assert.Equal(t, 5.0, app.duration)
	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 10.0, app.duration)
}

func TestDurationSteps(t *testing.T) {
	cases := []struct {
		in, next, prev float64
	}{
		{0.5, 1, 1},
		{1, 2, 1},
		{4.5, 5, 2},
		{10, 20, 5},
		{600, 600, 300},
		{1000, 600, 600},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.next, nextDuration(tc.in), "next(%v)", tc.in)
		assert.Equal(t, tc.prev, prevDuration(tc.in), "prev(%v)", tc.in)
	}
}

func TestApp_RecordToggle(t *testing.T) {
	s := &fakeScope{}
	app := newTestApp(s)

	app, _ = update(t, app, runeKey("r"))
	assert.True(t, app.stats.Recording)
	assert.Equal(t, "recording", app.notice)

	s.stats.Recorded = 1234
	app, _ = update(t, app, runeKey("r"))
	assert.False(t, app.stats.Recording)
	assert.Contains(t, app.notice, "1,234")
}

func TestApp_ClearResetsScopeAndHistory(t *testing.T) {
	s := &fakeScope{stats: model.Stats{TotalWritten: 50}}
	app := newTestApp(s)
	app, _ = update(t, app, RateChangedMsg{Hz: 100})
	require.Equal(t, 1, app.rateHistory.Len())

	app, _ = update(t, app, runeKey("c"))
	assert.Equal(t, 1, s.resets)
	assert.Equal(t, 0, app.rateHistory.Len())
	assert.Equal(t, int64(0), app.stats.TotalWritten)
}

func TestApp_RateChangedRecordsHistory(t *testing.T) {
	app := newTestApp(&fakeScope{})
	for _, hz := range []float64{10, 50, 100} {
		app, _ = update(t, app, RateChangedMsg{Hz: hz})
	}
	got := app.rateHistory.SnapshotRange(app.rateHistory.Len())
	require.Len(t, got, 3)
	assert.Equal(t, 100.0, got[2].Value)
}

func TestApp_Status(t *testing.T) {
	s := &fakeScope{}
	app := newTestApp(s)
	assert.Equal(t, statusWaiting, app.status())

	s.stats.TotalWritten = 1
	app, _ = update(t, app, TickMsg(time.Now()))
	assert.Equal(t, statusLive, app.status())

	app, _ = update(t, app, SourceDoneMsg{Err: errors.New("read /dev/ttyUSB0: input/output error")})
	assert.Equal(t, statusEnded, app.status())
	assert.Contains(t, stripANSI(renderHeader(app)), "I/O error")
}

func TestApp_WindowSizeStored(t *testing.T) {
	app := newTestApp(&fakeScope{})
	app, _ = update(t, app, tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Equal(t, 100, app.width)
	assert.Equal(t, 40, app.height)
}

func TestApp_QuitKey(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runeKey("q"), {Type: tea.KeyCtrlC}} {
		app := newTestApp(&fakeScope{})
		_, cmd := update(t, app, msg)
		require.NotNil(t, cmd)
		_, ok := cmd().(tea.QuitMsg)
		assert.True(t, ok, "key %q should quit", msg.String())
	}
}

func TestApp_HelpToggle(t *testing.T) {
	app := newTestApp(&fakeScope{})
	assert.False(t, app.showHelp)
	app, _ = update(t, app, runeKey("?"))
	assert.True(t, app.showHelp)
	assert.Contains(t, stripANSI(renderFooter(app)), "r: record")
	app, _ = update(t, app, runeKey("?"))
	assert.False(t, app.showHelp)
}

func TestApp_View(t *testing.T) {
	s := &fakeScope{stats: model.Stats{TotalWritten: 4, Retained: 4, Capacity: 8, RateHz: 1, LastValue: 5}}
	s.setPoints(2, 3, 4, 5)
	app := newTestApp(s)
	app, _ = update(t, app, TickMsg(time.Now()))

	view := stripANSI(app.View())
	assert.Contains(t, view, "/dev/ttyUSB0")
	assert.Contains(t, view, "LIVE")
	assert.Contains(t, view, "5.000")
	assert.Contains(t, view, "Buffer")
}

func TestRenderMiniBar(t *testing.T) {
	cases := []struct {
		percent  float64
		width    int
		wantFill int
	}{
		{0, 10, 0},
		{100, 10, 10},
		{50, 10, 5},
		{25, 8, 2},
		{75, 8, 6},
		{150, 4, 4},
		{-5, 4, 0},
	}
	for _, tc := range cases {
		result := renderMiniBar(tc.percent, tc.width)
		assert.Len(t, []rune(result), tc.width, "total bar width percent=%v", tc.percent)
		assert.Equal(t, tc.wantFill, strings.Count(result, "█"), "filled count percent=%v width=%v", tc.percent, tc.width)
	}
	assert.Equal(t, "", renderMiniBar(50, 0))
}

func TestRenderOverview(t *testing.T) {
	s := &fakeScope{stats: model.Stats{
		TotalWritten: 12345,
		Retained:     500,
		Capacity:     1000,
		RateHz:       250,
		Recorded:     42,
		LastValue:    1.5,
		Recording:    true,
	}}
	app := newTestApp(s)
	app, _ = update(t, app, TickMsg(time.Now()))

	stripped := stripANSI(renderOverview(app))
	assert.Contains(t, stripped, "12,345")
	assert.Contains(t, stripped, "50.0%")
	assert.Contains(t, stripped, "250.0 Hz")
	assert.Contains(t, stripped, "1.500")
	assert.Contains(t, stripped, "recording")
}

func TestRenderOverview_NarrowTerminal(t *testing.T) {
	app := newTestApp(&fakeScope{})
	app.width = 60
	result := renderOverview(app)
	assert.NotEmpty(t, result)
	assert.Contains(t, stripANSI(result), "Recorded")
}

// stripANSI removes ANSI escape sequences for plain-text content assertions.
// Handles all CSI sequences (not just SGR m-terminated ones).
func stripANSI(s string) string {
	var out strings.Builder
	inEscape, inCSI := false, false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape && !inCSI && r == '[':
			inCSI = true
		case inEscape:
			// CSI final bytes are in range 0x40-0x7E (@, A-Z, [, \, ], ^, _, `, a-z, {, |, }, ~)
			if r >= 0x40 && r <= 0x7E {
				inEscape, inCSI = false, false
			}
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}
