package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dm/serialscope/internal/engine"
	"github.com/dm/serialscope/internal/format"
	"github.com/dm/serialscope/internal/model"
)

const (
	statusWaiting = "waiting"
	statusLive    = "live"
	statusEnded   = "ended"
)

// rateHistoryCap bounds the rate-change history shown in the rate card.
const rateHistoryCap = 60

// durationSteps are the window lengths cycled with +/-, in seconds.
var durationSteps = []float64{1, 2, 5, 10, 20, 30, 60, 120, 300, 600}

// Scope is the engine surface the view needs.
type Scope interface {
	Window(durationSeconds float64) ([]model.Point, error)
	MaxWindow() float64
	Stats() model.Stats
	StartRecording()
	StopRecording()
	Reset()
}

// App is the root Bubble Tea model for scope.
type App struct {
	scope   Scope
	device  string
	refresh time.Duration

	// Display state
	duration    float64 // requested window length, seconds
	effective   float64 // window length actually shown, seconds
	clamped     bool    // effective < duration because of buffer capacity
	window      []model.Point
	stats       model.Stats
	rateHistory *model.RingBuffer
	started     time.Time

	// Stream state
	sourceDone bool
	sourceErr  error
	lastErr    error
	notice     string

	// Layout
	width, height int

	// UI state
	showHelp bool
}

// NewApp creates an App reading from s, labelled with device, redrawing
// every refresh and initially showing the last duration seconds.
func NewApp(s Scope, device string, duration float64, refresh time.Duration) *App {
	if refresh <= 0 {
		refresh = 100 * time.Millisecond
	}
	return &App{
		scope:       s,
		device:      device,
		refresh:     refresh,
		duration:    duration,
		effective:   duration,
		rateHistory: model.NewRingBuffer(rateHistoryCap),
		started:     time.Now(),
	}
}

// Init implements tea.Model. Draws the first window immediately.
func (app *App) Init() tea.Cmd {
	return func() tea.Msg { return TickMsg(time.Now()) }
}

// Update implements tea.Model. It is the only place App state changes.
func (app *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		app.width = msg.Width
		app.height = msg.Height

	case TickMsg:
		app.refreshWindow()
		return app, tickCmd(app.refresh)

	case RateChangedMsg:
		app.rateHistory.Write(model.Sample{
			Timestamp: time.Since(app.started).Seconds(),
			Value:     msg.Hz,
		})

	case SourceDoneMsg:
		app.sourceDone = true
		app.sourceErr = msg.Err
		app.refreshWindow()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return app, tea.Quit
		case key.Matches(msg, keys.Longer):
			app.duration = nextDuration(app.duration)
			app.notice = ""
			app.refreshWindow()
		case key.Matches(msg, keys.Shorter):
			app.duration = prevDuration(app.duration)
			app.notice = ""
			app.refreshWindow()
		case key.Matches(msg, keys.Record):
			if app.stats.Recording {
				app.scope.StopRecording()
				app.notice = fmt.Sprintf("recording stopped (%s values)", format.FormatNumber(int64(app.scope.Stats().Recorded)))
			} else {
				app.scope.StartRecording()
				app.notice = "recording"
			}
			app.stats = app.scope.Stats()
		case key.Matches(msg, keys.Clear):
			app.scope.Reset()
			app.rateHistory.Clear()
			app.notice = "buffer cleared"
			app.refreshWindow()
		case key.Matches(msg, keys.Help):
			app.showHelp = !app.showHelp
		}
	}

	return app, nil
}

// refreshWindow pulls the current window from the scope. A window longer
// than the buffer can hold at the current rate is clamped to the longest
// supported one for this refresh only; the requested length is kept so the
// view grows back once the rate allows it.
func (app *App) refreshWindow() {
	effective := app.duration
	pts, err := app.scope.Window(effective)
	if errors.Is(err, engine.ErrUnsupportedWindow) {
		effective = app.scope.MaxWindow()
		pts, err = app.scope.Window(effective)
		app.clamped = true
		app.notice = fmt.Sprintf("window clamped to %s by buffer capacity", format.FormatSeconds(effective))
	} else if app.clamped {
		app.clamped = false
		app.notice = ""
	}
	app.effective = effective
	app.lastErr = err
	if err == nil {
		app.window = pts
	}
	app.stats = app.scope.Stats()
}

// status reports the stream state shown in the header.
func (app *App) status() string {
	switch {
	case app.sourceDone:
		return statusEnded
	case app.stats.TotalWritten == 0:
		return statusWaiting
	default:
		return statusLive
	}
}

// View implements tea.Model. Renders the full TUI.
func (app *App) View() string {
	var parts []string

	if h := renderHeader(app); h != "" {
		parts = append(parts, h)
	}
	if p := renderPlotPanel(app); p != "" {
		parts = append(parts, p)
	}
	if o := renderOverview(app); o != "" {
		parts = append(parts, o)
	}
	parts = append(parts, renderFooter(app))

	return strings.Join(parts, "\n")
}

// tickCmd schedules the next redraw after duration d.
func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// nextDuration returns the first step longer than d.
func nextDuration(d float64) float64 {
	for _, s := range durationSteps {
		if s > d {
			return s
		}
	}
	return durationSteps[len(durationSteps)-1]
}

// prevDuration returns the last step shorter than d.
func prevDuration(d float64) float64 {
	for i := len(durationSteps) - 1; i >= 0; i-- {
		if durationSteps[i] < d {
			return durationSteps[i]
		}
	}
	return durationSteps[0]
}
