package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dm/serialscope/internal/model"
)

// ErrInvalidOptions is returned by New for unusable construction options.
var ErrInvalidOptions = errors.New("invalid engine options")

// Options configures an Engine at construction.
type Options struct {
	// Capacity is the number of samples retained for windowing.
	Capacity int
	// InitialRateHz seeds the rate estimate until two samples arrive.
	InitialRateHz float64
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
	// OnRateChange, if set, is called once per significant rate change.
	// It runs on the ingesting goroutine, outside the engine lock.
	OnRateChange func(hz float64)
}

// Engine owns one ring buffer and one rate estimator. Ingest is meant to be
// called from a single worker; Window, Stats and the recording accessors may
// be called concurrently from any goroutine.
//
// Timestamps are taken when Ingest is called, not when the source produced
// the value, so the estimated rate reflects delivery cadence.
type Engine struct {
	clock    func() time.Time
	start    time.Time
	onChange func(float64)

	mu        sync.Mutex
	ring      *model.RingBuffer
	rate      *RateEstimator
	recording bool
	recorded  []float64
}

// New validates opts and returns a ready Engine.
func New(opts Options) (*Engine, error) {
	if opts.Capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidOptions, opts.Capacity)
	}
	if opts.InitialRateHz <= 0 || !finite(opts.InitialRateHz) {
		return nil, fmt.Errorf("%w: initial rate must be a positive number, got %v", ErrInvalidOptions, opts.InitialRateHz)
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Engine{
		clock:    clock,
		start:    clock(),
		onChange: opts.OnRateChange,
		ring:     model.NewRingBuffer(opts.Capacity),
		rate:     NewRateEstimator(opts.InitialRateHz),
	}, nil
}

// Ingest stamps value with the current monotonic time, stores it and updates
// the rate estimate.
func (e *Engine) Ingest(value float64) {
	ts := e.clock().Sub(e.start).Seconds()

	e.mu.Lock()
	e.ring.Write(model.Sample{Timestamp: ts, Value: value})
	if e.recording {
		e.recorded = append(e.recorded, value)
	}
	hz, changed := e.rate.Observe(ts)
	e.mu.Unlock()

	if changed && e.onChange != nil {
		e.onChange(hz)
	}
}

// Window returns the last durationSeconds of data at the current rate
// estimate as round(duration*rate)+1 points, oldest first, newest at x = 0.
// It fails with ErrUnsupportedWindow when that exceeds the buffer capacity.
func (e *Engine) Window(durationSeconds float64) ([]model.Point, error) {
	e.mu.Lock()
	rate := e.rate.Rate()
	n, err := requiredSamples(durationSeconds, rate)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	if n > e.ring.Cap() {
		capacity := e.ring.Cap()
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: %v s at %.3g Hz needs %d samples, capacity is %d",
			ErrUnsupportedWindow, durationSeconds, rate, n, capacity)
	}
	samples := e.ring.SnapshotRange(n)
	e.mu.Unlock()

	return extractWindow(samples, n, rate), nil
}

// MaxWindow returns the longest duration, in seconds, that Window accepts at
// the current rate estimate.
func (e *Engine) MaxWindow() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	rate := e.rate.Rate()
	d := safeDivide(float64(e.ring.Cap()-1), rate)
	if d <= 0 || !finite(d) {
		return 0
	}
	return d
}

// Rate returns the current rate estimate in Hz.
func (e *Engine) Rate() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rate.Rate()
}

// Stats returns a consistent summary of the engine's buffers.
func (e *Engine) Stats() model.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := model.Stats{
		TotalWritten: e.ring.TotalWritten(),
		Retained:     e.ring.Len(),
		Capacity:     e.ring.Cap(),
		RateHz:       e.rate.Rate(),
		Recorded:     len(e.recorded),
		Recording:    e.recording,
	}
	if s, ok := e.ring.Newest(); ok {
		st.LastValue = s.Value
	}
	return st
}

// Reset drops all retained samples and the rate history. The recording
// buffer is left untouched.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ring.Clear()
	e.rate.Reset()
}

// StartRecording begins appending every ingested value to the recording
// buffer, discarding anything recorded before.
func (e *Engine) StartRecording() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recording = true
	e.recorded = nil
}

// StopRecording stops appending; recorded values stay available.
func (e *Engine) StopRecording() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recording = false
}

// IsRecording reports whether ingested values are being recorded.
func (e *Engine) IsRecording() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recording
}

// Recording returns a copy of every value ingested since recording started.
func (e *Engine) Recording() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]float64, len(e.recorded))
	copy(out, e.recorded)
	return out
}
