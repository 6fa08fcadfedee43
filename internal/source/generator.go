package source

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

// Waveform names a synthetic signal shape.
type Waveform string

const (
	WaveSine   Waveform = "sine"
	WaveSquare Waveform = "square"
	WaveRamp   Waveform = "ramp"
)

// ParseWaveform accepts "sine", "square" or "ramp" (case-insensitive).
func ParseWaveform(s string) (Waveform, error) {
	switch w := Waveform(strings.ToLower(strings.TrimSpace(s))); w {
	case WaveSine, WaveSquare, WaveRamp:
		return w, nil
	default:
		return "", fmt.Errorf("unknown waveform %q (must be sine, square or ramp)", s)
	}
}

// Generator emits a synthetic waveform at a fixed rate. It stands in for a
// device when none is attached.
type Generator struct {
	RateHz    float64       // samples per second; must be positive
	Waveform  Waveform      // defaults to WaveSine
	Period    time.Duration // signal period; defaults to 1s
	Amplitude float64       // peak value; defaults to 1
	Limit     int           // stop after this many samples; 0 means unbounded
}

// Value returns the waveform value at t seconds.
func (g *Generator) Value(t float64) float64 {
	amp := g.Amplitude
	if amp == 0 {
		amp = 1
	}
	period := g.Period.Seconds()
	if period <= 0 {
		period = 1
	}
	phase := math.Mod(t, period) / period
	switch g.Waveform {
	case WaveSquare:
		if phase < 0.5 {
			return amp
		}
		return -amp
	case WaveRamp:
		return amp * (2*phase - 1)
	default:
		return amp * math.Sin(2*math.Pi*phase)
	}
}

// Stream implements SampleSource. The values channel closes after Limit
// samples or when ctx is done.
func (g *Generator) Stream(ctx context.Context) (<-chan float64, <-chan error) {
	values := make(chan float64)
	errs := make(chan error, 1)

	if g.RateHz <= 0 || math.IsInf(g.RateHz, 0) || math.IsNaN(g.RateHz) {
		errs <- fmt.Errorf("generator rate must be positive, got %v", g.RateHz)
		close(values)
		close(errs)
		return values, errs
	}

	go func() {
		defer close(errs)
		defer close(values)

		interval := time.Duration(float64(time.Second) / g.RateHz)
		ticker := time.NewTicker(max(interval, time.Microsecond))
		defer ticker.Stop()

		for i := 0; g.Limit <= 0 || i < g.Limit; i++ {
			select {
			case values <- g.Value(float64(i) / g.RateHz):
			case <-ctx.Done():
				return
			}
			if g.Limit > 0 && i == g.Limit-1 {
				return
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return values, errs
}
