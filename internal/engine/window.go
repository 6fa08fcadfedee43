package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/dm/serialscope/internal/model"
)

var (
	// ErrUnsupportedWindow is returned when a window needs more samples than
	// the ring buffer can hold.
	ErrUnsupportedWindow = errors.New("unsupported window")
	// ErrInvalidDuration is returned for negative, NaN or infinite durations.
	ErrInvalidDuration = errors.New("invalid window duration")
)

// requiredSamples returns round(duration*rate) + 1. The extra sample makes
// the window inclusive of both endpoints: 3 s at 1 Hz spans x = -3..0.
func requiredSamples(duration, rate float64) (int, error) {
	if duration < 0 || !finite(duration) {
		return 0, fmt.Errorf("%w: %v s", ErrInvalidDuration, duration)
	}
	span := math.Round(duration * rate)
	if !finite(span) || span < 0 {
		return 0, fmt.Errorf("%w: %v s at %v Hz", ErrInvalidDuration, duration, rate)
	}
	if span >= math.MaxInt32 {
		return 0, fmt.Errorf("%w: %v s at %v Hz", ErrUnsupportedWindow, duration, rate)
	}
	return int(span) + 1, nil
}

// extractWindow projects the retained samples onto n plot points, oldest
// first, with the newest sample at x = 0. samples must be the most recent
// min(n, retained) samples in chronological order.
//
// When fewer than n samples exist the gap before the earliest sample is
// filled with placeholders spaced by the observed mean interval (or 1/rate
// when that cannot be measured). Placeholders reuse the oldest real values
// in order, cycling if the gap is longer than the history; with no history
// at all they carry zero.
func extractWindow(samples []model.Sample, n int, rate float64) []model.Point {
	if n <= 0 {
		return []model.Point{}
	}
	if len(samples) > n {
		samples = samples[len(samples)-n:]
	}
	out := make([]model.Point, n)
	k := len(samples)

	if k == n {
		newest := samples[k-1].Timestamp
		for i, s := range samples {
			out[i] = model.Point{X: s.Timestamp - newest, Y: s.Value}
		}
		return out
	}

	dt := meanInterval(samples)
	if dt <= 0 {
		dt = safeDivide(1, rate)
	}
	if dt <= 0 || !finite(dt) {
		dt = 1
	}

	if k == 0 {
		for i := range out {
			out[i] = model.Point{X: -float64(n-1-i) * dt}
		}
		return out
	}

	shortfall := n - k
	earliest := samples[0].Timestamp
	newest := samples[k-1].Timestamp
	for i := 0; i < shortfall; i++ {
		ts := earliest - float64(shortfall-i)*dt
		out[i] = model.Point{X: ts - newest, Y: samples[i%k].Value}
	}
	for i, s := range samples {
		out[shortfall+i] = model.Point{X: s.Timestamp - newest, Y: s.Value}
	}
	return out
}

// meanInterval returns the mean spacing between consecutive samples with a
// non-zero timestamp, or 0 when it cannot be measured (fewer than two such
// samples, or no forward progress). A zero timestamp marks a sample taken
// at the clock origin and carries no spacing information.
func meanInterval(samples []model.Sample) float64 {
	first := 0
	for first < len(samples) && samples[first].Timestamp == 0 {
		first++
	}
	valid := samples[first:]
	if len(valid) < 2 {
		return 0
	}
	span := valid[len(valid)-1].Timestamp - valid[0].Timestamp
	dt := safeDivide(span, float64(len(valid)-1))
	if dt <= 0 || !finite(dt) {
		return 0
	}
	return dt
}
