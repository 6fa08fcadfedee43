package engine

import "math"

// Hysteresis applied before a new rate is reported.
const rateChangeThreshold = 0.1

// safeDivide returns a/b, or 0 when b is zero.
func safeDivide(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// finite reports whether f is neither NaN nor ±Inf.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// significantChange reports whether next differs from prev by at least
// rateChangeThreshold relative to prev. A zero prev is always significant.
func significantChange(prev, next float64) bool {
	if prev == 0 {
		return true
	}
	return math.Abs(next-prev) >= rateChangeThreshold*math.Abs(prev)
}

// RateEstimator turns ingest timestamps into a samples-per-second estimate.
// It reports a new rate only when the single-interval rate moves by at least
// 10% from the last reported value; smaller jitter leaves the estimate alone.
//
// The zero value is usable with a seed rate of 0.
type RateEstimator struct {
	seed     float64
	rate     float64
	last     float64
	hasLast  bool
	measured bool
}

// NewRateEstimator returns an estimator reporting seedHz until the first
// measurement.
func NewRateEstimator(seedHz float64) *RateEstimator {
	return &RateEstimator{seed: seedHz, rate: seedHz}
}

// Rate returns the last reported rate in Hz.
func (e *RateEstimator) Rate() float64 {
	return e.rate
}

// Observe feeds one ingest timestamp (seconds). It returns the new rate and
// true when the change is significant enough to report.
//
// Returns (rate, false) when:
//   - this is the first timestamp since construction or Reset
//   - elapsed time is zero or negative (no rate can be derived)
//   - the instantaneous rate is within the threshold of the current one
func (e *RateEstimator) Observe(ts float64) (float64, bool) {
	prev, hadPrev := e.last, e.hasLast
	e.last = ts
	e.hasLast = true

	if !hadPrev {
		return e.rate, false
	}
	dt := ts - prev
	if dt <= 0 || !finite(dt) {
		return e.rate, false
	}
	inst := safeDivide(1, dt)
	if !finite(inst) || inst <= 0 {
		return e.rate, false
	}

	// The seed is not a measurement, so the first real one is always reported.
	if e.measured && !significantChange(e.rate, inst) {
		return e.rate, false
	}
	e.measured = true
	e.rate = inst
	return inst, true
}

// Reset forgets the previous timestamp and restores the seed rate.
func (e *RateEstimator) Reset() {
	e.rate = e.seed
	e.last = 0
	e.hasLast = false
	e.measured = false
}
