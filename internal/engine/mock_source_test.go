package engine

import (
	"context"
	"errors"
	"sync"
)

// MockSource implements source.SampleSource for testing.
type MockSource struct {
	StreamFn func(ctx context.Context) (<-chan float64, <-chan error)
}

func (m *MockSource) Stream(ctx context.Context) (<-chan float64, <-chan error) {
	if m.StreamFn != nil {
		return m.StreamFn(ctx)
	}
	values := make(chan float64)
	errs := make(chan error)
	close(values)
	close(errs)
	return values, errs
}

// finiteSource returns a MockSource that emits values then errs in order and
// ends the stream.
func finiteSource(values []float64, errs ...error) *MockSource {
	return &MockSource{StreamFn: func(ctx context.Context) (<-chan float64, <-chan error) {
		vch := make(chan float64)
		ech := make(chan error, len(errs))
		go func() {
			defer close(ech)
			defer close(vch)
			for _, v := range values {
				select {
				case vch <- v:
				case <-ctx.Done():
					return
				}
			}
			for _, err := range errs {
				ech <- err
			}
		}()
		return vch, ech
	}}
}

// endlessSource returns a MockSource that never ends on its own.
func endlessSource() *MockSource {
	return &MockSource{StreamFn: func(ctx context.Context) (<-chan float64, <-chan error) {
		vch := make(chan float64)
		ech := make(chan error)
		go func() {
			defer close(ech)
			defer close(vch)
			for i := 0; ; i++ {
				select {
				case vch <- float64(i):
				case <-ctx.Done():
					return
				}
			}
		}()
		return vch, ech
	}}
}

// collectingIngester records every ingested value.
type collectingIngester struct {
	mu     sync.Mutex
	values []float64
}

func (c *collectingIngester) Ingest(v float64) {
	c.mu.Lock()
	c.values = append(c.values, v)
	c.mu.Unlock()
}

func (c *collectingIngester) Values() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]float64, len(c.values))
	copy(out, c.values)
	return out
}

var errMockFailure = errors.New("mock failure")
