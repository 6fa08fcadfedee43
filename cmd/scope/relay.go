package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dm/serialscope/internal/tui"
)

const rateRelayBuffer = 16

// rateRelay hands rate notifications from the ingestion goroutine to the
// view without blocking ingestion. When the view falls behind, the oldest
// pending rate is dropped in favour of the newest.
type rateRelay struct {
	ch chan float64
}

func newRateRelay(size int) *rateRelay {
	if size <= 0 {
		size = rateRelayBuffer
	}
	return &rateRelay{ch: make(chan float64, size)}
}

// Notify queues hz and never blocks.
func (r *rateRelay) Notify(hz float64) {
	for {
		select {
		case r.ch <- hz:
			return
		default:
		}
		// Full: drop the oldest and retry.
		select {
		case <-r.ch:
		default:
		}
	}
}

// Run forwards queued rates to send until ctx is done.
func (r *rateRelay) Run(ctx context.Context, send func(tea.Msg)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case hz := <-r.ch:
			send(tui.RateChangedMsg{Hz: hz})
		}
	}
}
