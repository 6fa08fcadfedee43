package main

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/serialscope/internal/tui"
)

func TestRateRelay_NotifyNeverBlocks(t *testing.T) {
	r := newRateRelay(2)

	done := make(chan struct{})
	go func() {
		// Nobody is draining: every call past the buffer must still return.
		for i := 1; i <= 100; i++ {
			r.Notify(float64(i))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked with a full buffer")
	}

	// Only the newest rates survive.
	assert.Equal(t, 99.0, <-r.ch)
	assert.Equal(t, 100.0, <-r.ch)
}

func TestRateRelay_RunForwardsUntilCancelled(t *testing.T) {
	r := newRateRelay(0)
	got := make(chan tea.Msg, 4)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(ctx, func(m tea.Msg) { got <- m }) }()

	r.Notify(42)
	select {
	case m := <-got:
		assert.Equal(t, tui.RateChangedMsg{Hz: 42}, m)
	case <-time.After(2 * time.Second):
		t.Fatal("rate not forwarded")
	}

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}

func TestRateRelay_SlowViewDoesNotStallNotify(t *testing.T) {
	r := newRateRelay(1)
	release := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = r.Run(ctx, func(tea.Msg) { <-release })
	}()

	start := time.Now()
	for i := 0; i < 50; i++ {
		r.Notify(float64(i))
	}
	assert.Less(t, time.Since(start), time.Second)
	close(release)
}
