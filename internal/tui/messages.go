package tui

import "time"

// TickMsg triggers the next scheduled redraw.
type TickMsg time.Time

// RateChangedMsg delivers a significant sample-rate change from the engine.
type RateChangedMsg struct{ Hz float64 }

// SourceDoneMsg signals that the ingestion worker has stopped. Err is the
// fatal source error, if any.
type SourceDoneMsg struct{ Err error }
