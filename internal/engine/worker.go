package engine

import (
	"context"
	"errors"
	"log"

	"github.com/dm/serialscope/internal/source"
)

// Ingester is the write side of an Engine.
type Ingester interface {
	Ingest(value float64)
}

// Run pulls values from src and feeds them to dst until the source signals
// the end of its stream or ctx is cancelled. Cancellation is cooperative:
// Run returns within one iteration and everything already ingested stays
// buffered. Source errors are logged and never retried here.
//
// Run returns nil on a clean stop, or the last fatal error the source
// reported before ending its stream.
func Run(ctx context.Context, src source.SampleSource, dst Ingester, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}
	values, errs := src.Stream(ctx)

	var lastErr error
	for values != nil {
		select {
		case <-ctx.Done():
			return nil
		case v, ok := <-values:
			if !ok {
				values = nil
				continue
			}
			dst.Ingest(v)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			lastErr = logSourceError(logger, err)
		}
	}

	// The values channel is closed; a terminal read error may still be queued.
	if errs != nil {
		for err := range errs {
			lastErr = logSourceError(logger, err)
		}
	}
	return lastErr
}

// logSourceError logs err and returns it if it is fatal to the stream.
func logSourceError(logger *log.Logger, err error) error {
	var pe *source.ParseError
	if errors.As(err, &pe) {
		logger.Printf("source: skipping malformed sample: %v", err)
		return nil
	}
	logger.Printf("source: %v", err)
	return err
}
