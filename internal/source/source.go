// Package source supplies scalar samples to the engine: a delimiter-split
// line reader over any byte stream, a serial port opener and a synthetic
// waveform generator.
package source

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SampleSource produces an unbounded sequence of readings.
//
// Stream starts producing and returns two channels. Values are delivered on
// the first; it is closed when the stream ends (device closed, EOF, fatal
// read error or ctx done), which is the only terminal signal. The second
// carries non-fatal errors such as malformed lines, and the fatal read error
// that ended the stream, if any. It is closed after the values channel.
type SampleSource interface {
	Stream(ctx context.Context) (<-chan float64, <-chan error)
}

var (
	// ErrEmptyLine is reported for lines carrying no value.
	ErrEmptyLine = errors.New("empty line")
	// ErrNotFinite is reported for NaN and infinite readings.
	ErrNotFinite = errors.New("value is not finite")
)

// ParseError describes a line that could not be parsed as a reading.
type ParseError struct {
	Line string
	Err  error
}

func (e *ParseError) Error() string {
	line := e.Line
	if len(line) > 40 {
		line = line[:40] + "..."
	}
	return fmt.Sprintf("parse %q: %v", line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseValue extracts the first numeric field of a line. Fields may be
// separated by commas, semicolons, tabs or spaces; surrounding whitespace
// and a trailing carriage return are ignored.
func ParseValue(line string) (float64, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return 0, &ParseError{Line: line, Err: ErrEmptyLine}
	}
	field := trimmed
	if i := strings.IndexAny(trimmed, ",; \t"); i >= 0 {
		field = trimmed[:i]
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, &ParseError{Line: line, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ParseError{Line: line, Err: ErrNotFinite}
	}
	return v, nil
}
