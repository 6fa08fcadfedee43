package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
)

const maxLineBytes = 64 * 1024

// LineSource reads delimiter-terminated text records from r and emits the
// first numeric field of each. Malformed records are reported on the error
// channel and skipped; blank records are skipped silently.
//
// A Read blocked in r cannot be interrupted by ctx. Callers owning the
// underlying device close it to unblock the reader.
type LineSource struct {
	r     io.Reader
	delim byte
}

// NewLineSource returns a LineSource splitting r on delim.
func NewLineSource(r io.Reader, delim byte) *LineSource {
	return &LineSource{r: r, delim: delim}
}

// Stream implements SampleSource.
func (s *LineSource) Stream(ctx context.Context) (<-chan float64, <-chan error) {
	values := make(chan float64)
	errs := make(chan error, 1)

	go func() {
		defer close(errs)
		defer close(values)

		sc := bufio.NewScanner(s.r)
		sc.Buffer(make([]byte, 0, 4096), maxLineBytes)
		sc.Split(splitOn(s.delim))

		for sc.Scan() {
			v, err := ParseValue(sc.Text())
			if err != nil {
				if errors.Is(err, ErrEmptyLine) {
					continue
				}
				if !send(ctx, errs, err) {
					return
				}
				continue
			}
			select {
			case values <- v:
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			send(ctx, errs, err)
		}
	}()

	return values, errs
}

func send(ctx context.Context, ch chan<- error, err error) bool {
	select {
	case ch <- err:
		return true
	case <-ctx.Done():
		return false
	}
}

// splitOn is bufio.ScanLines generalised to an arbitrary delimiter. A final
// record without a delimiter is still returned at EOF.
func splitOn(delim byte) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (advance int, token []byte, err error) {
		if atEOF && len(data) == 0 {
			return 0, nil, nil
		}
		if i := bytes.IndexByte(data, delim); i >= 0 {
			return i + 1, data[:i], nil
		}
		if atEOF {
			return len(data), data, nil
		}
		return 0, nil, nil
	}
}
