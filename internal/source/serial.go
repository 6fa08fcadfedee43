package source

import (
	"fmt"
	"io"

	"github.com/tarm/serial"
)

const defaultBaud = 9600

// SerialConfig holds the settings needed to open a serial device.
type SerialConfig struct {
	Device string
	Baud   int
}

// OpenSerial opens the configured device for blocking reads. Baud defaults
// to 9600. No read timeout is set: with one, a quiet line reads as EOF and
// would end the stream.
func OpenSerial(cfg SerialConfig) (io.ReadCloser, error) {
	if cfg.Device == "" {
		return nil, fmt.Errorf("serial device is required")
	}
	if cfg.Baud <= 0 {
		cfg.Baud = defaultBaud
	}
	port, err := serial.OpenPort(&serial.Config{
		Name: cfg.Device,
		Baud: cfg.Baud,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %q: %w", cfg.Device, err)
	}
	return port, nil
}
