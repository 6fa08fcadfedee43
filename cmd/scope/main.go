package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dm/serialscope/internal/config"
	"github.com/dm/serialscope/internal/engine"
	"github.com/dm/serialscope/internal/source"
	"github.com/dm/serialscope/internal/tui"
)

const defaultDemoRate = 50.0

// cliFlags holds the parsed command line. set records which flags were
// given explicitly, so only those override the loaded configuration.
type cliFlags struct {
	configPath string
	device     string
	demo       string
	demoRate   float64

	baud      int
	delimiter string
	capacity  int
	rate      float64
	duration  float64
	refresh   time.Duration
	logFile   string

	set map[string]bool
}

// parseFlags parses args (without the program name). Usage goes to stderr.
func parseFlags(args []string, stderr io.Writer) (*cliFlags, error) {
	f := &cliFlags{set: make(map[string]bool)}
	defaults := config.Default()

	fs := flag.NewFlagSet("scope", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.configPath, "config", "", "YAML configuration file")
	fs.IntVar(&f.baud, "baud", defaults.Serial.Baud, "serial baud rate")
	fs.StringVar(&f.delimiter, "delimiter", defaults.Serial.Delimiter, `record delimiter (single byte or \n, \r, \t, \0)`)
	fs.IntVar(&f.capacity, "capacity", defaults.Engine.Capacity, "ring buffer capacity in samples")
	fs.Float64Var(&f.rate, "rate", defaults.Engine.InitialRateHz, "assumed sample rate in Hz until one is measured")
	fs.Float64Var(&f.duration, "duration", defaults.Display.DurationSec, "initial window length in seconds")
	fs.DurationVar(&f.refresh, "refresh", defaults.Display.Refresh, "redraw interval (e.g. 100ms)")
	fs.StringVar(&f.logFile, "log-file", "", "log file (default scope.log in the temp directory)")
	fs.StringVar(&f.demo, "demo", "", "use a synthetic waveform instead of a device: sine, square or ramp")
	fs.Float64Var(&f.demoRate, "demo-rate", defaultDemoRate, "synthetic sample rate in Hz")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: scope [flags] [device]\n\n")
		fmt.Fprintf(stderr, "examples:\n")
		fmt.Fprintf(stderr, "  scope /dev/ttyUSB0\n")
		fmt.Fprintf(stderr, "  scope --baud 115200 --duration 30 /dev/ttyACM0\n")
		fmt.Fprintf(stderr, "  scope --demo sine --demo-rate 200\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })

	rest := fs.Args()
	// flag.Parse stops at the first non-flag argument, so trailing --flags
	// would otherwise be silently ignored.
	if len(rest) > 1 {
		extra := rest[1]
		if len(extra) > 1 && extra[0] == '-' {
			return nil, fmt.Errorf("flag %q must be placed before the device", extra)
		}
		return nil, fmt.Errorf("unexpected argument %q", extra)
	}
	if len(rest) == 1 {
		f.device = rest[0]
	}
	if f.demo != "" && f.device != "" {
		return nil, errors.New("--demo and a device are mutually exclusive")
	}
	if f.set["demo-rate"] && !(f.demoRate > 0) {
		return nil, fmt.Errorf("--demo-rate must be positive, got %v", f.demoRate)
	}
	return f, nil
}

// apply overlays the explicitly given flags on cfg and revalidates it.
func (f *cliFlags) apply(cfg *config.Config) error {
	if f.device != "" {
		cfg.Serial.Device = f.device
	}
	if f.set["baud"] {
		cfg.Serial.Baud = f.baud
	}
	if f.set["delimiter"] {
		cfg.Serial.Delimiter = f.delimiter
	}
	if f.set["capacity"] {
		cfg.Engine.Capacity = f.capacity
	}
	if f.set["rate"] {
		cfg.Engine.InitialRateHz = f.rate
	}
	if f.set["duration"] {
		cfg.Display.DurationSec = f.duration
	}
	if f.set["refresh"] {
		cfg.Display.Refresh = f.refresh
	}
	if f.set["log-file"] {
		cfg.Log.File = f.logFile
	}
	if f.demo == "" && cfg.Serial.Device == "" {
		return errors.New("serial device is required (or use --demo)")
	}
	return cfg.Validate()
}

// newLogWriter returns the rotating log file writer. The terminal view owns
// stdout, so nothing is logged there.
func newLogWriter(cfg config.LogConfig) *lumberjack.Logger {
	name := cfg.File
	if name == "" {
		name = filepath.Join(os.TempDir(), "scope.log")
	}
	return &lumberjack.Logger{
		Filename:   name,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}
}

// openSource builds the sample source. The returned closer releases the
// device and is nil for the generator.
func openSource(f *cliFlags, cfg *config.Config) (source.SampleSource, io.Closer, error) {
	if f.demo != "" {
		wave, err := source.ParseWaveform(f.demo)
		if err != nil {
			return nil, nil, err
		}
		return &source.Generator{
			RateHz:    f.demoRate,
			Waveform:  wave,
			Period:    2 * time.Second,
			Amplitude: 1,
		}, nil, nil
	}

	delim, err := config.ParseDelimiter(cfg.Serial.Delimiter)
	if err != nil {
		return nil, nil, err
	}
	port, err := source.OpenSerial(source.SerialConfig{
		Device: cfg.Serial.Device,
		Baud:   cfg.Serial.Baud,
	})
	if err != nil {
		return nil, nil, err
	}
	return source.NewLineSource(port, delim), port, nil
}

func run(args []string) error {
	f, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	if err := f.apply(cfg); err != nil {
		return err
	}

	logWriter := newLogWriter(cfg.Log)
	defer logWriter.Close()
	logger := log.New(logWriter, "", log.LstdFlags)

	src, closer, err := openSource(f, cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	rates := newRateRelay(rateRelayBuffer)
	eng, err := engine.New(engine.Options{
		Capacity:      cfg.Engine.Capacity,
		InitialRateHz: cfg.Engine.InitialRateHz,
		OnRateChange: func(hz float64) {
			logger.Printf("rate: %.3f Hz", hz)
			rates.Notify(hz)
		},
	})
	if err != nil {
		return err
	}

	app := tui.NewApp(eng, cfg.Serial.Device, cfg.Display.DurationSec, cfg.Display.Refresh)
	prog := tea.NewProgram(app, tea.WithAltScreen())

	logger.Printf("scope: starting (device=%q capacity=%d rate=%v Hz)", cfg.Serial.Device, cfg.Engine.Capacity, cfg.Engine.InitialRateHz)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := engine.Run(gctx, src, eng, logger)
		prog.Send(tui.SourceDoneMsg{Err: err})
		return err
	})
	g.Go(func() error {
		return rates.Run(gctx, prog.Send)
	})
	g.Go(func() error {
		// Leaving the view stops ingestion.
		defer cancel()
		_, err := prog.Run()
		return err
	})

	err = g.Wait()
	logger.Printf("scope: stopped after %d samples", eng.Stats().TotalWritten)
	return err
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
