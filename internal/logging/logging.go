// Package logging configures the process-wide structured logger.
//
// Packages obtain a child logger with Component and log through it; the CLI
// calls Setup once flags and configuration are known.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Format selects the log output encoding.
type Format string

const (
	// FormatConsole writes human-readable lines.
	FormatConsole Format = "console"
	// FormatJSON writes one JSON object per line.
	FormatJSON Format = "json"
)

// Levels accepted by Setup.
var Levels = []string{"debug", "info", "warn", "error"}

// Options configures the logger.
type Options struct {
	// Level is one of Levels. Empty means "warn".
	Level string
	// Format is the output encoding. Empty means console.
	Format Format
	// NoColor disables ANSI colors in console output.
	NoColor bool
	// Writer receives log output. Nil means stderr.
	Writer io.Writer
}

var (
	mu     sync.RWMutex
	logger = newLogger(Options{})
)

func init() {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
}

// Setup replaces the process-wide logger.
func Setup(opts Options) error {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return err
	}
	if opts.Format != "" && opts.Format != FormatConsole && opts.Format != FormatJSON {
		return fmt.Errorf("unknown log format %q", opts.Format)
	}

	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(opts)
	zerolog.SetGlobalLevel(level)
	return nil
}

// ParseLevel converts a level name into a zerolog level.
func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return zerolog.WarnLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	}
	return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
}

// Component returns a logger tagged with the given component name.
func Component(name string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger.With().Str("component", name).Logger()
}

func newLogger(opts Options) zerolog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	if opts.Format == FormatJSON {
		return zerolog.New(w).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    opts.NoColor,
		TimeFormat: time.TimeOnly,
	}).With().Timestamp().Logger()
}
