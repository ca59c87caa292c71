package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the process-wide root logger. It starts as a no-op so library
// code can log unconditionally; Setup replaces it once the CLI has parsed
// its flags.
var Logger = zerolog.Nop()

// Setup builds the root logger. level is one of debug, info, warn, error;
// anything unrecognized falls back to info. JSON output goes straight to
// out, console output is rendered through zerolog's ConsoleWriter. A nil
// out means stderr — stdout stays clean in case the producer ever runs the
// scheduler over a pipe instead of a socket.
func Setup(level string, json bool, out io.Writer) {
	if out == nil {
		out = os.Stderr
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	w := out
	if !json {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	Logger = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Component derives a child logger tagged with the subsystem name. Every
// long-lived goroutine holds one so lines can be traced to their origin.
func Component(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}

// ForTick scopes a logger to one virtual-time tick.
func ForTick(logger zerolog.Logger, vtime int) zerolog.Logger {
	return logger.With().Int("vtime", vtime).Logger()
}

// EventRejected records one event-level failure. These are warnings by
// contract: a rejected event never aborts its batch, so the line carries
// enough context (tick, position, action) to replay the failure from the
// producer's event log.
func EventRejected(logger zerolog.Logger, vtime, index int, action string, err error) {
	logger.Warn().
		Err(err).
		Int("vtime", vtime).
		Int("index", index).
		Str("action", action).
		Msg("event rejected")
}
