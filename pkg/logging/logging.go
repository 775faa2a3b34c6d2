// Package logging configures the global zerolog logger for hostscout.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// logWriter stores the current log writer globally so tests can capture
// output.
var logWriter io.Writer

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logWriter = zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
}

// Configure sets the global logging level and format. Format "json" emits
// structured JSON lines; anything else uses the console writer. Debug and
// lower levels include caller information.
func Configure(levelStr, format string) error {
	level := parseLevel(levelStr)
	zerolog.SetGlobalLevel(level)

	w := logWriter
	if strings.EqualFold(format, "json") {
		w = rawWriter()
	}

	logContext := zerolog.New(w).With().Timestamp()
	if level <= zerolog.DebugLevel {
		logContext = logContext.Caller()
	}

	log.Logger = logContext.Logger().Level(level)
	zerolog.DefaultContextLogger = &log.Logger
	return nil
}

// VerbosityLevel maps repeatable -v counts onto log levels: 0 keeps the
// configured default, 1 is debug, 2+ is trace.
func VerbosityLevel(count int, fallback string) string {
	switch {
	case count >= 2:
		return "trace"
	case count == 1:
		return "debug"
	default:
		return fallback
	}
}

// SetWriter overrides the global log writer. Tests use this to capture
// console output.
func SetWriter(w io.Writer) {
	logWriter = w
}

func rawWriter() io.Writer {
	if cw, ok := logWriter.(zerolog.ConsoleWriter); ok {
		return cw.Out
	}
	return logWriter
}

// parseLevel converts a string log level, defaulting to info on bad input
// so a typo in config never silences the tool entirely.
func parseLevel(levelStr string) zerolog.Level {
	if levelStr == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		log.Error().Err(err).Str("logLevel", levelStr).Msg("Invalid log level provided. Defaulting to info level.")
		return zerolog.InfoLevel
	}
	return level
}
