// Package logger configures the process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init builds the service logger and installs it as the global zerolog logger.
// format "console" gives human-readable output, anything else JSON.
func Init(serviceName, level, format string) zerolog.Logger {
	return InitWithWriter(os.Stdout, serviceName, level, format)
}

// InitWithWriter is Init with an explicit sink
func InitWithWriter(w io.Writer, serviceName, level, format string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	var l zerolog.Logger
	if format == "console" {
		l = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Str("service", serviceName).
			Logger()
	} else {
		l = zerolog.New(w).
			With().
			Timestamp().
			Str("service", serviceName).
			Logger()
	}
	l = l.Level(lvl)

	log.Logger = l
	return l
}

// Nop returns a disabled logger for tests and library defaults
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
