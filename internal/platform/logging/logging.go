// Package logging builds the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"go.elastic.co/ecszerolog"
)

// Options selects the output format and minimum level.
type Options struct {
	Format  string // console, json or ecs
	Level   string
	Service string
}

// New returns a logger writing to stdout in the requested format.
func New(opts Options) zerolog.Logger {
	return NewWithWriter(os.Stdout, opts)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, opts Options) zerolog.Logger {
	level := ParseLevel(opts.Level)

	var logger zerolog.Logger
	switch strings.ToLower(opts.Format) {
	case "ecs":
		logger = ecszerolog.New(w, ecszerolog.Level(level))
	case "json":
		logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
	default:
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
	}

	if opts.Service != "" {
		logger = logger.With().Str("service", opts.Service).Logger()
	}
	return logger
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	if s == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
