// Package logger configures the process-wide structured logger.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the shared logger; it writes JSON to stderr at info level until Init is called.
var Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// Config controls level and output format
type Config struct {
	Level      string `json:"level,omitempty"`       // debug, info, warn, error
	Format     string `json:"format,omitempty"`      // json or pretty
	TimeFormat string `json:"time_format,omitempty"` // defaults to RFC3339
}

// Init replaces Logger according to cfg. Unknown levels fall back to info.
func Init(cfg Config) {
	Logger = New(cfg, os.Stderr)
}

// New builds a logger writing to out without touching the shared one
func New(cfg Config, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = time.RFC3339
	}
	zerolog.TimeFieldFormat = timeFormat

	if cfg.Format == "pretty" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: timeFormat}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Component returns a child logger tagged with a component name
func Component(name string) *zerolog.Logger {
	l := Logger.With().Str("component", name).Logger()
	return &l
}
