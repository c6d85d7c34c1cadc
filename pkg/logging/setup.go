// Package logging configures the process-wide zerolog logger and derives
// per-request loggers carrying correlation ids, grounded on the toolkit's
// pkg/logger.Configure (spec §10.1).
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Configure builds the global logger from RJSERVER_LOG. pretty selects a
// human-readable console writer instead of compact JSON, for local `serve`
// runs against a terminal.
func Configure(level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	var output io.Writer = os.Stdout
	if pretty {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
