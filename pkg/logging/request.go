package logging

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ForRequest derives a per-request logger carrying a request_id (minted via
// google/uuid, the same correlation-id pattern as the toolkit's
// ObservabilityMiddleware) and the matched route pattern.
func ForRequest(base zerolog.Logger, route string) zerolog.Logger {
	return base.With().
		Str("request_id", uuid.NewString()).
		Str("route", route).
		Logger()
}

// ScriptLogger adapts a zerolog.Logger to rjs.HostLogger so the
// print() built-in writes through the same request-scoped logger, tagged
// component=rjs.
type ScriptLogger struct {
	logger zerolog.Logger
}

// NewScriptLogger wraps logger for use as an rjs.HostLogger.
func NewScriptLogger(logger zerolog.Logger) ScriptLogger {
	return ScriptLogger{logger: logger}
}

// Info implements rjs.HostLogger.
func (s ScriptLogger) Info(msg string) {
	s.logger.Info().Str("component", "rjs").Msg(msg)
}
