package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	HeaderCorrelationID = "x-correlation-id"
	HeaderLatency       = "x-latency-ms"
)

type correlationIDKey struct{}

// CorrelationID returns the correlation id observabilityMiddleware stamped
// onto ctx, or "" if none was attached (ctx not derived from a request that
// passed through the middleware).
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

// timedResponseWriter tracks what a handler actually sent — status, byte
// count, and the latency at the moment headers went out — so the
// observability middleware can report on it after ServeHTTP returns.
type timedResponseWriter struct {
	http.ResponseWriter
	started      time.Time
	status       int
	bytesWritten int
	headerSent   bool
}

func (w *timedResponseWriter) WriteHeader(code int) {
	if w.headerSent {
		return
	}
	w.headerSent = true
	w.status = code
	w.Header().Set(HeaderLatency, fmt.Sprintf("%d", time.Since(w.started).Milliseconds()))
	w.ResponseWriter.WriteHeader(code)
}

func (w *timedResponseWriter) Write(b []byte) (int, error) {
	if !w.headerSent {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += n
	return n, err
}

// observabilityMiddleware stamps every request with a correlation id (the
// incoming header value if the client supplied one, else a fresh uuid),
// makes it available to handlers via CorrelationID and a request-scoped
// zerolog.Logger in the context, and logs one completion line per request
// once the handler chain returns.
func observabilityMiddleware(base zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		corrID := r.Header.Get(HeaderCorrelationID)
		if corrID == "" {
			corrID = uuid.NewString()
		}
		w.Header().Set(HeaderCorrelationID, corrID)

		logger := base.With().Str("correlation_id", corrID).Logger()
		ctx := context.WithValue(r.Context(), correlationIDKey{}, corrID)
		ctx = logger.WithContext(ctx)

		tw := &timedResponseWriter{ResponseWriter: w, started: start, status: http.StatusOK}
		next.ServeHTTP(tw, r.WithContext(ctx))

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", tw.status).
			Int("bytes", tw.bytesWritten).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Msg("request completed")
	})
}
