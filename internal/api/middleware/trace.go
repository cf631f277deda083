// Package middleware holds HTTP middleware shared by all routes.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/janus/internal/api/shared"
	"github.com/phrazzld/janus/internal/platform/logger"
)

// TraceIDHeader carries the trace ID in requests and responses.
const TraceIDHeader = "X-Request-ID"

// Trace assigns each request a trace ID, taken from TraceIDHeader when the
// client sent one, echoes it back and stores a logger tagged with it in the
// request context. Apply it before any handler that logs.
func Trace(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.WithTraceID(r.Context(), r.Header.Get(TraceIDHeader))
			traceID := shared.GetTraceID(ctx)

			log := base.With(slog.String("trace_id", traceID))
			ctx = logger.WithLogger(ctx, log)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			w.Header().Set(TraceIDHeader, traceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
