package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/identity/pkg/idx"
)

const (
	HeaderCorrelationID = "X-Correlation-ID"
	HeaderRequestID     = "X-Request-ID"
)

// HTTPMiddleware resolves the correlation id for the request (inbound
// X-Correlation-ID, then X-Request-ID, else a fresh ULID), echoes it back,
// attaches a contextual logger and writes one access log line per request.
func HTTPMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			corrID := r.Header.Get(HeaderCorrelationID)
			if corrID == "" {
				corrID = r.Header.Get(HeaderRequestID)
			}
			if corrID == "" {
				corrID = idx.New().String()
			}
			w.Header().Set(HeaderCorrelationID, corrID)

			logger := base.With(
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)

			ctx := WithContext(r.Context(), logger)
			ctx = WithCorrelationID(ctx, corrID)
			r = r.WithContext(ctx)

			next.ServeHTTP(rw, r)

			FromContext(ctx).Info("http_request",
				"status", rw.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"user_agent", r.UserAgent(),
			)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter

	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
