package middleware

import (
	"net/http"
	"time"

	"github.com/frahmantamala/hr-payroll/pkg/logger"
	"github.com/go-chi/chi/middleware"
)

// LoggingMiddleware logs one line per request with status and latency.
// Bodies are not logged.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		log := logger.From(r.Context())
		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"status_code", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"response_size", ww.BytesWritten(),
			"remote_addr", r.RemoteAddr,
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request completed", attrs...)
		case status >= http.StatusBadRequest:
			log.Warn("request completed", attrs...)
		default:
			log.Info("request completed", attrs...)
		}
	})
}
