package middleware

import (
	"net/http"

	"github.com/frahmantamala/hr-payroll/pkg/logger"
	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
)

const TraceHeader = "X-Trace-ID"

// RequestID propagates the caller's trace id, or mints one, and binds it to
// the request logger next to chi's request id.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "trace_id", traceID, "request_id", middleware.GetReqID(r.Context()))
		w.Header().Set(TraceHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
