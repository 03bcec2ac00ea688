package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/hr-payroll/internal"
	"github.com/frahmantamala/hr-payroll/pkg/logger"
)

// RecoveryMiddleware turns a handler panic into a 500 error envelope.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.From(r.Context()).Error("panic recovered",
					"error", rec,
					"method", r.Method,
					"url", r.URL.String(),
					"stack", string(debug.Stack()))

				writeAppError(w, internal.NewInternalError("internal server error", fmt.Errorf("panic: %v", rec)))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
