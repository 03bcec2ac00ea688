package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/hr-payroll/internal"
	"github.com/frahmantamala/hr-payroll/internal/auth"
	"github.com/frahmantamala/hr-payroll/internal/transport"
	"github.com/frahmantamala/hr-payroll/pkg/logger"
)

// Authenticate validates the bearer token and puts its claims, the user id
// and a user scoped logger on the request context.
func Authenticate(validator auth.TokenValidator, lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := transport.ExtractTokenFromHeader(r)
			if token == "" {
				lg.Warn("auth middleware: missing authorization token", "path", r.URL.Path)
				writeAppError(w, internal.ErrInvalidToken)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				lg.Warn("auth middleware: token validation failed", "error", err)
				writeAppError(w, internal.ErrInvalidToken)
				return
			}

			ctx := auth.ContextWithClaims(r.Context(), claims)
			ctx = internal.ContextWithUserID(ctx, claims.UserID)
			ctx = logger.With(ctx, "user_id", claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAppError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
