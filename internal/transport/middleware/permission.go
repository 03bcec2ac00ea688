package middleware

import (
	"net/http"

	"github.com/frahmantamala/hr-payroll/internal"
	"github.com/frahmantamala/hr-payroll/internal/auth"
	"github.com/frahmantamala/hr-payroll/pkg/logger"
)

// RequirePermission lets the request through when the token carries any of
// the given permissions. It must run after Authenticate.
func RequirePermission(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.ClaimsFromContext(r.Context())
			if !ok {
				writeAppError(w, internal.ErrInvalidToken)
				return
			}

			for _, p := range permissions {
				if claims.HasPermission(p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.From(r.Context()).Warn("access denied: insufficient permissions",
				"required_permissions", permissions,
				"user_permissions", claims.Permissions)
			writeAppError(w, internal.ErrForbidden)
		})
	}
}
