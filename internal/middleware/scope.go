package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"starmap-server/internal/shared/errors"
	"starmap-server/internal/shared/response"
)

const ScopeGalaxiesWrite = "galaxies:write"

// RequireScope rejects requests whose token does not carry scope. It must run
// behind JWTMiddleware.
func RequireScope(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := slog.With(
				"middleware", "scope",
				"method", r.Method,
				"path", r.URL.Path,
				"scope", scope,
			)

			claims := GetClaimsFromContext(r)
			if claims == nil {
				response.Error(w, r, logger, errors.Unauthorized("authentication required"))
				return
			}

			if !slices.Contains(strings.Fields(claims.Scope), scope) {
				logger.Warn("Token lacks required scope", "subject", claims.Subject, "token_scope", claims.Scope)
				response.Error(w, r, logger, errors.Forbidden(scope+" scope required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
