package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"starmap-server/internal/auth"
	"starmap-server/internal/shared/errors"
	"starmap-server/internal/shared/response"
)

type contextKey string

const ClaimsContextKey contextKey = "claims"

// JWTMiddleware accepts a bearer token or the auth_token cookie and stores the
// validated claims in the request context.
func JWTMiddleware(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := slog.With(
				"middleware", "jwt",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)

			token := bearerToken(r)
			if token == "" {
				response.Error(w, r, logger, errors.Unauthorized("authentication required"))
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				response.Error(w, r, logger, err)
				return
			}

			logger.Debug("JWT authentication successful", "subject", claims.Subject)
			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie("auth_token"); err == nil {
		return cookie.Value
	}
	return ""
}

func GetClaimsFromContext(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(ClaimsContextKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}
