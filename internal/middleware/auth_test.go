package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starmap-server/internal/auth"
)

func TestJWTMiddleware(t *testing.T) {
	tokens, err := auth.NewTokenService(strings.Repeat("m", 32), time.Hour)
	require.NoError(t, err)
	token, err := tokens.Generate("designer", "")
	require.NoError(t, err)

	var subject string
	protected := JWTMiddleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = GetClaimsFromContext(r).Subject
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/galaxies", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "designer", subject)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/galaxies", nil)
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/galaxies", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/galaxies", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
