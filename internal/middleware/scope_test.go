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

func TestRequireScope(t *testing.T) {
	tokens, err := auth.NewTokenService(strings.Repeat("s", 32), time.Hour)
	require.NoError(t, err)

	handler := JWTMiddleware(tokens)(RequireScope(ScopeGalaxiesWrite)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	))

	tests := map[string]struct {
		scope string
		code  int
	}{
		"granted":       {"galaxies:read galaxies:write", http.StatusOK},
		"missing scope": {"galaxies:read", http.StatusForbidden},
		"no scope":      {"", http.StatusForbidden},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			token, err := tokens.Generate("designer", tt.scope)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodDelete, "/api/galaxies/x", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
