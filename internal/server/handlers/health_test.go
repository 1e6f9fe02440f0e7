package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func ok(context.Context) error { return nil }

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		db     Pinger
		cache  Pinger
		code   int
		status string
		cached string
	}{
		{"healthy with memory cache", pingFunc(ok), nil, http.StatusOK, "healthy", "memory"},
		{"healthy with redis", pingFunc(ok), pingFunc(ok), http.StatusOK, "healthy", "connected"},
		{"database down", pingFunc(func(context.Context) error { return fmt.Errorf("refused") }), nil, http.StatusServiceUnavailable, "degraded", "memory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHealthHandler(tt.db, tt.cache).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/server/health", nil))

			assert.Equal(t, tt.code, rec.Code)
			var body HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, tt.cached, body.Cache)
		})
	}
}
