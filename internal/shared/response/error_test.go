package response

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starmap-server/internal/shared/errors"
)

func TestErrorMapsTypeToStatus(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tests := []struct {
		err  error
		code int
	}{
		{errors.Validation("bad seed"), http.StatusBadRequest},
		{errors.NotFoundf("galaxy %s not found", "x"), http.StatusNotFound},
		{errors.Unauthorized("no token"), http.StatusUnauthorized},
		{errors.WrapUnprocessable("rules", fmt.Errorf("stuck")), http.StatusUnprocessableEntity},
		{errors.MethodNotAllowed(http.MethodPut), http.StatusMethodNotAllowed},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/galaxies/x", nil)
			Error(rec, req, logger, tt.err)

			assert.Equal(t, tt.code, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.err.Error(), body.Message)
		})
	}
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusCreated, map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"abc"}`, rec.Body.String())
}
