package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveGeneration(t *testing.T) {
	before := testutil.ToFloat64(generationsTotal.WithLabelValues(ResultOK))
	regen := testutil.ToFloat64(regenerationsTotal)

	ObserveGeneration(ResultOK, 20*time.Millisecond, 3)

	assert.Equal(t, before+1, testutil.ToFloat64(generationsTotal.WithLabelValues(ResultOK)))
	assert.Equal(t, regen+3, testutil.ToFloat64(regenerationsTotal))
}

func TestHandlerExposesMetrics(t *testing.T) {
	ObserveCache(true)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "starmap_cache_lookups_total")
}
