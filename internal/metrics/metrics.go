package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	generationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "starmap_generations_total",
		Help: "Galaxy generations by result",
	}, []string{"result"})

	generationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "starmap_generation_duration_seconds",
		Help:    "Galaxy generation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	})

	regenerationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "starmap_star_regenerations_total",
		Help: "Stars rebuilt because a rule failed",
	})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "starmap_cache_lookups_total",
		Help: "Galaxy cache lookups by outcome",
	}, []string{"outcome"})
)

const (
	ResultOK           = "ok"
	ResultNotConverged = "not_converged"
	ResultError        = "error"
)

func ObserveGeneration(result string, elapsed time.Duration, regenerations int) {
	generationsTotal.WithLabelValues(result).Inc()
	generationDuration.Observe(elapsed.Seconds())
	regenerationsTotal.Add(float64(regenerations))
}

func ObserveCache(hit bool) {
	if hit {
		cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	cacheLookups.WithLabelValues("miss").Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
