package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"starmap-server/internal/shared/response"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Cache     string `json:"cache"`
}

// Pinger is satisfied by the database and the Redis client.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

// NewHealthHandler takes the database and an optional cache; a nil cache is
// reported as "memory".
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "connected"
	if err := h.db.PingContext(ctx); err != nil {
		logger.Warn("Database ping failed", "error", err)
		dbStatus = "disconnected"
	}

	cacheStatus := "memory"
	if h.cache != nil {
		cacheStatus = "connected"
		if err := h.cache.PingContext(ctx); err != nil {
			logger.Warn("Cache ping failed", "error", err)
			cacheStatus = "disconnected"
		}
	}

	status, code := "healthy", http.StatusOK
	if dbStatus != "connected" {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	resp := HealthResponse{
		Status:    status,
		Timestamp: time.Now().Format(time.RFC3339),
		Database:  dbStatus,
		Cache:     cacheStatus,
	}
	response.Success(w, code, resp)
}
