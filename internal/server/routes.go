package server

import (
	"log/slog"
	"net/http"

	"starmap-server/internal/auth"
	"starmap-server/internal/galaxy"
	galaxyHandlers "starmap-server/internal/galaxy/handlers"
	"starmap-server/internal/metrics"
	"starmap-server/internal/middleware"
	serverHandlers "starmap-server/internal/server/handlers"
)

type Routes struct {
	health        *serverHandlers.HealthHandler
	galaxyService *galaxy.Service
	tokens        *auth.TokenService
	logger        *slog.Logger
}

func NewRoutes(health *serverHandlers.HealthHandler, galaxyService *galaxy.Service, tokens *auth.TokenService, logger *slog.Logger) *Routes {
	return &Routes{
		health:        health,
		galaxyService: galaxyService,
		tokens:        tokens,
		logger:        logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	galaxyHandler := galaxyHandlers.NewGalaxyHandler(r.galaxyService, r.logger)
	requireAuth := middleware.JWTMiddleware(r.tokens)
	requireWrite := func(h http.HandlerFunc) http.Handler {
		return requireAuth(middleware.RequireScope(middleware.ScopeGalaxiesWrite)(h))
	}

	// Public endpoints
	mux.Handle("GET /api/server/health", r.health)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("POST /api/galaxies/generate", galaxyHandler.Generate)
	mux.HandleFunc("GET /api/stars/{seed}", galaxyHandler.Star)
	mux.HandleFunc("GET /api/galaxies/{id}", galaxyHandler.Get)

	// Protected endpoints
	mux.Handle("POST /api/galaxies", requireWrite(galaxyHandler.Create))
	mux.Handle("DELETE /api/galaxies/{id}", requireWrite(galaxyHandler.Delete))

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/metrics", "/api/galaxies/generate", "/api/stars/{seed}", "/api/galaxies/{id}"},
		"protected_endpoints", []string{"POST /api/galaxies", "DELETE /api/galaxies/{id}"},
	)

	return mux
}
