package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"starmap-server/internal/auth"
	"starmap-server/internal/galaxy"
	"starmap-server/internal/middleware"
	"starmap-server/internal/server"
	serverHandlers "starmap-server/internal/server/handlers"
	"starmap-server/internal/shared/config"
	"starmap-server/internal/shared/database"
	"starmap-server/internal/shared/logger"
	"starmap-server/internal/shared/redis"
	"starmap-server/internal/worldgen"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.Init(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}
	logger.Init()
	cfg := config.GlobalConfig
	log := slog.With("component", "main")

	db, err := database.Connect()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	redisClient, err := redis.Connect()
	if err != nil {
		return err
	}
	defer redisClient.Close()

	catalog := worldgen.DefaultThemeCatalog()
	if cfg.Generation.ThemeCatalogPath != "" {
		if catalog, err = worldgen.LoadThemeCatalogFile(cfg.Generation.ThemeCatalogPath); err != nil {
			return fmt.Errorf("failed to load theme catalog: %w", err)
		}
		log.Info("Loaded theme catalog", "path", cfg.Generation.ThemeCatalogPath, "themes", catalog.Len())
	}

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiration)
	if err != nil {
		return err
	}

	galaxyService := galaxy.NewService(
		galaxy.NewRepository(db),
		galaxy.NewCache(redisClient, cfg.Generation.CacheTTL),
		catalog,
		cfg.Generation,
		slog.Default(),
	)

	var cachePinger serverHandlers.Pinger
	if redisClient != nil {
		cachePinger = redisClient
	}
	health := serverHandlers.NewHealthHandler(db, cachePinger)
	mux := server.NewRoutes(health, galaxyService, tokens, slog.Default()).Setup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewRateLimiter(cfg.RateLimit)
	go limiter.Run(ctx, time.Minute)

	cors := middleware.NewCORS(cfg.Frontend)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      cors.Middleware(limiter.Middleware(mux)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
