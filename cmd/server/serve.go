package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"nutrition-coach/internal/analytics"
	"nutrition-coach/internal/auth"
	"nutrition-coach/internal/cache"
	"nutrition-coach/internal/database"
	"nutrition-coach/internal/handlers"
	"nutrition-coach/internal/services"
	"nutrition-coach/internal/websocket"
	"nutrition-coach/pkg/logger"

	gfshutdown "github.com/gelmium/graceful-shutdown"
)

const cachePrefix = "coach:"

func runServe(ctx context.Context) error {
	ctx = contextOrBackground(ctx)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return fmt.Errorf("migration failed: %w", err)
	}

	// Services
	authService := auth.NewService(cfg.JWT)
	loc := cfg.Analytics.Location
	analyticsService := analytics.NewService(db, loc)
	weightService := services.NewWeightService(db, loc)
	sleepService := services.NewSleepService(db, loc)

	var redisCache *cache.Cache
	if cfg.Redis.URL != "" {
		redisCache, err = cache.NewFromURL(ctx, cfg.Redis.URL, cachePrefix, cfg.Redis.TTL)
		if err != nil {
			logger.Error("Redis unavailable, analytics cache disabled: %v", err)
		} else {
			analyticsService.WithCache(redisCache)
			logger.Info("Analytics cache enabled (ttl %s)", cfg.Redis.TTL)
		}
	}

	// Chat
	registry := websocket.NewRegistry()
	gateway := websocket.NewGateway(registry, websocket.NewBroadcaster(registry), cfg.Server.AllowedOrigins)

	health := handlers.NewHealthHandlers(db, registry)
	if redisCache != nil {
		health.WithCache(redisCache)
	}

	router := &handlers.Router{
		Analytics: handlers.NewAnalyticsHandlers(analyticsService, authService),
		Weight:    handlers.NewWeightHandlers(analyticsService, weightService),
		Sleep:     handlers.NewSleepHandlers(analyticsService, sleepService),
		Health:    health,
		WebSocket: gateway,
	}

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Info("🚀 Server started on http://localhost%s", cfg.Server.Port)
	logger.Info("📡 WebSocket endpoint: ws://localhost%s/ws", cfg.Server.Port)
	printAPIEndpoints()

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server error: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.Server.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"coach": func(ctx context.Context) error {
				logger.Info("Server shutting down...")
				gateway.Shutdown()
				err := server.Shutdown(ctx)
				if redisCache != nil {
					stats := redisCache.Stats()
					logger.Info("Cache stats: %d hits, %d misses", stats.Hits, stats.Misses)
					err = errors.Join(err, redisCache.Close())
				}
				return errors.Join(err, db.Close())
			},
		},
	)

	exitCode := <-wait
	logger.Info("Server exited with code %d", exitCode)
	os.Exit(exitCode)
	return nil
}

func printAPIEndpoints() {
	logger.Info("🔗 API endpoints:")
	for _, endpoint := range handlers.Endpoints {
		logger.Info("   %s", endpoint)
	}
}
