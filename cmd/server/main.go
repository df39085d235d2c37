package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/anirudhv/boardsync/internal/config"
	"github.com/anirudhv/boardsync/internal/database"
	"github.com/anirudhv/boardsync/internal/events"
	"github.com/anirudhv/boardsync/internal/handlers"
	"github.com/anirudhv/boardsync/internal/logging"
	"github.com/anirudhv/boardsync/internal/repositories"
	"github.com/anirudhv/boardsync/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Init(cfg.LogLevel)

	// Initialize database connections
	postgresPool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Log.Fatal().Err(err).Msg("failed to create postgres pool")
	}
	defer postgresPool.Close()

	redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logging.Log.Fatal().Err(err).Msg("failed to create redis client")
	}
	defer redisClient.Close()

	// Repositories
	userRepo := repositories.NewPostgresUserRepository(postgresPool)
	categoryRepo := repositories.NewPostgresCategoryRepository(postgresPool)
	labelRepo := repositories.NewPostgresLabelRepository(postgresPool)
	presetRepo := repositories.NewPostgresFilterPresetRepository(postgresPool)
	taskRepo := repositories.NewPostgresTaskRepository(postgresPool)
	notificationRepo := repositories.NewPostgresNotificationRepository(postgresPool)
	settingsRepo := repositories.NewPostgresSettingsRepository(postgresPool)
	sessionRepo := repositories.NewRedisSessionRepository(redisClient)
	presenceRepo := repositories.NewRedisPresenceRepository(redisClient)
	summaryMarks := repositories.NewRedisSummaryMarkRepository(redisClient)

	// One bus for the process lifetime; every open stream subscribes to it.
	bus := events.NewBus()
	publisher := services.NewSyncPublisher(bus)

	authService := services.NewAuthService(userRepo, sessionRepo, cfg.JWTSecret, cfg.JWTExpiry)
	notificationService := services.NewNotificationService(
		userRepo, taskRepo, notificationRepo, settingsRepo, summaryMarks, publisher,
	)

	handler := &handlers.Handler{
		Auth:          authService,
		Notifications: notificationService,
		Publisher:     publisher,
		Categories:    categoryRepo,
		Labels:        labelRepo,
		FilterPresets: presetRepo,
		Tasks:         taskRepo,
		NotifRepo:     notificationRepo,
		Settings:      settingsRepo,
		Sessions:      sessionRepo,
		Presence:      presenceRepo,
		AIEnabled:     cfg.AIEnabled,
	}
	stream := handlers.NewStreamHandler(bus, presenceRepo, cfg.HeartbeatInterval)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: handlers.NewRouter(handler, stream),
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logging.Log.Info().Str("port", cfg.ServerPort).Msg("starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	// Background due-date sweep across all users.
	group.Go(func() error {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-groupCtx.Done():
				return nil
			case <-ticker.C:
				notificationService.SweepAllUsers(groupCtx)
			}
		}
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logging.Log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logging.Log.Fatal().Err(err).Msg("server error")
	}
	logging.Log.Info().Msg("server stopped gracefully")
}
