package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"cscportal/api/internal/cache"
	"cscportal/api/internal/config"
	"cscportal/api/internal/database"
	"cscportal/api/internal/handlers"
	"cscportal/api/internal/jobs"
	"cscportal/api/internal/log"
	"cscportal/api/internal/repository"
	"cscportal/api/internal/security"
	"cscportal/api/internal/server"
	"cscportal/api/internal/service"
	"cscportal/api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	if err := database.Migrate(ctx, dbPool); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply schema")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}
	if err := objectStore.EnsureBucket(ctx); err != nil {
		logger.Warn().Err(err).Msg("ensure bucket failed")
	}

	services := buildServices(cfg, logger, dbPool, redisClient, objectStore)
	handlerSet := handlers.NewHandlerSet(cfg, logger, services, dbPool, redisClient)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(cfg.KeepAlive, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

func buildServices(cfg *config.AppConfig, logger zerolog.Logger, db *pgxpool.Pool, redisClient *redis.Client, blobs *storage.ObjectStore) handlers.Services {
	admins := repository.NewAdminRepository(db)
	catalog := repository.NewServiceRepository(db)
	contacts := repository.NewContactRepository(db)
	uploads := repository.NewUploadRepository(db)
	offers := repository.NewOfferRepository(db)
	notifications := repository.NewNotificationRepository(db)
	visitors := repository.NewVisitorCounter(redisClient, repository.DefaultVisitorKey)

	hasher := security.NewPasswordHasher(security.DefaultArgon2Params)
	signer := security.NewTokenSigner(cfg.Security.JWTSecret, cfg.Security.TokenTTL)

	return handlers.Services{
		Auth:     service.NewAuthService(admins, hasher, signer, cfg.Security.SetupToken, logger),
		Catalog:  service.NewCatalogService(catalog, blobs, logger),
		Contacts: service.NewContactService(contacts),
		Uploads: service.NewUploadService(uploads, catalog, blobs, service.UploadLimits{
			MaxFileBytes: cfg.HTTP.MaxUploadBytes,
			MaxFiles:     cfg.HTTP.MaxFiles,
		}, logger),
		Offers:        service.NewOfferService(offers, blobs, logger),
		Notifications: service.NewNotificationService(notifications),
		Visitors:      service.NewVisitorService(visitors),
		Dashboard:     service.NewDashboardService(catalog, contacts, uploads, offers),
	}
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		logger.Warn().Msg("keep-alive ping still running at shutdown")
	}

	db.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
