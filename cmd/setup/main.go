package main

import (
	"context"

	"cscportal/api/internal/config"
	"cscportal/api/internal/database"
	"cscportal/api/internal/log"
	"cscportal/api/internal/repository"
	"cscportal/api/internal/security"
	"cscportal/api/internal/seed"
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
	defer dbPool.Close()

	if err := database.Migrate(ctx, dbPool); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply schema")
	}

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}

	admins := repository.NewAdminRepository(dbPool)
	auth := service.NewAuthService(
		admins,
		security.NewPasswordHasher(security.DefaultArgon2Params),
		security.NewTokenSigner(cfg.Security.JWTSecret, cfg.Security.TokenTTL),
		cfg.Security.SetupToken,
		logger,
	)
	catalog := service.NewCatalogService(repository.NewServiceRepository(dbPool), objectStore, logger)

	res, err := seed.NewSeeder(auth, catalog, admins, logger).Run(ctx, cfg.Setup, cfg.Security.SetupToken)
	if err != nil {
		logger.Fatal().Err(err).Msg("setup failed")
	}
	logger.Info().
		Bool("admin_created", res.AdminCreated).
		Int("services_created", res.ServicesCreated).
		Msg("setup complete")
}
