package app

import (
	"context"
	"fmt"
	"log/slog"

	sessionauth "github.com/MrEthical07/sessionauth"
	"github.com/MrEthical07/sessionauth/identity"
	"github.com/MrEthical07/sessionauth/internal/config"
	"github.com/MrEthical07/sessionauth/internal/httpapi"
	"github.com/MrEthical07/sessionauth/metrics/export/prometheus"
	"github.com/MrEthical07/sessionauth/permission"
	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config, logger *slog.Logger) (*gin.Engine, func() error, error) {
	infra, err := setupInfra(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	engine, err := sessionauth.New().
		WithConfig(cfg.Engine()).
		WithRedis(infra.Redis).
		WithIdentityStore(infra.Identities).
		WithAuditSink(sessionauth.NewSlogSink(logger.With("component", "audit"), slog.LevelInfo)).
		WithLogger(logger).
		Build()
	if err != nil {
		_ = infra.Close()
		return nil, nil, fmt.Errorf("build engine: %w", err)
	}

	if err := bootstrapAdmin(ctx, cfg, engine, infra.Identities, logger); err != nil {
		engine.Close()
		_ = infra.Close()
		return nil, nil, err
	}

	handler := httpapi.NewHandler(engine, infra.Identities, httpapi.Options{
		Metrics: prometheus.NewPrometheusExporter(engine).Handler(),
		Logger:  logger.With("component", "http"),
	})

	gin.SetMode(gin.ReleaseMode)
	router := handler.Router()

	return router, func() error {
		engine.Close()
		return infra.Close()
	}, nil
}

// bootstrapAdmin creates the configured super admin once.
func bootstrapAdmin(ctx context.Context, cfg config.Config, engine *sessionauth.Engine, ids identity.Store, logger *slog.Logger) error {
	if cfg.AdminPassword == "" {
		return nil
	}
	seeder, ok := ids.(identity.Seeder)
	if !ok {
		return fmt.Errorf("identity store %T cannot seed accounts", ids)
	}

	hash, err := engine.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	created, err := seeder.Seed(ctx, identity.Record{
		Principal: identity.Principal{
			Subject:     cfg.AdminSubject,
			DisplayName: cfg.AdminName,
			Alias:       cfg.AdminEmail,
			Role:        permission.SuperAdmin,
			Active:      true,
		},
		PasswordHash: hash,
	})
	if err != nil {
		return fmt.Errorf("seed bootstrap admin: %w", err)
	}
	if created {
		logger.Info("bootstrap admin created", "subject", cfg.AdminSubject)
	}
	return nil
}
