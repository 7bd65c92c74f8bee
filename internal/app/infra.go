package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrEthical07/sessionauth/identity"
	"github.com/MrEthical07/sessionauth/internal/config"
	"github.com/redis/go-redis/v9"

	_ "github.com/lib/pq"
)

type Infra struct {
	DB         *sql.DB
	Redis      *redis.Client
	Identities identity.Store
}

func setupInfra(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Infra, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  cfg.RedisDialTimeout,
		ReadTimeout:  cfg.RedisOpTimeout,
		WriteTimeout: cfg.RedisOpTimeout,
	})

	// The registry may come up after us; the engine degrades until it does.
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable at startup", "addr", cfg.RedisAddr(), "error", err)
	} else {
		logger.Info("redis ready", "addr", cfg.RedisAddr())
	}

	infra := &Infra{Redis: redisClient}

	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory identity store")
		infra.Identities = identity.NewMemoryStore()
		return infra, nil
	}

	sqlDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	pg := identity.NewPostgresStore(sqlDB)
	if err := pg.Migrate(ctx); err != nil {
		_ = sqlDB.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("migrate identities: %w", err)
	}
	logger.Info("database ready")

	infra.DB = sqlDB
	infra.Identities = pg
	return infra, nil
}

func (i *Infra) Close() error {
	var errs []error
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	if i.DB != nil {
		errs = append(errs, i.DB.Close())
	}
	return errors.Join(errs...)
}
