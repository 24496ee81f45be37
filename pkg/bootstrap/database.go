package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"paygate/internal/config"
	"paygate/internal/logger"
	"paygate/pkg/retry"
)

// connectPolicy bounds startup connection attempts. Databases behind
// an orchestrator are often a few seconds late.
var connectPolicy = retry.Policy{
	MaxAttempts:     5,
	InitialInterval: 1 * time.Second,
	MaxInterval:     10 * time.Second,
	Multiplier:      2.0,
	MaxElapsedTime:  30 * time.Second,
}

type DatabaseConnector struct {
	Config *config.Config
	Logger logger.Logger
}

func NewDatabaseConnector(cfg *config.Config, log logger.Logger) *DatabaseConnector {
	return &DatabaseConnector{
		Config: cfg,
		Logger: log,
	}
}

func (dc *DatabaseConnector) InitRedis(ctx context.Context) (*redis.Client, error) {
	if dc.Config.Database.Redis.Host == "" {
		return nil, nil // Redis is optional
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", dc.Config.Database.Redis.Host, dc.Config.Database.Redis.Port),
		Password: dc.Config.Database.Redis.Password,
		DB:       dc.Config.Database.Redis.DB,
	})

	err := retry.RetryWithCallback(ctx, connectPolicy, func() error {
		return rdb.Ping(ctx).Err()
	}, func(attempt int, pingErr error, nextDelay time.Duration) {
		dc.Logger.Warnw("Redis not ready, retrying",
			"attempt", attempt, "next_delay", nextDelay, "error", pingErr)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	dc.Logger.Info("Redis connected successfully")
	return rdb, nil
}

func (dc *DatabaseConnector) InitPostgreSQL(ctx context.Context) (*sql.DB, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		dc.Config.Database.Postgres.User,
		dc.Config.Database.Postgres.Password,
		dc.Config.Database.Postgres.Host,
		dc.Config.Database.Postgres.Port,
		dc.Config.Database.Postgres.DBName,
		dc.Config.Database.Postgres.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = retry.RetryWithCallback(ctx, connectPolicy, func() error {
		return db.PingContext(ctx)
	}, func(attempt int, pingErr error, nextDelay time.Duration) {
		dc.Logger.Warnw("PostgreSQL not ready, retrying",
			"attempt", attempt, "next_delay", nextDelay, "error", pingErr)
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	dc.Logger.Info("PostgreSQL connected successfully")
	return db, nil
}

func (dc *DatabaseConnector) ShutdownDatabases(redisClient *redis.Client, postgres *sql.DB) []error {
	var errs []error

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close error: %w", err))
		}
	}

	if postgres != nil {
		if err := postgres.Close(); err != nil {
			errs = append(errs, fmt.Errorf("postgres close error: %w", err))
		}
	}

	return errs
}
