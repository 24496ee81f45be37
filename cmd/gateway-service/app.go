package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"paygate/internal/config"
	"paygate/internal/constants"
	"paygate/internal/gateway"
	"paygate/internal/logger"
	"paygate/internal/relevance"
	"paygate/internal/transaction"
	"paygate/pkg/bootstrap"
	"paygate/pkg/health"
	"paygate/pkg/metrics"
	"paygate/pkg/middleware"
	"paygate/pkg/ratelimit"
)

type App struct {
	*bootstrap.Base
	dbConnector *bootstrap.DatabaseConnector
	db          *sql.DB
	redisClient *redis.Client
	service     *gateway.Service
	server      *http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		Base:        bootstrap.NewBase(cfg, log),
		dbConnector: bootstrap.NewDatabaseConnector(cfg, log),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.initDatabases(ctx); err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}

	a.InitBroker()

	metrics.RegisterGatewayMetrics()
	if a.Producer != nil {
		metrics.RegisterBrokerMetrics()
	}
	if a.Config.CircuitBreaker.Enabled {
		metrics.RegisterCircuitBreakerMetrics()
	}

	if err := a.initService(); err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}

	if err := a.initHTTPServer(); err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	return nil
}

func (a *App) initDatabases(ctx context.Context) error {
	db, err := a.dbConnector.InitPostgreSQL(ctx)
	if err != nil {
		return err
	}
	a.db = db

	if a.Config.Database.RunMigrations {
		if err := a.runMigrations(); err != nil {
			return err
		}
	}

	redisClient, err := a.dbConnector.InitRedis(ctx)
	if err != nil {
		return err
	}
	a.redisClient = redisClient

	return nil
}

func (a *App) runMigrations() error {
	driver, err := migratepg.WithInstance(a.db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create postgres migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations/postgres", "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	a.Logger.Info("Database migrations applied")
	return nil
}

func (a *App) initService() error {
	store := transaction.NewCircuitBreakerStore(
		transaction.NewStore(a.db),
		a.Config.CircuitBreaker,
	)

	var claim transaction.ClaimGuard = transaction.NopClaim{}
	if a.redisClient != nil {
		ttl := time.Duration(a.Config.Database.Redis.ClaimTTLSeconds) * time.Second
		if ttl <= 0 {
			ttl = time.Minute
		}
		claim = transaction.NewRedisClaim(a.redisClient, ttl)
	}

	live, err := gateway.LiveFromActionURL(a.Config.Gateway.ActionURL)
	if err != nil {
		return err
	}

	relevanceSvc := relevance.NewService(store, live, a.Logger)

	svc, err := gateway.NewService(
		a.Config.Gateway,
		store,
		claim,
		relevanceSvc,
		a.Producer,
		a.Config.Broker.Kafka.PaymentEventsTopic,
		a.Logger,
	)
	if err != nil {
		return err
	}

	a.service = svc
	return nil
}

func (a *App) initHTTPServer() error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(a.Logger))
	router.Use(middleware.RecoveryMiddleware(a.Logger))

	if a.Config.RateLimit.Enabled {
		rlConfig := ratelimit.DefaultConfig()
		if a.Config.RateLimit.RPS > 0 {
			rlConfig.RPS = a.Config.RateLimit.RPS
		}
		if a.Config.RateLimit.Burst > 0 {
			rlConfig.Burst = a.Config.RateLimit.Burst
		}
		if a.Config.RateLimit.CleanupInterval > 0 {
			rlConfig.CleanupInterval = time.Duration(a.Config.RateLimit.CleanupInterval) * time.Second
		}
		if a.Config.RateLimit.MaxAge > 0 {
			rlConfig.MaxAge = time.Duration(a.Config.RateLimit.MaxAge) * time.Second
		}
		router.Use(ratelimit.RateLimitMiddleware(rlConfig))
	}

	handler := gateway.NewHandler(a.service, a.Logger)
	handler.RegisterRoutes(router)

	healthRegistry := health.NewCheckerRegistry()
	healthRegistry.Register(health.NewPostgreSQLChecker(a.db))
	if a.redisClient != nil {
		healthRegistry.Register(health.NewRedisChecker(a.redisClient))
	}

	router.GET("/health", func(c *gin.Context) {
		h := healthRegistry.Check(c.Request.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, h)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      router,
		ReadTimeout:  a.Config.Server.ReadTimeoutSeconds * time.Second,
		WriteTimeout: a.Config.Server.WriteTimeoutSeconds * time.Second,
	}

	return nil
}

func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Infow("HTTP server starting", "port", a.Config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (a *App) Shutdown(ctx context.Context) error {
	additionalShutdown := func(ctx context.Context) []error {
		return a.dbConnector.ShutdownDatabases(a.redisClient, a.db)
	}

	return a.Base.Shutdown(ctx, additionalShutdown)
}
