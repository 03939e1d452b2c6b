package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskflow-api/internal/api/middleware"
	"github.com/phrazzld/taskflow-api/internal/config"
	"github.com/phrazzld/taskflow-api/internal/platform/ratelimit"
	"github.com/phrazzld/taskflow-api/internal/service"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
	"github.com/redis/go-redis/v9"
)

// application holds the shared dependencies so they can be wired once and
// released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	stores *stores
	redis  *redis.Client

	jwtService  auth.JWTService
	userService service.UserService
	taskService service.TaskService

	limiter *ratelimit.Limiter
	metrics *middleware.Metrics
}

// newApplication connects the stores and builds the services.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		metrics: middleware.NewMetrics(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.stores, err = openStores(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open stores: %w", err)
	}

	if cfg.RateLimit.Enabled {
		app.redis, err = ratelimit.NewRedisClient(ctx, cfg.RateLimit.RedisURL)
		if err != nil {
			app.cleanup(ctx)
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.limiter = ratelimit.NewLimiter(
			ratelimit.NewRedisCounter(app.redis),
			cfg.RateLimit.Requests,
			cfg.RateLimit.Window(),
			logger,
		)
		logger.Info("Rate limiting enabled",
			slog.Int("requests", cfg.RateLimit.Requests),
			slog.Duration("window", cfg.RateLimit.Window()))
	}

	app.userService = service.NewUserService(
		app.stores.users,
		auth.NewBcryptHasher(cfg.Auth.BCryptCost),
		app.jwtService,
		logger,
	)
	app.taskService = service.NewTaskService(app.stores.tasks, app.stores.users, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is cancelled, then releases resources.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup closes the Redis client and the store connections.
func (app *application) cleanup(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis client", slog.String("error", err.Error()))
		}
	}

	if app.stores != nil {
		if err := app.stores.close(context.WithoutCancel(ctx)); err != nil {
			app.logger.Error("Error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("Application shutdown completed")
}
