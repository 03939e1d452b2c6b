package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskflow-api/internal/config"
	"github.com/phrazzld/taskflow-api/internal/platform/mongodb"
	"github.com/phrazzld/taskflow-api/internal/platform/postgres"
	"github.com/phrazzld/taskflow-api/internal/store"
	"github.com/phrazzld/taskflow-api/internal/store/memory"
	"go.mongodb.org/mongo-driver/mongo"
)

// stores bundles the record stores for the configured driver together with
// the function that releases their connections.
type stores struct {
	users store.UserStore
	tasks store.TaskStore
	close func(ctx context.Context) error
}

// openStores connects to the configured backend. PostgreSQL schemas are
// migrated to the latest version and MongoDB indexes are created before the
// stores are returned.
func openStores(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*stores, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	case config.DriverMongo:
		return openMongo(ctx, cfg, logger)
	case config.DriverMemory:
		logger.Warn("Using in-memory stores; data is lost on restart")
		return &stores{
			users: memory.NewUserStore(),
			tasks: memory.NewTaskStore(),
			close: func(context.Context) error { return nil },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*stores, error) {
	db, err := postgres.Open(ctx, cfg.URL)
	if err != nil {
		return nil, err
	}

	if err := postgres.Migrate(ctx, db, "up", logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("Database connection established", slog.String("driver", cfg.Driver))
	return &stores{
		users: postgres.NewPostgresUserStore(db, logger),
		tasks: postgres.NewPostgresTaskStore(db, logger),
		close: func(context.Context) error { return db.Close() },
	}, nil
}

func openMongo(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*stores, error) {
	client, err := mongodb.Connect(ctx, cfg.URL)
	if err != nil {
		return nil, err
	}

	db := client.Database(cfg.Name)
	if err := mongodb.EnsureIndexes(ctx, db, logger); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("Database connection established",
		slog.String("driver", cfg.Driver),
		slog.String("database", cfg.Name))
	return &stores{
		users: mongodb.NewMongoUserStore(db, logger),
		tasks: mongodb.NewMongoTaskStore(db, logger),
		close: disconnectMongo(client),
	}, nil
}

func disconnectMongo(client *mongo.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return client.Disconnect(ctx)
	}
}

// openSQL is used by the migrate command, which only supports PostgreSQL.
func openSQL(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	if cfg.Driver != config.DriverPostgres {
		return nil, fmt.Errorf("migrations require the %s driver, got %q", config.DriverPostgres, cfg.Driver)
	}
	return postgres.Open(ctx, cfg.URL)
}
