package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	UsersCollection = "users"
	TasksCollection = "tasks"
)

// Connect opens a client for uri and verifies the deployment is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// indexModels lists the indexes the stores rely on, per collection.
func indexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		UsersCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("email_unique"),
			},
		},
		TasksCollection: {
			{
				Keys:    bson.D{{Key: "user", Value: 1}, {Key: "status", Value: 1}, {Key: "priority", Value: 1}},
				Options: options.Index().SetName("owner_status_priority"),
			},
			{
				Keys:    bson.D{{Key: "assignedTo", Value: 1}, {Key: "status", Value: 1}, {Key: "priority", Value: 1}},
				Options: options.Index().SetName("assignee_status_priority"),
			},
			{
				Keys:    bson.D{{Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("created_at_desc"),
			},
		},
	}
}

// EnsureIndexes creates the collection indexes. It is safe to call on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "mongodb"))

	for collection, models := range indexModels() {
		names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
		log.Info("indexes ensured",
			slog.String("collection", collection),
			slog.Any("indexes", names))
	}
	return nil
}
