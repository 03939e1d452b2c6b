package mongodb

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTaskStore implements store.TaskStore on the tasks collection.
type MongoTaskStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewMongoTaskStore creates a MongoTaskStore backed by db.
// If logger is nil, a default logger will be used.
func NewMongoTaskStore(db *mongo.Database, logger *slog.Logger) *MongoTaskStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MongoTaskStore{
		coll:   db.Collection(TasksCollection),
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*MongoTaskStore)(nil)

// Create implements store.TaskStore.Create
func (s *MongoTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return err
	}

	if _, err := s.coll.InsertOne(ctx, newTaskDocument(task)); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.Hex()))
		return store.NewStoreError("task", "create", "insert failed", err)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.Hex()),
		slog.String("owner_id", task.Owner.Hex()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *MongoTaskStore) GetByID(ctx context.Context, id domain.ID) (*domain.Task, error) {
	var doc taskDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": id.ObjectID()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrTaskNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.Hex()))
		return nil, store.NewStoreError("task", "get", "query failed", err)
	}
	return doc.toDomain(), nil
}

// Update implements store.TaskStore.Update
// The owner and creation time are not part of the $set.
func (s *MongoTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return err
	}

	doc := newTaskDocument(task)
	update := bson.M{"$set": bson.M{
		"title":       doc.Title,
		"description": doc.Description,
		"dueDate":     doc.DueDate,
		"status":      doc.Status,
		"priority":    doc.Priority,
		"assignedTo":  doc.AssignedTo,
		"updatedAt":   doc.UpdatedAt,
	}}

	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.Hex()))
		return store.NewStoreError("task", "update", "update failed", err)
	}
	if result.MatchedCount == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

// Delete implements store.TaskStore.Delete
func (s *MongoTaskStore) Delete(ctx context.Context, id domain.ID) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id.ObjectID()})
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.Hex()))
		return store.NewStoreError("task", "delete", "delete failed", err)
	}
	if result.DeletedCount == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

// Find implements store.TaskStore.Find
func (s *MongoTaskStore) Find(ctx context.Context, q store.TaskQuery) ([]*domain.Task, error) {
	cursor, err := s.coll.Find(ctx, taskFilter(q), taskFindOptions(q))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("scope", q.Scope.String()))
		return nil, store.NewStoreError("task", "find", "query failed", err)
	}

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, store.NewStoreError("task", "find", "decode failed", err)
	}

	tasks := make([]*domain.Task, len(docs))
	for i, d := range docs {
		tasks[i] = d.toDomain()
	}
	return tasks, nil
}

// Count implements store.TaskStore.Count
func (s *MongoTaskStore) Count(ctx context.Context, q store.TaskQuery) (int64, error) {
	total, err := s.coll.CountDocuments(ctx, taskFilter(q))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count tasks",
			slog.String("error", err.Error()),
			slog.String("scope", q.Scope.String()))
		return 0, store.NewStoreError("task", "count", "query failed", err)
	}
	return total, nil
}
