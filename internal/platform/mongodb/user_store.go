package mongodb

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserStore implements store.UserStore on the users collection.
type MongoUserStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewMongoUserStore creates a MongoUserStore backed by db.
// If logger is nil, a default logger will be used.
func NewMongoUserStore(db *mongo.Database, logger *slog.Logger) *MongoUserStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MongoUserStore{
		coll:   db.Collection(UsersCollection),
		logger: logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*MongoUserStore)(nil)

// Create implements store.UserStore.Create
func (s *MongoUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return err
	}

	if _, err := s.coll.InsertOne(ctx, newUserDocument(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Debug("email already registered", slog.String("user_id", user.ID.Hex()))
			return store.ErrEmailExists
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.Hex()))
		return store.NewStoreError("user", "create", "insert failed", err)
	}

	log.Info("user created successfully", slog.String("user_id", user.ID.Hex()))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *MongoUserStore) GetByID(ctx context.Context, id domain.ID) (*domain.User, error) {
	return s.findOne(ctx, bson.M{"_id": id.ObjectID()})
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *MongoUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDocument
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrUserNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get user", slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "get", "query failed", err)
	}
	return doc.toDomain(), nil
}

// GetByIDs implements store.UserStore.GetByIDs
func (s *MongoUserStore) GetByIDs(ctx context.Context, ids []domain.ID) (map[domain.ID]*domain.User, error) {
	found := make(map[domain.ID]*domain.User, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	oids := make([]primitive.ObjectID, len(ids))
	for i, id := range ids {
		oids[i] = id.ObjectID()
	}

	users, err := s.find(ctx, "get_many", bson.M{"_id": bson.M{"$in": oids}}, nil)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		found[u.ID] = u
	}
	return found, nil
}

// List implements store.UserStore.List
func (s *MongoUserStore) List(ctx context.Context) ([]*domain.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	return s.find(ctx, "list", bson.M{}, opts)
}

func (s *MongoUserStore) find(ctx context.Context, op string, filter bson.M, opts *options.FindOptions) ([]*domain.User, error) {
	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}

	cursor, err := s.coll.Find(ctx, filter, findOpts...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query users",
			slog.String("op", op),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", op, "query failed", err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, store.NewStoreError("user", op, "decode failed", err)
	}

	users := make([]*domain.User, len(docs))
	for i, d := range docs {
		users[i] = d.toDomain()
	}
	return users, nil
}
