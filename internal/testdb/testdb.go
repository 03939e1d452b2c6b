// Package testdb connects integration tests to real PostgreSQL and MongoDB
// instances. Tests skip when the corresponding URL is not configured.
package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/taskflow-api/internal/platform/mongodb"
	"github.com/phrazzld/taskflow-api/internal/platform/postgres"
	"github.com/phrazzld/taskflow-api/internal/redact"
	"go.mongodb.org/mongo-driver/mongo"
)

// Environment variables read by the helpers.
const (
	EnvPostgresURL = "TASKFLOW_TEST_DATABASE_URL"
	EnvMongoURL    = "TASKFLOW_TEST_MONGO_URL"
)

// PostgresURL returns the configured test database URL, or "".
func PostgresURL() string {
	return strings.TrimSpace(os.Getenv(EnvPostgresURL))
}

// MongoURL returns the configured test MongoDB URL, or "".
func MongoURL() string {
	return strings.TrimSpace(os.Getenv(EnvMongoURL))
}

// RequirePostgres opens a migrated database or skips the test. The tasks and
// users tables are truncated before the test runs.
func RequirePostgres(t *testing.T) *sql.DB {
	t.Helper()

	url := PostgresURL()
	if url == "" {
		t.Skipf("%s not set, skipping PostgreSQL integration test", EnvPostgresURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.Open(ctx, url)
	if err != nil {
		t.Fatalf("failed to open test database: %s", redact.Error(err))
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := postgres.Migrate(ctx, db, "up", nil); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	if _, err := db.ExecContext(ctx, "TRUNCATE tasks, users CASCADE"); err != nil {
		t.Fatalf("failed to reset test database: %v", err)
	}
	return db
}

// RequireMongo returns a fresh, indexed database that is dropped when the
// test finishes, or skips the test.
func RequireMongo(t *testing.T) *mongo.Database {
	t.Helper()

	url := MongoURL()
	if url == "" {
		t.Skipf("%s not set, skipping MongoDB integration test", EnvMongoURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongodb.Connect(ctx, url)
	if err != nil {
		t.Fatalf("failed to connect to test mongodb: %s", redact.Error(err))
	}

	db := client.Database(fmt.Sprintf("taskflow_test_%d", time.Now().UnixNano()))
	if err := mongodb.EnsureIndexes(ctx, db, nil); err != nil {
		t.Fatalf("failed to create indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}
