package postgres

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/stretchr/testify/require"
)

// newMockDB returns a sqlmock-backed database and registers expectation checks on cleanup.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err, "failed to create sqlmock")
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet(), "unmet sqlmock expectations")
		_ = db.Close()
	})
	return db, mock
}

func testUser(name, email string) *domain.User {
	return &domain.User{
		ID:             domain.NewID(),
		Name:           name,
		Email:          email,
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
		CreatedAt:      time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func testTask(owner domain.ID) *domain.Task {
	created := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	return &domain.Task{
		ID:          domain.NewID(),
		Title:       "Write report",
		Description: "Quarterly numbers",
		DueDate:     time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Status:      domain.StatusPending,
		Priority:    domain.PriorityMedium,
		Owner:       owner,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}
