package mongodb

import (
	"time"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func newUserDocument(u *domain.User) userDocument {
	return userDocument{
		ID:        u.ID.ObjectID(),
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.HashedPassword,
		CreatedAt: u.CreatedAt,
	}
}

func (d userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:             domain.ID(d.ID),
		Name:           d.Name,
		Email:          d.Email,
		HashedPassword: d.Password,
		CreatedAt:      d.CreatedAt.UTC(),
	}
}

type taskDocument struct {
	ID          primitive.ObjectID  `bson:"_id"`
	Title       string              `bson:"title"`
	Description string              `bson:"description"`
	DueDate     time.Time           `bson:"dueDate"`
	Status      string              `bson:"status"`
	Priority    string              `bson:"priority"`
	Owner       primitive.ObjectID  `bson:"user"`
	AssignedTo  *primitive.ObjectID `bson:"assignedTo"`
	CreatedAt   time.Time           `bson:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt"`
}

func newTaskDocument(t *domain.Task) taskDocument {
	return taskDocument{
		ID:          t.ID.ObjectID(),
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Owner:       t.Owner.ObjectID(),
		AssignedTo:  objectIDPtr(t.Assignee),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (d taskDocument) toDomain() *domain.Task {
	t := &domain.Task{
		ID:          domain.ID(d.ID),
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate.UTC(),
		Status:      domain.Status(d.Status),
		Priority:    domain.Priority(d.Priority),
		Owner:       domain.ID(d.Owner),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
	if d.AssignedTo != nil {
		t.Assignee = domain.ID(*d.AssignedTo)
	}
	return t
}

// objectIDPtr maps the zero ID to nil so unassigned tasks store null.
func objectIDPtr(id domain.ID) *primitive.ObjectID {
	if id.IsZero() {
		return nil
	}
	oid := id.ObjectID()
	return &oid
}
