package mongodb

import (
	"github.com/phrazzld/taskflow-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// taskFilter translates the scope and filters of q into a query document.
func taskFilter(q store.TaskQuery) bson.M {
	actor := q.Actor.ObjectID()

	filter := bson.M{}
	switch q.Scope {
	case store.ScopeAssigned:
		filter["assignedTo"] = actor
	default:
		filter["$or"] = bson.A{
			bson.M{"user": actor},
			bson.M{"assignedTo": actor},
		}
	}

	if q.Filter.Status != "" {
		filter["status"] = string(q.Filter.Status)
	}
	if q.Filter.Priority != "" {
		filter["priority"] = string(q.Filter.Priority)
	}
	return filter
}

// taskFindOptions orders newest first and applies the page window.
func taskFindOptions(q store.TaskQuery) *options.FindOptions {
	page := store.NewPage(q.Page.Number, q.Page.Size)
	return options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Size))
}
