package postgres

import (
	"fmt"
	"strings"

	"github.com/phrazzld/taskflow-api/internal/store"
)

// taskWhere translates the scope and filters of q into a WHERE clause and
// its positional arguments. The actor is always $1.
func taskWhere(q store.TaskQuery) (string, []any) {
	args := []any{q.Actor}
	var conds []string

	switch q.Scope {
	case store.ScopeAssigned:
		conds = append(conds, "assignee_id = $1")
	default:
		conds = append(conds, "(owner_id = $1 OR assignee_id = $1)")
	}

	if q.Filter.Status != "" {
		args = append(args, string(q.Filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if q.Filter.Priority != "" {
		args = append(args, string(q.Filter.Priority))
		conds = append(conds, fmt.Sprintf("priority = $%d", len(args)))
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

// taskFindQuery builds the page query for q, newest first.
func taskFindQuery(q store.TaskQuery) (string, []any) {
	where, args := taskWhere(q)
	page := store.NewPage(q.Page.Number, q.Page.Size)

	args = append(args, page.Size, page.Offset())
	query := fmt.Sprintf(
		"SELECT %s FROM tasks %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		taskColumns, where, len(args)-1, len(args),
	)
	return query, args
}

// taskCountQuery builds the count query for q.
func taskCountQuery(q store.TaskQuery) (string, []any) {
	where, args := taskWhere(q)
	return "SELECT COUNT(*) FROM tasks " + where, args
}
