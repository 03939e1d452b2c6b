package store

import (
	"math"

	"github.com/phrazzld/taskflow-api/internal/domain"
)

// Paging defaults.
const (
	DefaultPage     = 1
	DefaultPageSize = 5
	MaxPageSize     = 100
)

// Scope selects which relationship to the actor a listed task must have.
type Scope int

const (
	// ScopeInvolved matches tasks the actor owns or is assigned.
	ScopeInvolved Scope = iota
	// ScopeAssigned matches only tasks assigned to the actor.
	ScopeAssigned
)

func (s Scope) String() string {
	if s == ScopeAssigned {
		return "assigned"
	}
	return "involved"
}

// TaskFilter holds optional exact-match filters. Empty values match everything.
// Values outside the enumerations are kept as-is and match nothing.
type TaskFilter struct {
	Status   domain.Status
	Priority domain.Priority
}

// Page is a 1-based page number and page size.
type Page struct {
	Number int
	Size   int
}

// NewPage applies defaults to non-positive values and caps the size at
// MaxPageSize. Number is capped so that Offset cannot overflow.
func NewPage(number, size int) Page {
	if number < 1 {
		number = DefaultPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if last := math.MaxInt / size; number > last {
		number = last
	}
	return Page{Number: number, Size: size}
}

// Offset is the number of records skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// TaskQuery is a backend-neutral description of a task listing: who is
// asking, which relationship counts, what to filter on and which window to
// return. Results are always ordered by creation time, newest first.
type TaskQuery struct {
	Actor  domain.ID
	Scope  Scope
	Filter TaskFilter
	Page   Page
}

// NewTaskQuery builds a TaskQuery, normalizing the page.
func NewTaskQuery(actor domain.ID, scope Scope, filter TaskFilter, page Page) TaskQuery {
	return TaskQuery{
		Actor:  actor,
		Scope:  scope,
		Filter: filter,
		Page:   NewPage(page.Number, page.Size),
	}
}

// Matches reports whether t satisfies the scope and filters of q.
// Paging is not considered.
func (q TaskQuery) Matches(t *domain.Task) bool {
	switch q.Scope {
	case ScopeAssigned:
		if !t.IsAssignee(q.Actor) {
			return false
		}
	default:
		if !t.IsOwner(q.Actor) && !t.IsAssignee(q.Actor) {
			return false
		}
	}
	if q.Filter.Status != "" && t.Status != q.Filter.Status {
		return false
	}
	if q.Filter.Priority != "" && t.Priority != q.Filter.Priority {
		return false
	}
	return true
}

// PageRef points at a neighbouring page.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination describes where a page sits within the full result set.
type Pagination struct {
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalPages int64    `json:"totalPages"`
	Next       *PageRef `json:"next,omitempty"`
	Prev       *PageRef `json:"prev,omitempty"`
}

// Paginate computes page metadata for total matching records.
// Next is set iff records remain after this page; Prev iff this is not the first page.
func Paginate(total int64, page Page) Pagination {
	page = NewPage(page.Number, page.Size)
	limit := int64(page.Size)

	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	p := Pagination{
		Total:      total,
		Page:       page.Number,
		Limit:      page.Size,
		TotalPages: totalPages,
	}
	if int64(page.Number) < totalPages {
		p.Next = &PageRef{Page: page.Number + 1, Limit: page.Size}
	}
	if page.Number > 1 {
		p.Prev = &PageRef{Page: page.Number - 1, Limit: page.Size}
	}
	return p
}
