package domain

// Action is an operation an actor attempts on a task.
type Action string

const (
	ActionRead           Action = "read"
	ActionUpdate         Action = "update"
	ActionUpdateStatus   Action = "update_status"
	ActionUpdatePriority Action = "update_priority"
	ActionAssign         Action = "assign"
	ActionDelete         Action = "delete"
)

// role is an actor's relationship to a task.
type role int

const (
	roleOther role = iota
	roleAssignee
	roleOwner
)

// permissions is the access table. Owners may do everything; assignees may
// read, edit, change status and delete; anyone else may do nothing.
var permissions = map[Action]map[role]bool{
	ActionRead:           {roleOwner: true, roleAssignee: true},
	ActionUpdate:         {roleOwner: true, roleAssignee: true},
	ActionUpdateStatus:   {roleOwner: true, roleAssignee: true},
	ActionDelete:         {roleOwner: true, roleAssignee: true},
	ActionUpdatePriority: {roleOwner: true},
	ActionAssign:         {roleOwner: true},
}

func roleOf(actor ID, t *Task) role {
	switch {
	case t.IsOwner(actor):
		return roleOwner
	case t.IsAssignee(actor):
		return roleAssignee
	default:
		return roleOther
	}
}

// Can reports whether actor may perform action on t.
func Can(actor ID, t *Task, action Action) bool {
	if t == nil {
		return false
	}
	return permissions[action][roleOf(actor, t)]
}

// Authorize returns an AuthorizationError when actor may not perform action on t.
func Authorize(actor ID, t *Task, action Action) error {
	if Can(actor, t, action) {
		return nil
	}
	return &AuthorizationError{Action: action}
}

// verb is the word used in the client-facing denial message.
func (a Action) verb() string {
	switch a {
	case ActionRead:
		return "access"
	case ActionAssign:
		return "assign"
	case ActionDelete:
		return "delete"
	default:
		return "update"
	}
}
