package model

// Lifecycle statuses shared by tasks and assignments.
const (
	StatusCreated   = "created"
	StatusAssigned  = "assigned"
	StatusProgress  = "progress"
	StatusHold      = "hold"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Statuses lists every valid lifecycle status.
var Statuses = []string{
	StatusCreated,
	StatusAssigned,
	StatusProgress,
	StatusHold,
	StatusCompleted,
	StatusCancelled,
}

// User roles
const (
	RoleAdmin  = "admin"  // full control, unrestricted status transitions
	RoleMember = "member" // may only move own assignments through the working set
)

// Assignee types for task assignments
const (
	AssigneeTypeUser  = "user"
	AssigneeTypeGroup = "group"
)

// IsValidStatus reports whether s is one of the six lifecycle statuses.
func IsValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// AllowedStatuses returns the set of target statuses a caller may request on
// an assignment. Admins may set any value, including moving a terminal
// assignment backward. Members get the working subset, and only when they are
// the assignee (directly, or through current membership of an assigned group).
func AllowedStatuses(role string, isAssignee bool) map[string]bool {
	if role == RoleAdmin {
		all := make(map[string]bool, len(Statuses))
		for _, s := range Statuses {
			all[s] = true
		}
		return all
	}
	if !isAssignee {
		return map[string]bool{}
	}
	return map[string]bool{
		StatusProgress:  true,
		StatusHold:      true,
		StatusCompleted: true,
	}
}
