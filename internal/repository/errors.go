package repository

import (
	"errors"
	"strings"
)

// Common repository errors
var (
	// ErrTaskNotFound is returned when a task is not found
	ErrTaskNotFound = errors.New("task not found")

	// ErrGroupNotFound is returned when a group is not found
	ErrGroupNotFound = errors.New("group not found")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrAssignmentNotFound is returned when an assignment is not found
	ErrAssignmentNotFound = errors.New("assignment not found")

	// ErrAssigneeNotFound is returned when the referenced assignee does not
	// exist under the requested assignee type
	ErrAssigneeNotFound = errors.New("assignee not found")

	// ErrAlreadyAssigned is returned when the (task, assignee type, assignee)
	// tuple already exists
	ErrAlreadyAssigned = errors.New("task is already assigned to this assignee")

	// ErrOTPNotFound is returned when no reset code matches the email/otp pair
	ErrOTPNotFound = errors.New("otp not found")
)

// UsersInAnotherGroupError reports membership candidates that already belong
// to a different group.
type UsersInAnotherGroupError struct {
	Names []string
}

func (e *UsersInAnotherGroupError) Error() string {
	return "The following users are already in another group: " + strings.Join(e.Names, ", ")
}
