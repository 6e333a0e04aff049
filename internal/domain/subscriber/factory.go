package subscriber

import (
	"errors"
	"strings"
)

var ErrEmptyRole = errors.New("subscriber: role must not be empty")

// New builds the subscriber variant matching the given role. The role may be
// any recognized alias; an unrecognized non-empty role yields a Generic
// subscriber with an empty interest set instead of an error.
func New(id int64, name, role string) (Subscriber, error) {
	if strings.TrimSpace(role) == "" {
		return nil, ErrEmptyRole
	}

	normalized := NormalizeRole(role)

	switch normalized {
	case RoleAdmin:
		return NewAdministrator(id, name), nil
	case RoleTeacher:
		return NewTeacher(id, name), nil
	case RoleStudent:
		return NewStudent(id, name), nil
	default:
		return NewGeneric(id, name, normalized), nil
	}
}
