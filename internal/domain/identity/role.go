package identity

import (
	"github.com/google/uuid"
)

// Role is the closed set of caller roles recognized by the backend.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStaff   Role = "staff"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
)

// ParseRole maps a raw role label onto the closed enum.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleStaff, RoleTeacher, RoleStudent, RoleParent:
		return Role(s), true
	}
	return "", false
}

// IsValid reports whether the role is a member of the closed enum.
func (r Role) IsValid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// String returns the role label.
func (r Role) String() string {
	return string(r)
}

// Actor is the authenticated caller attached to a request by the token
// verification middleware. StudentID is resolved from the roster for student
// callers and stays nil for every other role.
type Actor struct {
	UserID    uuid.UUID
	SchoolID  uuid.UUID
	Role      Role
	StudentID *uuid.UUID
}

// OwnsStudent reports whether the actor is the student identified by id.
func (a Actor) OwnsStudent(id uuid.UUID) bool {
	return a.Role == RoleStudent && a.StudentID != nil && *a.StudentID == id
}
