package rbac

import "time"

// Workflow roles. Each maps to one stage of the claim lifecycle.
const (
	RoleLecturer             = "LECTURER"
	RoleProgrammeCoordinator = "PROGRAMME_COORDINATOR"
	RoleAcademicManager      = "ACADEMIC_MANAGER"
	RoleHR                   = "HR"
)

// Role represents a named permission grouping.
type Role struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}

// UserRole links a user to a role.
type UserRole struct {
	UserID    int64
	RoleID    int64
	CreatedAt time.Time
}
