// Package domain defines types shared across the phase-review core: the actor
// model and the port to the remote persistence backend.
package domain

import "fmt"

// Role is the closed set of actor roles. Every core operation receives the
// acting role explicitly; nothing is inferred from ambient state.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// ParseRole converts a raw role string, rejecting anything outside the enum.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// Actor identifies who is performing an operation.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// CanReview reports whether the actor may take teacher-side review actions.
// Admins hold teacher capability for review purposes.
func (a Actor) CanReview() bool {
	return a.Role == RoleTeacher || a.Role == RoleAdmin
}

// CanSubmit reports whether the actor may take student-side actions.
func (a Actor) CanSubmit() bool {
	return a.Role == RoleStudent
}
