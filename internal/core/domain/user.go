package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of user roles. It is decided once at the request
// boundary; downstream code switches on the typed value, never on strings.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleParent  Role = "PARENT"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole converts a raw role string into a Role, rejecting anything
// outside the closed set.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToUpper(raw)) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleParent:
		return RoleParent, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unsupported user role %q", raw)
	}
}

// User represents an authenticated person. Students, parents, and admins
// each wrap a User; the financial entities hold the balances.
type User struct {
	UserID       string `json:"userID"` // Primary key (UUID)
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	AuditFields
}
