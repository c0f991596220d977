package domain

import "time"

// UserRole enumerates the three caller roles.
type UserRole string

const (
	RoleCustomer UserRole = "CUSTOMER"
	RoleAgent    UserRole = "AGENT"
	RoleAdmin    UserRole = "ADMIN"
)

// IsStaff reports whether the role belongs to support staff.
func (r UserRole) IsStaff() bool {
	return r == RoleAgent || r == RoleAdmin
}

// User is the domain model for every account: customers who raise
// tickets and the staff who handle them.
type User struct {
	ID           string    `json:"id"`
	UserName     string    `json:"user_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"user_type"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
