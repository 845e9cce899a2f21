package models

import "time"

// UserRole represents the closed set of roles a user can hold.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleTeacher   UserRole = "teacher"
	RolePrincipal UserRole = "principal"
	// RoleAnonymous is never stored; it stands for an unauthenticated caller.
	RoleAnonymous UserRole = ""
)

// Roles lists the assignable roles in display order.
var Roles = []UserRole{RoleAdmin, RoleTeacher, RolePrincipal}

// Valid reports whether r is one of the stored roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RolePrincipal:
		return true
	}
	return false
}

// HomePath returns the landing route for the role.
func (r UserRole) HomePath() string {
	switch r {
	case RoleAdmin:
		return "/admin/"
	case RoleTeacher:
		return "/teacher/"
	case RolePrincipal:
		return "/principal/"
	}
	return "/auth/login"
}

// User represents an application user stored in the users table.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role     *UserRole
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
