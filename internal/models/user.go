package models

import "time"

// UserRole represents the marketplace account roles.
type UserRole string

const (
	RoleTeacher UserRole = "teacher"
	RoleSchool  UserRole = "school"
	RoleAdmin   UserRole = "admin"
)

// AccountStatus represents the lifecycle state of a user account. Only
// active accounts are ever discoverable.
type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
)

// User represents an application user stored in the users table.
type User struct {
	ID            string        `db:"id" json:"id"`
	Role          UserRole      `db:"role" json:"role"`
	AccountStatus AccountStatus `db:"account_status" json:"account_status"`
	Email         string        `db:"email" json:"email"`
	PhonePrimary  *string       `db:"phone_primary" json:"phone_primary,omitempty"`
	PasswordHash  string        `db:"password_hash" json:"-"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
