package domain

import "time"

// UserRole represents dashboard permissions.
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleEngineer UserRole = "engineer"
)

// User is an MSP engineer who works tickets.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
