package domain

import "time"

// Session represents an issued session token.
type Session struct {
	TokenID   string
	UserID    string
	Email     string
	Name      string
	Role      UserRole
	IssuedAt  time.Time
	ExpiresAt time.Time
}
