package domain

import "time"

// Role values for admin identities.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an identity that can sign into the dashboard.
type User struct {
	ID           string
	Email        string
	Name         string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
}
