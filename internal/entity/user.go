package entity

import (
	"time"

	"github.com/google/uuid"
)

// Roles assignable to users.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an authenticated account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
