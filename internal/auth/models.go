// Package auth manages admin users and session tokens for the CRM surface.
package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is an admin account. PasswordHash is a bcrypt hash.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the signed session token.
type LoginResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}
