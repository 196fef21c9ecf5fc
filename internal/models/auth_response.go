package models

import (
	"time"

	"tasker-be/internal/entities"
)

// UserResponse is the external representation of a user. Password hash,
// token list and avatar bytes never leave the server.
type UserResponse struct {
	ID        string    `json:"id"` // UUID
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserResponse projects a user entity onto its public shape
func NewUserResponse(u *entities.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// AuthResponse represents the response after successful signup or login
type AuthResponse struct {
	User  *UserResponse `json:"user"`
	Token string        `json:"token"` // JWT token
}
