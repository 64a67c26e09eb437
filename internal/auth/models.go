package auth

import (
	"github.com/google/uuid"
)

// RegisterTrainerRequest is the body for POST /v1/auth/register/trainer
type RegisterTrainerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// RegisterClientRequest is the body for POST /v1/auth/register/client.
// InviteCode pairs the new client with the issuing trainer.
type RegisterClientRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	InviteCode string `json:"invite_code"`
}

// LoginRequest is the body for POST /v1/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by every successful auth operation.
type AuthResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	UserID      uuid.UUID `json:"user_id"`
	Role        string    `json:"role"`
	ProfileID   uuid.UUID `json:"profile_id"` // trainer or client profile id
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
