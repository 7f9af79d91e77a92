// File: internal/auth/model.go
package auth

import (
	"arta_auction_backend/internal/shared"
	"arta_auction_backend/internal/user"
)

// LoginRequest defines the structure for login requests.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse pairs the authenticated user with their access token.
type LoginResponse struct {
	User  user.UserResponse    `json:"user"`
	Token shared.TokenResponse `json:"token"`
}
