// File: internal/user/model.go
package user

import (
	"time"

	"arta_auction_backend/internal/common"

	"github.com/google/uuid"
)

// User represents the user model in the database.
type User struct {
	common.BaseModel
	Username      string  `gorm:"type:varchar(100);not null"`
	Email         string  `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash  string  `gorm:"type:varchar(255);not null"`
	Role          string  `gorm:"type:varchar(50);not null;default:'user'"`
	WalletAddress *string `gorm:"type:varchar(42);uniqueIndex"` // lowercased 0x address
	LastLoginAt   *time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

func (u *User) GetID() uuid.UUID {
	return u.ID
}

func (u *User) GetEmail() string {
	return u.Email
}

func (u *User) GetRole() string {
	return u.Role
}

// --- DTOs ---

// RegisterRequest mirrors the SPA registration form.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,notblank,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4,max=72"` // bcrypt max is 72 bytes
}

// LinkWalletRequest attaches a wallet address to the authenticated user.
type LinkWalletRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required,eth_addr"`
}

// UserResponse defines the structure for user data sent in API responses.
type UserResponse struct {
	ID            uuid.UUID  `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	Role          string     `json:"role"`
	WalletAddress *string    `json:"wallet_address,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
}

// ToUserResponse converts a User model to a UserResponse DTO.
func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Role:          u.Role,
		WalletAddress: u.WalletAddress,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
		LastLoginAt:   u.LastLoginAt,
	}
}

// Profile is the wallet-keyed view the SPA profile page renders.
// Field names follow the page's JSON contract.
type Profile struct {
	WalletAddress        string `json:"walletAddress"`
	Registered           bool   `json:"registered"`
	Username             string `json:"username,omitempty"`
	Role                 string `json:"role"`
	AuctionsParticipated int    `json:"auctionsParticipated"`
	AuctionsWon          int    `json:"auctionsWon"`
	AuctionsLeading      int    `json:"auctionsLeading"`
	AuctionsSelling      int    `json:"auctionsSelling"`
	AccountCreated       string `json:"accountCreated"`

	// Admin-only aggregates.
	TotalUsers      *int64 `json:"totalUsers,omitempty"`
	ActiveAuctions  *int   `json:"activeAuctions,omitempty"`
	PendingRequests *int64 `json:"pendingRequests,omitempty"`
}
