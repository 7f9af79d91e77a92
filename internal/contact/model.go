package contact

import (
	"time"

	"github.com/google/uuid"
)

// Message filters accepted by List.
const (
	StatusOpen = "open"
	StatusAll  = "all"
)

// Contact is one message sent through the contact form.
type Contact struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name       string     `gorm:"type:varchar(200);not null" json:"name"`
	Email      string     `gorm:"type:varchar(255);not null" json:"email"`
	Subject    string     `gorm:"type:varchar(255);not null" json:"subject"`
	Message    string     `gorm:"type:text;not null" json:"message"`
	Resolved   bool       `gorm:"not null;default:false;index" json:"resolved"`
	CreatedAt  time.Time  `gorm:"not null;index" json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// TableName specifies the table name for GORM.
func (Contact) TableName() string {
	return "contacts"
}

// CreateContactRequest is the contact form payload.
type CreateContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ListFilter selects a page of messages.
type ListFilter struct {
	Status   string
	Page     int
	PageSize int
}

// LegacyResponse is the envelope the contact page of the SPA expects.
type LegacyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
