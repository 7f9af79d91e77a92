package contact

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"arta_auction_backend/internal/common"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Contact form errors.
var (
	ErrMissingFields = common.NewAPIError(http.StatusBadRequest, "MISSING_FIELDS", "All fields are required")
	ErrInvalidEmail  = common.NewAPIError(http.StatusBadRequest, "INVALID_EMAIL", "Please provide a valid email address")
)

// Service defines the contact message operations.
type Service interface {
	Submit(ctx context.Context, req CreateContactRequest) (*Contact, error)
	GetMessage(ctx context.Context, id uuid.UUID) (*Contact, error)
	ListMessages(ctx context.Context, filter ListFilter) ([]Contact, *common.Pagination, error)
	Resolve(ctx context.Context, id uuid.UUID) (*Contact, error)
	DeleteMessage(ctx context.Context, id uuid.UUID) error
	CountOpen(ctx context.Context) (int64, error)
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo     Repository
	validate *validator.Validate
	now      func() time.Time
	logger   *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new contact service.
func NewService(repo Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:     repo,
		validate: validator.New(),
		now:      time.Now,
		logger:   logger.Named("ContactService"),
	}
}

// Submit stores a contact form message. Every submission is a new message.
func (s *ServiceImplementation) Submit(ctx context.Context, req CreateContactRequest) (*Contact, error) {
	contact := &Contact{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}
	if contact.Name == "" || contact.Email == "" || contact.Subject == "" || contact.Message == "" {
		return nil, ErrMissingFields
	}
	if err := s.validate.Var(contact.Email, "email"); err != nil {
		return nil, ErrInvalidEmail
	}

	contact.ID = uuid.New()
	contact.CreatedAt = s.now().UTC()
	if err := s.repo.Create(ctx, contact); err != nil {
		s.logger.Error("Failed to save contact message", zap.String("email", contact.Email), zap.Error(err))
		return nil, err
	}
	s.logger.Info("Contact form submitted",
		zap.String("id", contact.ID.String()),
		zap.String("email", contact.Email),
		zap.String("subject", contact.Subject),
	)
	return contact, nil
}

func (s *ServiceImplementation) GetMessage(ctx context.Context, id uuid.UUID) (*Contact, error) {
	return s.repo.FindByID(ctx, id)
}

// ListMessages returns messages newest first. Status is "open" or "all".
func (s *ServiceImplementation) ListMessages(ctx context.Context, filter ListFilter) ([]Contact, *common.Pagination, error) {
	status := strings.ToLower(strings.TrimSpace(filter.Status))
	switch status {
	case "", StatusAll:
		return s.repo.List(ctx, false, filter.Page, filter.PageSize)
	case StatusOpen:
		return s.repo.List(ctx, true, filter.Page, filter.PageSize)
	default:
		return nil, nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("Unknown status %q; use open or all.", filter.Status))
	}
}

// Resolve marks a message handled. Resolving twice keeps the first timestamp.
func (s *ServiceImplementation) Resolve(ctx context.Context, id uuid.UUID) (*Contact, error) {
	contact, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact.Resolved {
		return contact, nil
	}

	at := s.now().UTC()
	if err := s.repo.MarkResolved(ctx, id, at); err != nil {
		return nil, err
	}
	contact.Resolved = true
	contact.ResolvedAt = &at
	return contact, nil
}

func (s *ServiceImplementation) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// CountOpen is the admin "pending requests" figure.
func (s *ServiceImplementation) CountOpen(ctx context.Context) (int64, error) {
	return s.repo.CountOpen(ctx)
}
