package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"arta_auction_backend/internal/auction"
	"arta_auction_backend/internal/common"
	"arta_auction_backend/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the user operations exposed to handlers and other packages.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	LinkWallet(ctx context.Context, id uuid.UUID, address string) (*User, error)
	GetProfileByWallet(ctx context.Context, address string) (*Profile, error)
	EnsureAdmin(ctx context.Context) (*User, error)
	CountUsers(ctx context.Context) (int64, error)
}

// AuctionStats is the slice of the auction service that profiles need.
type AuctionStats interface {
	WalletStats(ctx context.Context, address string) (auction.WalletStats, error)
	CountActive(ctx context.Context) (int, error)
}

// PendingRequestCounter reports unresolved contact requests.
type PendingRequestCounter interface {
	CountOpen(ctx context.Context) (int64, error)
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo     Repository
	auctions AuctionStats
	requests PendingRequestCounter
	cfg      *config.Config
	logger   *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(
	repo Repository,
	auctions AuctionStats,
	requests PendingRequestCounter,
	cfg *config.Config,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		repo:     repo,
		auctions: auctions,
		requests: requests,
		cfg:      cfg,
		logger:   logger.Named("UserService"),
	}
}

// Register creates a new user with the default role.
func (s *ServiceImplementation) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrConflict.WithDetails("Email already registered.")
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user by email: %w", err)
	}

	hashedPassword, err := common.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	dbUser := &User{
		Username:     strings.TrimSpace(req.Username),
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         common.RoleUser,
	}
	if err := s.repo.Create(ctx, dbUser); err != nil {
		s.logger.Error("Failed to create user in repository", zap.Error(err), zap.String("email", email))
		return nil, err
	}

	s.logger.Info("User registered successfully", zap.String("userID", dbUser.ID.String()))
	return dbUser, nil
}

// Authenticate checks email/password credentials and stamps the login time.
func (s *ServiceImplementation) Authenticate(ctx context.Context, email, password string) (*User, error) {
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found during login", zap.String("email", email))
			return nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
		}
		s.logger.Error("Error finding user by email during login", zap.Error(err), zap.String("email", email))
		return nil, common.ErrInternalServer.WithDetails("Login failed due to an internal error.")
	}

	if !common.CheckPasswordHash(password, dbUser.PasswordHash) {
		s.logger.Warn("Invalid password attempt", zap.String("userID", dbUser.ID.String()))
		return nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
	}

	now := time.Now()
	dbUser.LastLoginAt = &now
	if err := s.repo.Update(ctx, dbUser); err != nil {
		// Not fatal for the login itself.
		s.logger.Error("Failed to update last login time", zap.Error(err), zap.String("userID", dbUser.ID.String()))
	}
	return dbUser, nil
}

// GetUserByID retrieves a user by their ID.
func (s *ServiceImplementation) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// LinkWallet attaches a wallet address to a user. An address can belong to one user only.
func (s *ServiceImplementation) LinkWallet(ctx context.Context, id uuid.UUID, address string) (*User, error) {
	if !common.IsWalletAddress(address) {
		return nil, common.ErrBadRequest.WithDetails("Invalid wallet address.")
	}
	normalized := common.NormalizeWalletAddress(address)

	owner, err := s.repo.FindByWalletAddress(ctx, normalized)
	switch {
	case err == nil && owner.ID != id:
		return nil, common.ErrConflict.WithDetails("Wallet address is already linked to another account.")
	case err != nil && !errors.Is(err, common.ErrNotFound):
		return nil, err
	}

	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dbUser.WalletAddress = &normalized
	if err := s.repo.Update(ctx, dbUser); err != nil {
		return nil, err
	}
	s.logger.Info("Wallet linked", zap.String("userID", id.String()), zap.String("wallet", normalized))
	return dbUser, nil
}

// GetProfileByWallet builds the profile page for a wallet. Unlinked wallets still get
// on-chain activity, with Registered=false.
func (s *ServiceImplementation) GetProfileByWallet(ctx context.Context, address string) (*Profile, error) {
	if !common.IsWalletAddress(address) {
		return nil, common.ErrBadRequest.WithDetails("Invalid wallet address.")
	}
	normalized := common.NormalizeWalletAddress(address)

	profile := &Profile{WalletAddress: normalized, Role: common.RoleUser}

	dbUser, err := s.repo.FindByWalletAddress(ctx, normalized)
	switch {
	case err == nil:
		profile.Registered = true
		profile.Username = dbUser.Username
		profile.Role = dbUser.Role
		profile.AccountCreated = dbUser.CreatedAt.UTC().Format(time.RFC3339)
	case !errors.Is(err, common.ErrNotFound):
		return nil, err
	}

	if s.auctions != nil {
		stats, err := s.auctions.WalletStats(ctx, normalized)
		if err != nil {
			s.logger.Warn("Auction stats unavailable for profile", zap.String("wallet", normalized), zap.Error(err))
		} else {
			profile.AuctionsParticipated = stats.Participated
			profile.AuctionsWon = stats.Won
			profile.AuctionsLeading = stats.Leading
			profile.AuctionsSelling = stats.Selling
		}
	}

	if profile.Role == common.RoleAdmin {
		s.fillAdminAggregates(ctx, profile)
	}
	return profile, nil
}

func (s *ServiceImplementation) fillAdminAggregates(ctx context.Context, profile *Profile) {
	if total, err := s.repo.Count(ctx); err == nil {
		profile.TotalUsers = &total
	} else {
		s.logger.Warn("Counting users failed", zap.Error(err))
	}
	if s.auctions != nil {
		if active, err := s.auctions.CountActive(ctx); err == nil {
			profile.ActiveAuctions = &active
		} else {
			s.logger.Warn("Counting active auctions failed", zap.Error(err))
		}
	}
	if s.requests != nil {
		if pending, err := s.requests.CountOpen(ctx); err == nil {
			profile.PendingRequests = &pending
		} else {
			s.logger.Warn("Counting pending requests failed", zap.Error(err))
		}
	}
}

// EnsureAdmin seeds the configured admin account. It is a no-op without ADMIN_EMAIL/ADMIN_PASSWORD.
func (s *ServiceImplementation) EnsureAdmin(ctx context.Context) (*User, error) {
	if s.cfg == nil || s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		return nil, nil
	}

	existing, err := s.repo.FindByEmail(ctx, s.cfg.AdminEmail)
	if err == nil {
		if existing.Role != common.RoleAdmin {
			existing.Role = common.RoleAdmin
			if err := s.repo.Update(ctx, existing); err != nil {
				return nil, err
			}
			s.logger.Info("Promoted existing user to admin", zap.String("userID", existing.ID.String()))
		}
		return existing, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := common.HashPassword(s.cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := &User{
		Username:     s.cfg.AdminUsername,
		Email:        s.cfg.AdminEmail,
		PasswordHash: hashedPassword,
		Role:         common.RoleAdmin,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, err
	}
	s.logger.Info("Admin account created", zap.String("userID", admin.ID.String()))
	return admin, nil
}

// CountUsers returns the number of registered users.
func (s *ServiceImplementation) CountUsers(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
