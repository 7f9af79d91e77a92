// File: internal/auth/blocklist.go
package auth

import (
	"context"
	"time"

	"arta_auction_backend/internal/shared"

	"github.com/patrickmn/go-cache"
)

// InMemoryBlocklistService keeps revoked token IDs in a go-cache until the token would have expired.
type InMemoryBlocklistService struct {
	cache *cache.Cache
}

var _ shared.TokenBlocklist = (*InMemoryBlocklistService)(nil)

// InMemoryBlocklistConfig holds the configuration for the InMemoryBlocklistService.
type InMemoryBlocklistConfig struct {
	DefaultExpiration time.Duration
	CleanupInterval   time.Duration
}

// NewInMemoryBlocklistService creates a new in-memory blocklist service.
func NewInMemoryBlocklistService(cfg InMemoryBlocklistConfig) *InMemoryBlocklistService {
	return &InMemoryBlocklistService{
		cache: cache.New(cfg.DefaultExpiration, cfg.CleanupInterval),
	}
}

// NewDefaultBlocklist is the blocklist the server wires in.
func NewDefaultBlocklist() shared.TokenBlocklist {
	return NewInMemoryBlocklistService(InMemoryBlocklistConfig{
		DefaultExpiration: time.Hour,
		CleanupInterval:   10 * time.Minute,
	})
}

// AddToBlocklist records jti until expiresAt. Already-expired tokens are ignored.
func (s *InMemoryBlocklistService) AddToBlocklist(_ context.Context, jti string, expiresAt time.Time) error {
	duration := time.Until(expiresAt)
	if duration <= 0 {
		return nil
	}
	s.cache.Set(jti, true, duration)
	return nil
}

// IsBlocklisted checks if a token JTI exists in the in-memory cache.
func (s *InMemoryBlocklistService) IsBlocklisted(_ context.Context, jti string) (bool, error) {
	_, found := s.cache.Get(jti)
	return found, nil
}
