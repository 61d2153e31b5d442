package service

import (
	"context"
	"time"

	"md2img-auth/internal/domain"
)

// SessionStore is the persistence contract the token service needs. The gorm
// store satisfies it; tests substitute an in-memory implementation.
type SessionStore interface {
	Create(ctx context.Context, s *domain.Session) error
	// FindUserByHash resolves a session-hash to its user, honoring expiry.
	// Returns store.ErrRecordNotFound when no live session matches.
	FindUserByHash(ctx context.Context, hash string, now time.Time) (*domain.User, error)
	// DeleteByHash is idempotent; removing a missing session is not an error.
	DeleteByHash(ctx context.Context, hash string) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// TokenService mints opaque bearer tokens, persists only their digests, and
// resolves or revokes sessions by the hash of a presented token.
type TokenService interface {
	// Issue purges expired sessions, then creates a fresh one for the user.
	// The returned token is the only copy that will ever exist in the clear.
	Issue(ctx context.Context, userID int64, userAgent string) (token string, err error)
	// Validate returns the owning user of a live session, or domain.ErrNoSession.
	Validate(ctx context.Context, token string) (*domain.User, error)
	// Revoke deletes the session matching the token. No-op for empty or
	// unknown tokens.
	Revoke(ctx context.Context, token string) error
	TTL() time.Duration
}
