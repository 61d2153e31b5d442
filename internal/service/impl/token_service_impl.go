package impl

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"time"

	"md2img-auth/internal/domain"
	"md2img-auth/internal/service"
	"md2img-auth/internal/store"
)

const (
	// 256 bits of entropy for the bearer token itself.
	sessionTokenBytes = 32
	// The session id is a row key, not a secret; authorization rides on the
	// hash of the token, never the id.
	sessionIDBytes  = 16
	sessionIDPrefix = "sess_"
)

// RandomToken draws n cryptographically secure random bytes and encodes them
// URL-safe-base64 without padding.
func RandomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken is the one-way digest used for session tokens at rest.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

type TokenServiceImpl struct {
	sessions service.SessionStore
	ttl      time.Duration
	now      func() time.Time
}

func NewTokenService(sessions service.SessionStore, ttl time.Duration) *TokenServiceImpl {
	return &TokenServiceImpl{
		sessions: sessions,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (t *TokenServiceImpl) Issue(ctx context.Context, userID int64, userAgent string) (string, error) {
	now := t.now().UTC()

	// Opportunistic GC keeps the table bounded without a scheduler. The
	// purge and the insert are independent statements; a failure between
	// them surfaces as an internal error, never a half-valid session.
	if _, err := t.sessions.PurgeExpired(ctx, now); err != nil {
		return "", err
	}

	token, err := RandomToken(sessionTokenBytes)
	if err != nil {
		return "", err
	}
	id, err := RandomToken(sessionIDBytes)
	if err != nil {
		return "", err
	}

	s := &domain.Session{
		ID:          sessionIDPrefix + id,
		UserID:      userID,
		SessionHash: HashToken(token),
		ExpiresAt:   now.Add(t.ttl),
		UserAgent:   userAgent,
		CreatedAt:   now,
	}
	if err := t.sessions.Create(ctx, s); err != nil {
		return "", err
	}
	return token, nil
}

func (t *TokenServiceImpl) Validate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrNoSession
	}
	u, err := t.sessions.FindUserByHash(ctx, HashToken(token), t.now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrNoSession
		}
		return nil, err
	}
	return u, nil
}

func (t *TokenServiceImpl) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return t.sessions.DeleteByHash(ctx, HashToken(token))
}

func (t *TokenServiceImpl) TTL() time.Duration { return t.ttl }
