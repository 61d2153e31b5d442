package impl

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"md2img-auth/internal/domain"
	"md2img-auth/internal/dto"
	"md2img-auth/internal/service"
	"md2img-auth/internal/store"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail lower-cases and trims; emails are case-insensitive and are
// stored normalized, so lookups stay exact-match.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type AuthServiceImpl struct {
	users     service.UserStore
	passwords service.PasswordService
	tokens    service.TokenService
}

func NewAuthService(users service.UserStore, passwords service.PasswordService, tokens service.TokenService) *AuthServiceImpl {
	return &AuthServiceImpl{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
	}
}

func (a *AuthServiceImpl) Register(ctx context.Context, r dto.CredentialsRequest, userAgent string) (*domain.User, string, error) {
	email := NormalizeEmail(r.Email)
	if !emailPattern.MatchString(email) {
		return nil, "", domain.ErrInvalidEmail
	}
	if utf8.RuneCountInString(r.Password) < MinPasswordLength {
		return nil, "", domain.ErrPasswordTooShort
	}

	// Friendly fast path. The authoritative guard against concurrent
	// registration is the unique index on users.email; the insert below
	// maps its violation to the same conflict.
	if _, err := a.users.GetByEmail(ctx, email); err == nil {
		return nil, "", domain.ErrEmailTaken
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return nil, "", err
	}

	hash, salt, err := a.passwords.Hash(r.Password)
	if err != nil {
		return nil, "", err
	}

	u := &domain.User{
		Email:        email,
		PasswordHash: hash,
		PasswordSalt: salt,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, "", domain.ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := a.tokens.Issue(ctx, u.ID, userAgent)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (a *AuthServiceImpl) Login(ctx context.Context, r dto.CredentialsRequest, userAgent string) (*domain.User, string, error) {
	email := NormalizeEmail(r.Email)
	if !emailPattern.MatchString(email) {
		return nil, "", domain.ErrInvalidEmail
	}
	if r.Password == "" {
		return nil, "", domain.ErrEmptyCredential
	}

	u, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			// Same outcome as a wrong password; don't leak which.
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !a.passwords.Verify(r.Password, u.PasswordSalt, u.PasswordHash) {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := a.tokens.Issue(ctx, u.ID, userAgent)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	return a.tokens.Revoke(ctx, token)
}

func (a *AuthServiceImpl) UserFromToken(ctx context.Context, token string) (*domain.User, error) {
	return a.tokens.Validate(ctx, token)
}
