package service

import (
	"context"

	"md2img-auth/internal/domain"
	"md2img-auth/internal/dto"
)

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	// GetByEmail looks up by the normalized (lower-cased, trimmed) email.
	// Returns store.ErrRecordNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type AuthService interface {
	Register(ctx context.Context, r dto.CredentialsRequest, userAgent string) (*domain.User, string, error)
	Login(ctx context.Context, r dto.CredentialsRequest, userAgent string) (*domain.User, string, error)
	Logout(ctx context.Context, token string) error
	// UserFromToken resolves the session cookie's bearer token to a user.
	UserFromToken(ctx context.Context, token string) (*domain.User, error)
}
