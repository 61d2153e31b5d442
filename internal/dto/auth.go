package dto

import "md2img-auth/internal/domain"

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func NewUser(u *domain.User) User {
	return User{ID: u.ID, Email: u.Email}
}

type AuthResponse struct {
	User User `json:"user"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
