package auth

import (
	"context"
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, name, password string) (string, error)
	Verify(token string) (string, error)
}
