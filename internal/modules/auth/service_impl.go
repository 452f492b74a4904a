package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/georgemunganga/kasir-backend/internal/modules/user"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "kasir"

type service struct {
	users  user.Service
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates a new auth service. Tokens are signed with secret and
// expire after ttl.
func NewService(users user.Service, secret string, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &service{users: users, secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *service) Login(ctx context.Context, name, password string) (string, error) {
	u, err := s.users.GetUser(ctx, name)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := s.now()
	claims := &jwt.StandardClaims{
		Id:        uuid.NewString(),
		Issuer:    issuer,
		Subject:   u.Name,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// Verify checks the signature and expiry of tokenString and returns the
// cashier name it was issued to.
func (s *service) Verify(tokenString string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Issuer != issuer || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
