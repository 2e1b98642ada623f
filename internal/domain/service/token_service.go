package service

import (
	"context"
	"time"
)

type Claims struct {
	UserID    string
	ExpiresAt time.Time
}

// TokenService signs and verifies session tokens.
type TokenService interface {
	Sign(ctx context.Context, claims Claims, ttl time.Duration) (string, error)
	Verify(ctx context.Context, token string) (*Claims, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
