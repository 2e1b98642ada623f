package firebase

import (
	"context"
	"time"

	"firebase.google.com/go/v4/auth"

	"squadup/internal/domain/service"
)

// TokenService delegates sessions to Firebase Auth. Sign mints a custom
// token for the user id; clients exchange it for an ID token with the
// Firebase SDK and send that ID token back as the bearer credential.
type TokenService struct {
	client *auth.Client
}

func NewTokenService(client *auth.Client) *TokenService {
	return &TokenService{
		client: client,
	}
}

// Sign ignores ttl: Firebase custom tokens always expire after one hour.
func (s *TokenService) Sign(ctx context.Context, claims service.Claims, ttl time.Duration) (string, error) {
	return s.client.CustomToken(ctx, claims.UserID)
}

func (s *TokenService) Verify(ctx context.Context, token string) (*service.Claims, error) {
	result, err := s.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return &service.Claims{
		UserID:    result.UID,
		ExpiresAt: time.Unix(result.Expires, 0),
	}, nil
}
