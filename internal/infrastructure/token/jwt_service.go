package token

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"squadup/internal/domain/service"
)

const issuer = "squadup"

type JWTService struct {
	secret []byte
	now    func() time.Time
}

func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret), now: time.Now}
}

func (s *JWTService) Sign(ctx context.Context, claims service.Claims, ttl time.Duration) (string, error) {
	now := s.now()
	registered := jwt.RegisteredClaims{
		Subject:   claims.UserID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, registered).SignedString(s.secret)
}

func (s *JWTService) Verify(ctx context.Context, raw string) (*service.Claims, error) {
	var registered jwt.RegisteredClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	tok, err := parser.ParseWithClaims(raw, &registered, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid || registered.Subject == "" {
		return nil, fmt.Errorf("invalid token")
	}
	if !registered.VerifyIssuer(issuer, true) {
		return nil, fmt.Errorf("unexpected issuer %q", registered.Issuer)
	}

	claims := &service.Claims{UserID: registered.Subject}
	if registered.ExpiresAt != nil {
		claims.ExpiresAt = registered.ExpiresAt.Time
	}
	return claims, nil
}
