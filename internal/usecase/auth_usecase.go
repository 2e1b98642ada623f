package usecase

import (
	"context"
	"strings"
	"time"

	"squadup/internal/domain/entity"
	"squadup/internal/domain/repository"
	"squadup/internal/domain/service"
	"squadup/internal/infrastructure/ratelimit"
	"squadup/pkg/errors"
	"squadup/pkg/logger"
)

type AuthUseCase struct {
	userRepo    repository.UserRepository
	tokens      service.TokenService
	hasher      service.PasswordHasher
	rateLimiter RateLimiter
	tokenTTL    time.Duration
}

func NewAuthUseCase(
	userRepo repository.UserRepository,
	tokens service.TokenService,
	hasher service.PasswordHasher,
	rateLimiter RateLimiter,
	tokenTTL time.Duration,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:    userRepo,
		tokens:      tokens,
		hasher:      hasher,
		rateLimiter: rateLimiter,
		tokenTTL:    tokenTTL,
	}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

type AuthResult struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, errors.Conflict("Email already in use")
	}
	if err != nil && !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	user := &entity.User{
		Email:        email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := uc.issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	logger.Info("registered user %s", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if allowed, wait := uc.rateLimiter.Allow(email, ratelimit.ActionLogin); !allowed {
		logger.Warn("login rate limited for %s, retry in %v", email, wait)
		return nil, errors.TooManyRequests("Too many login attempts, try again later")
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.Unauthorized("Invalid credentials", nil)
		}
		return nil, err
	}

	if err := uc.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, errors.Unauthorized("Invalid credentials", nil)
	}

	token, err := uc.issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Authenticate resolves a bearer token into a principal.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (Principal, error) {
	claims, err := uc.tokens.Verify(ctx, token)
	if err != nil {
		return Principal{}, errors.Unauthorized("Invalid or expired token", err)
	}
	return Principal{UserID: claims.UserID}, nil
}

func (uc *AuthUseCase) issue(ctx context.Context, userID string) (string, error) {
	token, err := uc.tokens.Sign(ctx, service.Claims{UserID: userID}, uc.tokenTTL)
	if err != nil {
		return "", errors.Internal("Failed to generate authentication token", err)
	}
	return token, nil
}
