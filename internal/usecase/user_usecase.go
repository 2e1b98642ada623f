package usecase

import (
	"context"
	"strings"

	"squadup/internal/domain/entity"
	"squadup/internal/domain/repository"
	"squadup/internal/domain/service"
	"squadup/pkg/errors"
	"squadup/pkg/logger"
)

type UserUseCase struct {
	userRepo repository.UserRepository
	blobs    service.BlobStore
}

func NewUserUseCase(userRepo repository.UserRepository, blobs service.BlobStore) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		blobs:    blobs,
	}
}

type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

func (uc *UserUseCase) GetProfile(ctx context.Context, principal Principal) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, principal.UserID)
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, principal Principal, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateAvatar uploads a new profile picture. The previous picture is
// deleted best effort.
func (uc *UserUseCase) UpdateAvatar(ctx context.Context, principal Principal, data []byte, contentType string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	url, err := uc.blobs.Put(ctx, "users", data, contentType)
	if err != nil {
		return nil, errors.Internal("Failed to upload profile picture", err)
	}

	previous := user.ProfileURL
	user.ProfileURL = url
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if previous != "" {
		if err := uc.blobs.Delete(ctx, previous); err != nil {
			logger.Warn("failed to delete old profile picture %s: %v", previous, err)
		}
	}
	return user, nil
}
