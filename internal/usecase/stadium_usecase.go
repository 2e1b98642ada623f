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

type StadiumUseCase struct {
	stadiumRepo repository.StadiumRepository
	blobs       service.BlobStore
}

func NewStadiumUseCase(stadiumRepo repository.StadiumRepository, blobs service.BlobStore) *StadiumUseCase {
	return &StadiumUseCase{
		stadiumRepo: stadiumRepo,
		blobs:       blobs,
	}
}

type CreateStadiumInput struct {
	Name         string
	Address      string
	City         string
	PricePerHour int64
}

type UpdateStadiumInput struct {
	Name         *string
	Address      *string
	City         *string
	PricePerHour *int64
}

func (uc *StadiumUseCase) owned(ctx context.Context, principal Principal, stadiumID string) (*entity.Stadium, error) {
	stadium, err := uc.stadiumRepo.GetByID(ctx, stadiumID)
	if err != nil {
		return nil, err
	}
	if stadium.CreatedBy != principal.UserID {
		return nil, errors.Forbidden("Only the creator can modify this stadium", nil)
	}
	return stadium, nil
}

func (uc *StadiumUseCase) CreateStadium(ctx context.Context, principal Principal, input CreateStadiumInput) (*entity.Stadium, error) {
	if input.PricePerHour < 0 {
		return nil, errors.BadRequest("price_per_hour must not be negative", nil)
	}

	stadium := &entity.Stadium{
		Name:         strings.TrimSpace(input.Name),
		Address:      strings.TrimSpace(input.Address),
		City:         strings.TrimSpace(input.City),
		PricePerHour: input.PricePerHour,
		CreatedBy:    principal.UserID,
	}
	if err := uc.stadiumRepo.Create(ctx, stadium); err != nil {
		return nil, err
	}
	return stadium, nil
}

func (uc *StadiumUseCase) ListStadiums(ctx context.Context, city string, limit, offset int) ([]*entity.Stadium, int64, error) {
	return uc.stadiumRepo.List(ctx, strings.TrimSpace(city), limit, offset)
}

func (uc *StadiumUseCase) GetStadium(ctx context.Context, stadiumID string) (*entity.Stadium, error) {
	return uc.stadiumRepo.GetByID(ctx, stadiumID)
}

func (uc *StadiumUseCase) UpdateStadium(ctx context.Context, principal Principal, stadiumID string, input UpdateStadiumInput) (*entity.Stadium, error) {
	stadium, err := uc.owned(ctx, principal, stadiumID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		stadium.Name = strings.TrimSpace(*input.Name)
	}
	if input.Address != nil {
		stadium.Address = strings.TrimSpace(*input.Address)
	}
	if input.City != nil {
		stadium.City = strings.TrimSpace(*input.City)
	}
	if input.PricePerHour != nil {
		if *input.PricePerHour < 0 {
			return nil, errors.BadRequest("price_per_hour must not be negative", nil)
		}
		stadium.PricePerHour = *input.PricePerHour
	}

	if err := uc.stadiumRepo.Update(ctx, stadium); err != nil {
		return nil, err
	}
	return stadium, nil
}

func (uc *StadiumUseCase) DeleteStadium(ctx context.Context, principal Principal, stadiumID string) error {
	stadium, err := uc.owned(ctx, principal, stadiumID)
	if err != nil {
		return err
	}
	if err := uc.stadiumRepo.Delete(ctx, stadium.ID); err != nil {
		return err
	}
	if stadium.ImageURL != "" {
		if err := uc.blobs.Delete(ctx, stadium.ImageURL); err != nil {
			logger.Warn("failed to delete image of stadium %s: %v", stadium.ID, err)
		}
	}
	return nil
}

func (uc *StadiumUseCase) UpdateImage(ctx context.Context, principal Principal, stadiumID string, data []byte, contentType string) (*entity.Stadium, error) {
	stadium, err := uc.owned(ctx, principal, stadiumID)
	if err != nil {
		return nil, err
	}

	url, err := uc.blobs.Put(ctx, "stadiums", data, contentType)
	if err != nil {
		return nil, errors.Internal("Failed to upload stadium image", err)
	}

	previous := stadium.ImageURL
	stadium.ImageURL = url
	if err := uc.stadiumRepo.Update(ctx, stadium); err != nil {
		return nil, err
	}

	if previous != "" {
		if err := uc.blobs.Delete(ctx, previous); err != nil {
			logger.Warn("failed to delete old image of stadium %s: %v", stadium.ID, err)
		}
	}
	return stadium, nil
}
