package repository

import (
	"context"

	"squadup/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByIDs returns the users that exist, in the order of ids.
	GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}
