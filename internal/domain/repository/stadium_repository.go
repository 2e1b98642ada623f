package repository

import (
	"context"

	"squadup/internal/domain/entity"
)

type StadiumRepository interface {
	Create(ctx context.Context, stadium *entity.Stadium) error
	GetByID(ctx context.Context, id string) (*entity.Stadium, error)
	List(ctx context.Context, city string, limit, offset int) ([]*entity.Stadium, int64, error)
	Update(ctx context.Context, stadium *entity.Stadium) error
	Delete(ctx context.Context, id string) error
}
