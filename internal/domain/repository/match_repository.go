package repository

import (
	"context"

	"squadup/internal/domain/entity"
)

// MutateFunc edits a freshly read match. Returning an error aborts the write.
// It may run more than once when the store retries on contention.
type MutateFunc func(match *entity.Match) error

type MatchRepository interface {
	Create(ctx context.Context, match *entity.Match) error
	GetByID(ctx context.Context, id string) (*entity.Match, error)
	ListByChatID(ctx context.Context, chatID string) ([]*entity.Match, error)
	ExistsByTitle(ctx context.Context, chatID, title, excludeID string) (bool, error)
	// Mutate runs fn and writes its result atomically against the stored version.
	Mutate(ctx context.Context, id string, fn MutateFunc) (*entity.Match, error)
	Delete(ctx context.Context, id string) error
}
