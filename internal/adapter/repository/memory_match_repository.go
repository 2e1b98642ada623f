package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"squadup/internal/domain/entity"
	"squadup/internal/domain/repository"
	"squadup/pkg/errors"
)

type memoryMatchRepository struct {
	mu      sync.Mutex
	matches map[string]*entity.Match
}

func NewMemoryMatchRepository() repository.MatchRepository {
	return &memoryMatchRepository{matches: make(map[string]*entity.Match)}
}

func (r *memoryMatchRepository) Create(ctx context.Context, match *entity.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if match.ID == "" {
		match.ID = uuid.New().String()
	}
	now := time.Now()
	match.CreatedAt = now
	match.UpdatedAt = now
	stored := match.Clone()
	stored.LockTimer = ""
	r.matches[match.ID] = stored
	return nil
}

func (r *memoryMatchRepository) GetByID(ctx context.Context, id string) (*entity.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	match, ok := r.matches[id]
	if !ok {
		return nil, errors.NotFound("Match", nil)
	}
	return match.Clone(), nil
}

func (r *memoryMatchRepository) ListByChatID(ctx context.Context, chatID string) ([]*entity.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Match
	for _, match := range r.matches {
		if match.ChatID == chatID {
			out = append(out, match.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryMatchRepository) ExistsByTitle(ctx context.Context, chatID, title, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, match := range r.matches {
		if id == excludeID || match.ChatID != chatID {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(match.Title), strings.TrimSpace(title)) {
			return true, nil
		}
	}
	return false, nil
}

// Mutate holds the lock across read, fn and write, which serializes
// concurrent mutations of the same store.
func (r *memoryMatchRepository) Mutate(ctx context.Context, id string, fn repository.MutateFunc) (*entity.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.matches[id]
	if !ok {
		return nil, errors.NotFound("Match", nil)
	}

	working := stored.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	working.UpdatedAt = time.Now()

	persisted := working.Clone()
	persisted.LockTimer = ""
	r.matches[id] = persisted
	return working, nil
}

func (r *memoryMatchRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.matches, id)
	return nil
}
