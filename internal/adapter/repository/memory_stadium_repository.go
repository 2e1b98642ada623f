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

type memoryStadiumRepository struct {
	mu       sync.RWMutex
	stadiums map[string]entity.Stadium
}

func NewMemoryStadiumRepository() repository.StadiumRepository {
	return &memoryStadiumRepository{stadiums: make(map[string]entity.Stadium)}
}

func (r *memoryStadiumRepository) Create(ctx context.Context, stadium *entity.Stadium) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stadium.ID == "" {
		stadium.ID = uuid.New().String()
	}
	now := time.Now()
	stadium.CreatedAt = now
	stadium.UpdatedAt = now
	r.stadiums[stadium.ID] = *stadium
	return nil
}

func (r *memoryStadiumRepository) GetByID(ctx context.Context, id string) (*entity.Stadium, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stadium, ok := r.stadiums[id]
	if !ok {
		return nil, errors.NotFound("Stadium", nil)
	}
	return &stadium, nil
}

func (r *memoryStadiumRepository) List(ctx context.Context, city string, limit, offset int) ([]*entity.Stadium, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*entity.Stadium
	for _, stadium := range r.stadiums {
		if city != "" && !strings.EqualFold(stadium.City, city) {
			continue
		}
		s := stadium
		all = append(all, &s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	total := int64(len(all))
	if offset > len(all) {
		offset = len(all)
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

func (r *memoryStadiumRepository) Update(ctx context.Context, stadium *entity.Stadium) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stadiums[stadium.ID]; !ok {
		return errors.NotFound("Stadium", nil)
	}
	stadium.UpdatedAt = time.Now()
	r.stadiums[stadium.ID] = *stadium
	return nil
}

func (r *memoryStadiumRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.stadiums, id)
	return nil
}
