package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"squadup/internal/domain/entity"
	"squadup/internal/domain/repository"
	"squadup/pkg/errors"
)

// The memory repositories back DATABASE_DRIVER=memory for local runs and
// the test suites. Every read returns a copy.

type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]entity.User
}

func NewMemoryUserRepository() repository.UserRepository {
	return &memoryUserRepository{users: make(map[string]entity.User)}
}

func (r *memoryUserRepository) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if _, exists := r.users[user.ID]; exists {
		return errors.Conflict("User already exists")
	}
	user.Email = strings.ToLower(user.Email)
	for _, existing := range r.users {
		if user.Email != "" && existing.Email == user.Email {
			return errors.Conflict("Email already in use")
		}
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return &user, nil
}

func (r *memoryUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(email)
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *memoryUserRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*entity.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			u := user
			users = append(users, &u)
		}
	}
	return users, nil
}

func (r *memoryUserRepository) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	stored.Phone = user.Phone
	stored.ProfileURL = user.ProfileURL
	stored.UpdatedAt = time.Now()
	user.UpdatedAt = stored.UpdatedAt
	r.users[user.ID] = stored
	return nil
}
