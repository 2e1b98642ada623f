package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"squadup/internal/domain/entity"
	"squadup/internal/domain/repository"
	"squadup/pkg/errors"
)

type memoryMessageRepository struct {
	mu   sync.RWMutex
	logs map[string][]entity.Message // chatID -> messages, oldest first
}

func NewMemoryMessageRepository() repository.MessageRepository {
	return &memoryMessageRepository{logs: make(map[string][]entity.Message)}
}

func (r *memoryMessageRepository) Append(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	r.logs[message.ChatID] = append(r.logs[message.ChatID], *message)
	return nil
}

func (r *memoryMessageRepository) Latest(ctx context.Context, chatID string) (*entity.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	log := r.logs[chatID]
	if len(log) == 0 {
		return nil, errors.NotFound("Message", nil)
	}
	m := log[len(log)-1]
	return &m, nil
}

func (r *memoryMessageRepository) ListByChat(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	log := r.logs[chatID]
	total := int64(len(log))

	var out []*entity.Message
	for i := len(log) - 1 - offset; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		m := log[i]
		out = append(out, &m)
	}
	return out, total, nil
}
