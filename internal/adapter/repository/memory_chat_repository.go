package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"squadup/internal/domain/entity"
	"squadup/internal/domain/repository"
	"squadup/pkg/errors"
)

type memoryChatRepository struct {
	mu    sync.RWMutex
	chats map[string]entity.Chat
}

func NewMemoryChatRepository() repository.ChatRepository {
	return &memoryChatRepository{chats: make(map[string]entity.Chat)}
}

func cloneChat(c entity.Chat) *entity.Chat {
	c.Admins = append([]string(nil), c.Admins...)
	c.Members = append([]string(nil), c.Members...)
	c.Participants = append([]string(nil), c.Participants...)
	return &c
}

func (r *memoryChatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if chat.ID == "" {
		chat.ID = uuid.New().String()
	}
	now := time.Now()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	chat.SyncParticipants()
	r.chats[chat.ID] = *cloneChat(*chat)
	return nil
}

func (r *memoryChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chat, ok := r.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	return cloneChat(chat), nil
}

func (r *memoryChatRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Chat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var chats []*entity.Chat
	for _, chat := range r.chats {
		if chat.IsDeleted || !chat.IsMember(userID) {
			continue
		}
		chats = append(chats, cloneChat(chat))
	}
	sort.SliceStable(chats, func(i, j int) bool {
		return chats[i].LastMessageAt.After(chats[j].LastMessageAt)
	})
	return chats, nil
}

func (r *memoryChatRepository) Update(ctx context.Context, chat *entity.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.chats[chat.ID]; !ok {
		return errors.NotFound("Chat", nil)
	}
	chat.UpdatedAt = time.Now()
	chat.SyncParticipants()
	r.chats[chat.ID] = *cloneChat(*chat)
	return nil
}

func (r *memoryChatRepository) UpdateLastMessage(ctx context.Context, chatID, content string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	chat, ok := r.chats[chatID]
	if !ok {
		return errors.NotFound("Chat", nil)
	}
	chat.LastMessage = content
	chat.LastMessageAt = at
	chat.UpdatedAt = time.Now()
	r.chats[chatID] = chat
	return nil
}
