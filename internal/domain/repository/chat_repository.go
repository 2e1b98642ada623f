package repository

import (
	"context"
	"time"

	"squadup/internal/domain/entity"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	ListByUserID(ctx context.Context, userID string) ([]*entity.Chat, error)
	Update(ctx context.Context, chat *entity.Chat) error
	UpdateLastMessage(ctx context.Context, chatID, content string, at time.Time) error
}

// MessageRepository is the append-only message log kept per chat.
type MessageRepository interface {
	Append(ctx context.Context, message *entity.Message) error
	Latest(ctx context.Context, chatID string) (*entity.Message, error)
	ListByChat(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error)
}
