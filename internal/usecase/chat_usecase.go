package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"squadup/internal/domain/entity"
	"squadup/internal/domain/repository"
	"squadup/internal/infrastructure/ratelimit"
	"squadup/pkg/errors"
	"squadup/pkg/logger"
)

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	notifier    Notifier
	rateLimiter RateLimiter
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	rateLimiter RateLimiter,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		rateLimiter: rateLimiter,
	}
}

type CreateChatInput struct {
	Name    string
	Members []string
}

// loadChat returns a chat that exists and is not soft-deleted.
func (uc *ChatUseCase) loadChat(ctx context.Context, chatID string) (*entity.Chat, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat.IsDeleted {
		return nil, errors.NotFound("Chat", nil)
	}
	return chat, nil
}

func (uc *ChatUseCase) memberChat(ctx context.Context, principal Principal, chatID string) (*entity.Chat, error) {
	chat, err := uc.loadChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.IsMember(principal.UserID) {
		return nil, errors.Forbidden("You are not a member of this chat", nil)
	}
	return chat, nil
}

func (uc *ChatUseCase) adminChat(ctx context.Context, principal Principal, chatID string) (*entity.Chat, error) {
	chat, err := uc.loadChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.IsAdmin(principal.UserID) {
		return nil, errors.Forbidden("Only chat admins can do this", nil)
	}
	return chat, nil
}

func (uc *ChatUseCase) ensureUsersExist(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	users, err := uc.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	found := make(map[string]struct{}, len(users))
	for _, u := range users {
		found[u.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return errors.NotFound("User "+id, nil)
		}
	}
	return nil
}

func (uc *ChatUseCase) CreateChat(ctx context.Context, principal Principal, input CreateChatInput) (*entity.Chat, error) {
	if err := uc.ensureUsersExist(ctx, input.Members); err != nil {
		return nil, err
	}

	chat := &entity.Chat{
		Name:          strings.TrimSpace(input.Name),
		Admins:        []string{principal.UserID},
		CreatedBy:     principal.UserID,
		LastMessageAt: time.Now(),
	}
	chat.AddMembers(input.Members)

	if err := uc.chatRepo.Create(ctx, chat); err != nil {
		return nil, err
	}
	logger.Info("chat %s created by %s with %d participants", chat.ID, principal.UserID, len(chat.Participants))
	return chat, nil
}

func (uc *ChatUseCase) GetUserChats(ctx context.Context, principal Principal) ([]*entity.Chat, error) {
	return uc.chatRepo.ListByUserID(ctx, principal.UserID)
}

func (uc *ChatUseCase) GetChatByID(ctx context.Context, principal Principal, chatID string) (*entity.Chat, error) {
	return uc.memberChat(ctx, principal, chatID)
}

func (uc *ChatUseCase) AddMembers(ctx context.Context, principal Principal, chatID string, members []string) (*entity.Chat, error) {
	chat, err := uc.adminChat(ctx, principal, chatID)
	if err != nil {
		return nil, err
	}
	if err := uc.ensureUsersExist(ctx, members); err != nil {
		return nil, err
	}

	if added := chat.AddMembers(members); len(added) == 0 {
		return chat, nil
	}
	if err := uc.chatRepo.Update(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (uc *ChatUseCase) RemoveMember(ctx context.Context, principal Principal, chatID, userID string) (*entity.Chat, error) {
	chat, err := uc.adminChat(ctx, principal, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.IsMember(userID) {
		return nil, errors.NotFound("Member", nil)
	}
	if chat.IsAdmin(userID) && len(chat.Admins) == 1 {
		return nil, errors.BadRequest("A chat needs at least one admin", nil)
	}

	chat.RemoveMember(userID)
	if err := uc.chatRepo.Update(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (uc *ChatUseCase) PromoteAdmin(ctx context.Context, principal Principal, chatID, userID string) (*entity.Chat, error) {
	chat, err := uc.adminChat(ctx, principal, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.IsMember(userID) {
		return nil, errors.NotFound("Member", nil)
	}

	chat.Promote(userID)
	if err := uc.chatRepo.Update(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (uc *ChatUseCase) DeleteChat(ctx context.Context, principal Principal, chatID string) error {
	chat, err := uc.adminChat(ctx, principal, chatID)
	if err != nil {
		return err
	}
	chat.IsDeleted = true
	return uc.chatRepo.Update(ctx, chat)
}

func (uc *ChatUseCase) SendMessage(ctx context.Context, principal Principal, chatID, content string) (*entity.Message, error) {
	chat, err := uc.memberChat(ctx, principal, chatID)
	if err != nil {
		return nil, err
	}

	if allowed, wait := uc.rateLimiter.Allow(principal.UserID, ratelimit.ActionSendMessage); !allowed {
		logger.Warn("send message rate limited for %s, retry in %v", principal.UserID, wait)
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before sending another message")
	}

	message := &entity.Message{
		ChatID:    chat.ID,
		SenderID:  principal.UserID,
		Content:   strings.TrimSpace(content),
		Type:      entity.MessageTypeText,
		CreatedAt: time.Now(),
	}
	if err := uc.append(ctx, chat, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (uc *ChatUseCase) GetChatMessages(ctx context.Context, principal Principal, chatID string, limit, offset int) ([]*entity.Message, int64, error) {
	if _, err := uc.memberChat(ctx, principal, chatID); err != nil {
		return nil, 0, err
	}
	return uc.messageRepo.ListByChat(ctx, chatID, limit, offset)
}

// PostSystemMessage appends a message from the system sender and syncs the
// chat's last message.
func (uc *ChatUseCase) PostSystemMessage(ctx context.Context, chatID, content string, metadata map[string]interface{}) error {
	chat, err := uc.loadChat(ctx, chatID)
	if err != nil {
		return err
	}

	message := &entity.Message{
		ChatID:    chatID,
		SenderID:  entity.SystemSenderID,
		Content:   content,
		Type:      entity.MessageTypeSystem,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}
	return uc.append(ctx, chat, message)
}

func (uc *ChatUseCase) append(ctx context.Context, chat *entity.Chat, message *entity.Message) error {
	if err := uc.messageRepo.Append(ctx, message); err != nil {
		return err
	}

	if err := uc.chatRepo.UpdateLastMessage(ctx, chat.ID, message.Content, message.CreatedAt); err != nil {
		logger.Error("failed to sync last message for chat %s: %v", chat.ID, err)
	}

	frame, err := json.Marshal(map[string]interface{}{
		"type":    "new_message",
		"chat_id": chat.ID,
		"message": message,
	})
	if err != nil {
		logger.Error("failed to encode websocket frame for chat %s: %v", chat.ID, err)
		return nil
	}
	uc.notifier.SendToUsers(chat.Everyone(), frame)
	return nil
}

// LatestMessage reads the newest entry of a chat's log, as a member.
func (uc *ChatUseCase) LatestMessage(ctx context.Context, principal Principal, chatID string) (*entity.Message, error) {
	if _, err := uc.memberChat(ctx, principal, chatID); err != nil {
		return nil, err
	}
	return uc.messageRepo.Latest(ctx, chatID)
}
