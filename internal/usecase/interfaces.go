package usecase

import (
	"context"
	"time"
)

// Principal is the authenticated caller. Handlers build it from the verified
// token and pass it into every operation.
type Principal struct {
	UserID string
}

// Notifier pushes realtime frames to connected users.
type Notifier interface {
	SendToUsers(userIDs []string, payload []byte)
}

// SystemMessenger posts lifecycle messages into a chat's log.
type SystemMessenger interface {
	PostSystemMessage(ctx context.Context, chatID, content string, metadata map[string]interface{}) error
}

// RateLimiter is satisfied by ratelimit.RateLimiter.
type RateLimiter interface {
	Allow(key, action string) (bool, time.Duration)
}
