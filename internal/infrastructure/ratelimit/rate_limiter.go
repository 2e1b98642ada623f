package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	ActionSendMessage = "send_message"
	ActionCreateMatch = "create_match"
	ActionLogin       = "login"
	ActionRegister    = "register"
)

// TokenBucket refills refillRate tokens every refillTime, up to maxTokens.
type TokenBucket struct {
	tokens     int
	maxTokens  int
	refillRate int
	refillTime time.Duration
	lastRefill time.Time
	lastUsed   time.Time
	mutex      sync.Mutex
}

func NewTokenBucket(maxTokens, refillRate int, refillTime time.Duration) *TokenBucket {
	now := time.Now()
	return &TokenBucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		refillTime: refillTime,
		lastRefill: now,
		lastUsed:   now,
	}
}

// Allow consumes a token if one is available. Otherwise it returns the wait
// until the next refill.
func (tb *TokenBucket) Allow() (bool, time.Duration) {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	now := time.Now()
	tb.lastUsed = now

	if intervals := int(now.Sub(tb.lastRefill) / tb.refillTime); intervals > 0 {
		tb.tokens += intervals * tb.refillRate
		if tb.tokens > tb.maxTokens {
			tb.tokens = tb.maxTokens
		}
		tb.lastRefill = tb.lastRefill.Add(time.Duration(intervals) * tb.refillTime)
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true, 0
	}
	return false, tb.lastRefill.Add(tb.refillTime).Sub(now)
}

func (tb *TokenBucket) idleSince(now time.Time) time.Duration {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()
	return now.Sub(tb.lastUsed)
}

// RateLimiter keeps one bucket per key and action.
type RateLimiter struct {
	buckets map[string]*TokenBucket
	mutex   sync.Mutex
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*TokenBucket),
	}
}

func newBucket(action string) *TokenBucket {
	switch action {
	case ActionSendMessage:
		// 10 messages per minute
		return NewTokenBucket(10, 1, 6*time.Second)
	case ActionCreateMatch:
		// 10 matches per hour
		return NewTokenBucket(10, 1, 6*time.Minute)
	case ActionLogin:
		// 5 attempts per minute
		return NewTokenBucket(5, 1, 12*time.Second)
	case ActionRegister:
		// 5 sign ups per 10 minutes from one address
		return NewTokenBucket(5, 1, 2*time.Minute)
	default:
		return NewTokenBucket(20, 1, 3*time.Second)
	}
}

func (rl *RateLimiter) Allow(key, action string) (bool, time.Duration) {
	id := key + ":" + action

	rl.mutex.Lock()
	bucket, exists := rl.buckets[id]
	if !exists {
		bucket = newBucket(action)
		rl.buckets[id] = bucket
	}
	rl.mutex.Unlock()

	return bucket.Allow()
}

// Cleanup drops buckets idle for longer than maxIdle.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	for key, bucket := range rl.buckets {
		if bucket.idleSince(now) > maxIdle {
			delete(rl.buckets, key)
		}
	}
}

func (rl *RateLimiter) StartCleanupRoutine(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup(time.Hour)
			case <-ctx.Done():
				return
			}
		}
	}()
}
