package usecase

import (
	"context"
	"fmt"
	"strings"

	"squadup/internal/domain/entity"
	"squadup/internal/domain/repository"
	"squadup/internal/domain/service"
	"squadup/internal/infrastructure/ratelimit"
	"squadup/pkg/errors"
	"squadup/pkg/logger"
)

// MatchUseCase sequences every match operation: load, closed check, chat
// lookup, authorization, mutation, persistence and chat sync.
type MatchUseCase struct {
	matchRepo   repository.MatchRepository
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	stadiumRepo repository.StadiumRepository
	messenger   SystemMessenger
	gate        *service.LockGate
	rateLimiter RateLimiter
}

func NewMatchUseCase(
	matchRepo repository.MatchRepository,
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	stadiumRepo repository.StadiumRepository,
	messenger SystemMessenger,
	gate *service.LockGate,
	rateLimiter RateLimiter,
) *MatchUseCase {
	return &MatchUseCase{
		matchRepo:   matchRepo,
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		stadiumRepo: stadiumRepo,
		messenger:   messenger,
		gate:        gate,
		rateLimiter: rateLimiter,
	}
}

type CreateMatchInput struct {
	ChatID        string
	Title         string
	CostPerPerson int64
	StadiumID     string
	Location      string
	Notes         string
	Date          string
	MeetTime      string
	KickOff       string
	Duration      string
}

type UpdateMatchInput struct {
	Title         *string
	CostPerPerson *int64
	StadiumID     *string
	Location      *string
	Notes         *string
	Date          *string
	MeetTime      *string
	KickOff       *string
	Duration      *string
}

func (uc *MatchUseCase) loadChat(ctx context.Context, chatID string) (*entity.Chat, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat.IsDeleted {
		return nil, errors.NotFound("Chat", nil)
	}
	return chat, nil
}

func requireAdmin(chat *entity.Chat, principal Principal) error {
	if !chat.IsAdmin(principal.UserID) {
		return errors.Forbidden("Only chat admins can manage matches", nil)
	}
	return nil
}

func requireMember(chat *entity.Chat, principal Principal) error {
	if !chat.IsMember(principal.UserID) {
		return errors.Forbidden("You are not a member of this chat", nil)
	}
	return nil
}

// refresh recomputes the derived fields in place. Schedule parse failures
// leave the lock flag alone and show no countdown.
func (uc *MatchUseCase) refresh(match *entity.Match) {
	if err := uc.gate.Apply(match); err != nil {
		logger.Warn("match %s has an unreadable schedule: %v", match.ID, err)
		match.LockTimer = "0"
	}
	match.RecomputeTotals()
}

func (uc *MatchUseCase) ensureOpen(match *entity.Match) error {
	uc.refresh(match)
	if match.Closed() {
		return errors.MatchClosed()
	}
	return nil
}

// prepare runs the checks shared by every roster, team and payment change
// and returns the owning chat.
func (uc *MatchUseCase) prepare(ctx context.Context, matchID string) (*entity.Match, *entity.Chat, error) {
	match, err := uc.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}
	if err := uc.ensureOpen(match); err != nil {
		return nil, nil, err
	}
	chat, err := uc.loadChat(ctx, match.ChatID)
	if err != nil {
		return nil, nil, err
	}
	return match, chat, nil
}

// mutate applies fn atomically. The closed check is repeated against the
// stored version so a concurrent cancel or lock wins.
func (uc *MatchUseCase) mutate(ctx context.Context, matchID string, fn func(*entity.Match) error) (*entity.Match, error) {
	updated, err := uc.matchRepo.Mutate(ctx, matchID, func(match *entity.Match) error {
		if err := uc.ensureOpen(match); err != nil {
			return err
		}
		if err := fn(match); err != nil {
			return err
		}
		match.RecomputeTotals()
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.refresh(updated)
	return updated, nil
}

func (uc *MatchUseCase) actorName(ctx context.Context, userID string) string {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Warn("could not resolve name for %s: %v", userID, err)
		return "an admin"
	}
	if name := user.FullName(); name != "" {
		return name
	}
	return "an admin"
}

func (uc *MatchUseCase) ensureStadium(ctx context.Context, stadiumID string) error {
	if stadiumID == "" {
		return nil
	}
	_, err := uc.stadiumRepo.GetByID(ctx, stadiumID)
	return err
}

func (uc *MatchUseCase) ensureUniqueTitle(ctx context.Context, chatID, title, excludeID string) error {
	exists, err := uc.matchRepo.ExistsByTitle(ctx, chatID, title, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return errors.DuplicateTitle(title)
	}
	return nil
}

func (uc *MatchUseCase) CreateMatch(ctx context.Context, principal Principal, input CreateMatchInput) (*entity.Match, error) {
	chat, err := uc.loadChat(ctx, input.ChatID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(chat, principal); err != nil {
		return nil, err
	}

	if allowed, wait := uc.rateLimiter.Allow(principal.UserID, ratelimit.ActionCreateMatch); !allowed {
		logger.Warn("create match rate limited for %s, retry in %v", principal.UserID, wait)
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before creating another match")
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.BadRequest("title is required", nil)
	}
	if input.CostPerPerson < 0 {
		return nil, errors.BadRequest("cost_per_person must not be negative", nil)
	}
	if err := uc.ensureUniqueTitle(ctx, chat.ID, title, ""); err != nil {
		return nil, err
	}
	if err := service.ValidateSchedule(input.Date, input.MeetTime, input.KickOff, uc.gate.Location()); err != nil {
		return nil, errors.BadRequest(err.Error(), err)
	}
	if err := uc.ensureStadium(ctx, input.StadiumID); err != nil {
		return nil, err
	}

	users, err := uc.userRepo.GetByIDs(ctx, chat.Everyone())
	if err != nil {
		return nil, err
	}

	match := &entity.Match{
		ChatID:        chat.ID,
		Title:         title,
		StadiumID:     input.StadiumID,
		Location:      strings.TrimSpace(input.Location),
		Notes:         strings.TrimSpace(input.Notes),
		CostPerPerson: input.CostPerPerson,
		Date:          input.Date,
		MeetTime:      strings.ToUpper(input.MeetTime),
		KickOff:       strings.ToUpper(input.KickOff),
		Duration:      input.Duration,
		CreatedBy:     principal.UserID,
		Players:       []entity.PlayerEntry{},
		ActivePlayers: []entity.PlayerSnapshot{},
		TeamA:         []entity.PlayerSnapshot{},
		TeamB:         []entity.PlayerSnapshot{},
	}
	for _, user := range users {
		match.AddPlayer(user.Snapshot())
	}
	uc.refresh(match)

	if err := uc.matchRepo.Create(ctx, match); err != nil {
		return nil, err
	}

	content := fmt.Sprintf("Match was created by %s", uc.actorName(ctx, principal.UserID))
	if err := uc.messenger.PostSystemMessage(ctx, chat.ID, content, map[string]interface{}{
		"event":    "match_created",
		"match_id": match.ID,
	}); err != nil {
		logger.Error("match %s created but system message failed: %v", match.ID, err)
	}

	logger.Info("match %s created in chat %s with %d players", match.ID, chat.ID, len(match.Players))
	return match, nil
}

// ListMatches returns every match of a chat with derived values recomputed.
// Matches are refreshed independently; a failure on one never drops the rest.
func (uc *MatchUseCase) ListMatches(ctx context.Context, principal Principal, chatID string) ([]*entity.Match, error) {
	chat, err := uc.loadChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(chat, principal); err != nil {
		return nil, err
	}

	matches, err := uc.matchRepo.ListByChatID(ctx, chat.ID)
	if err != nil {
		return nil, err
	}

	for _, match := range matches {
		uc.refreshAndPersistLock(ctx, match)
	}
	return matches, nil
}

func (uc *MatchUseCase) GetMatch(ctx context.Context, principal Principal, matchID string) (*entity.Match, error) {
	match, err := uc.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	chat, err := uc.loadChat(ctx, match.ChatID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(chat, principal); err != nil {
		return nil, err
	}

	uc.refreshAndPersistLock(ctx, match)
	return match, nil
}

func (uc *MatchUseCase) refreshAndPersistLock(ctx context.Context, match *entity.Match) {
	wasLocked := match.IsLocked
	uc.refresh(match)
	if !match.IsLocked || wasLocked {
		return
	}

	_, err := uc.matchRepo.Mutate(ctx, match.ID, func(stored *entity.Match) error {
		stored.IsLocked = true
		return nil
	})
	if err != nil {
		logger.Warn("failed to persist lock for match %s: %v", match.ID, err)
	}
}

func (uc *MatchUseCase) UpdateMatch(ctx context.Context, principal Principal, matchID string, input UpdateMatchInput) (*entity.Match, error) {
	match, chat, err := uc.prepare(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(chat, principal); err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, errors.BadRequest("title is required", nil)
		}
		if err := uc.ensureUniqueTitle(ctx, chat.ID, title, match.ID); err != nil {
			return nil, err
		}
		input.Title = &title
	}
	if input.StadiumID != nil {
		if err := uc.ensureStadium(ctx, *input.StadiumID); err != nil {
			return nil, err
		}
	}

	date, meet, kick := match.Date, match.MeetTime, match.KickOff
	if input.Date != nil {
		date = *input.Date
	}
	if input.MeetTime != nil {
		meet = strings.ToUpper(*input.MeetTime)
	}
	if input.KickOff != nil {
		kick = strings.ToUpper(*input.KickOff)
	}
	if err := service.ValidateSchedule(date, meet, kick, uc.gate.Location()); err != nil {
		return nil, errors.BadRequest(err.Error(), err)
	}

	return uc.mutate(ctx, matchID, func(m *entity.Match) error {
		if input.Title != nil {
			m.Title = *input.Title
		}
		if input.CostPerPerson != nil {
			if *input.CostPerPerson < 0 {
				return errors.BadRequest("cost_per_person must not be negative", nil)
			}
			m.CostPerPerson = *input.CostPerPerson
		}
		if input.StadiumID != nil {
			m.StadiumID = *input.StadiumID
		}
		if input.Location != nil {
			m.Location = strings.TrimSpace(*input.Location)
		}
		if input.Notes != nil {
			m.Notes = strings.TrimSpace(*input.Notes)
		}
		if input.Duration != nil {
			m.Duration = *input.Duration
		}
		m.Date, m.MeetTime, m.KickOff = date, meet, kick
		return nil
	})
}

// SetParticipation is the self-service opt in / opt out. Chat members who
// joined after the match was created get a roster entry first.
func (uc *MatchUseCase) SetParticipation(ctx context.Context, principal Principal, matchID string, status entity.ParticipationStatus) (*entity.Match, error) {
	if status != entity.ParticipationIn && status != entity.ParticipationOut {
		return nil, errors.BadRequest("status must be in or out", nil)
	}

	_, chat, err := uc.prepare(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(chat, principal); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	snapshot := user.Snapshot()

	return uc.mutate(ctx, matchID, func(m *entity.Match) error {
		if status == entity.ParticipationIn {
			open, err := uc.gate.OpenForPlayers(m)
			if err != nil {
				return errors.Internal("Failed to read match schedule", err)
			}
			if !open {
				return errors.NotOpen()
			}
		}
		m.AddPlayer(snapshot)
		return m.SetParticipation(snapshot, status)
	})
}

func (uc *MatchUseCase) UpdatePayment(ctx context.Context, principal Principal, matchID, memberID string, payment entity.PaymentStatus) (*entity.Match, error) {
	_, chat, err := uc.prepare(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(chat, principal); err != nil {
		return nil, err
	}

	return uc.mutate(ctx, matchID, func(m *entity.Match) error {
		return m.SetPayment(memberID, payment)
	})
}

func (uc *MatchUseCase) AddToTeam(ctx context.Context, principal Principal, matchID string, team entity.Team, memberIDs []string) (*entity.Match, error) {
	if len(memberIDs) == 0 {
		return nil, errors.EmptySelection()
	}

	_, chat, err := uc.prepare(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(chat, principal); err != nil {
		return nil, err
	}

	return uc.mutate(ctx, matchID, func(m *entity.Match) error {
		moved, err := m.AddToTeam(team, memberIDs)
		if err != nil {
			return err
		}
		logger.Debug("match %s: moved %d of %d selected players to team %s", m.ID, moved, len(memberIDs), team)
		return nil
	})
}

func (uc *MatchUseCase) RemoveFromTeam(ctx context.Context, principal Principal, matchID string, team entity.Team, memberID string) (*entity.Match, error) {
	_, chat, err := uc.prepare(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(chat, principal); err != nil {
		return nil, err
	}

	return uc.mutate(ctx, matchID, func(m *entity.Match) error {
		return m.RemoveFromTeam(team, memberID)
	})
}

// CancelMatch is the one change allowed on a locked match. Only an already
// cancelled match is rejected.
func (uc *MatchUseCase) CancelMatch(ctx context.Context, principal Principal, matchID string) (*entity.Match, error) {
	match, err := uc.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.IsCancelled {
		return nil, errors.MatchClosed()
	}
	chat, err := uc.loadChat(ctx, match.ChatID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(chat, principal); err != nil {
		return nil, err
	}

	updated, err := uc.matchRepo.Mutate(ctx, matchID, func(m *entity.Match) error {
		if m.IsCancelled {
			return errors.MatchClosed()
		}
		uc.refresh(m)
		m.IsCancelled = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.refresh(updated)

	content := fmt.Sprintf("Match was cancelled by %s", uc.actorName(ctx, principal.UserID))
	if err := uc.messenger.PostSystemMessage(ctx, chat.ID, content, map[string]interface{}{
		"event":    "match_cancelled",
		"match_id": match.ID,
	}); err != nil {
		logger.Error("match %s cancelled but system message failed: %v", match.ID, err)
	}
	return updated, nil
}

func (uc *MatchUseCase) DeleteMatch(ctx context.Context, principal Principal, matchID string) error {
	_, chat, err := uc.prepare(ctx, matchID)
	if err != nil {
		return err
	}
	if err := requireAdmin(chat, principal); err != nil {
		return err
	}

	// Re-check inside a transaction so a concurrent cancel or lock blocks the delete.
	if _, err := uc.matchRepo.Mutate(ctx, matchID, uc.ensureOpen); err != nil {
		return err
	}
	return uc.matchRepo.Delete(ctx, matchID)
}
