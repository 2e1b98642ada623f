package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squadup/internal/adapter/repository"
	"squadup/internal/domain/entity"
	domainrepo "squadup/internal/domain/repository"
	"squadup/internal/domain/service"
	"squadup/internal/infrastructure/ratelimit"
	"squadup/pkg/errors"
)

var testNow = time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu     sync.Mutex
	frames [][]byte
	users  [][]string
}

func (n *recordingNotifier) SendToUsers(userIDs []string, payload []byte) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, userIDs)
	n.frames = append(n.frames, payload)
}

type fixture struct {
	ctx      context.Context
	clock    time.Time
	users    domainrepo.UserRepository
	chats    domainrepo.ChatRepository
	messages domainrepo.MessageRepository
	matches  domainrepo.MatchRepository
	stadiums domainrepo.StadiumRepository
	notifier *recordingNotifier
	chatUC   *ChatUseCase
	matchUC  *MatchUseCase

	admin  Principal
	member Principal
	other  Principal
	chatID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		ctx:      context.Background(),
		clock:    testNow,
		users:    repository.NewMemoryUserRepository(),
		chats:    repository.NewMemoryChatRepository(),
		messages: repository.NewMemoryMessageRepository(),
		matches:  repository.NewMemoryMatchRepository(),
		stadiums: repository.NewMemoryStadiumRepository(),
		notifier: &recordingNotifier{},
	}

	limiter := ratelimit.NewRateLimiter()
	gate := service.NewLockGate(time.UTC, func() time.Time { return f.clock })
	f.chatUC = NewChatUseCase(f.chats, f.messages, f.users, f.notifier, limiter)
	f.matchUC = NewMatchUseCase(f.matches, f.chats, f.users, f.stadiums, f.chatUC, gate, limiter)

	f.admin = f.addUser(t, "admin", "Ada", "Admin")
	f.member = f.addUser(t, "member", "Mo", "Member")
	f.other = f.addUser(t, "other", "Olly", "Outsider")

	chat, err := f.chatUC.CreateChat(f.ctx, f.admin, CreateChatInput{Name: "Sunday league", Members: []string{f.member.UserID}})
	require.NoError(t, err)
	f.chatID = chat.ID
	return f
}

func (f *fixture) addUser(t *testing.T, id, first, last string) Principal {
	t.Helper()
	require.NoError(t, f.users.Create(f.ctx, &entity.User{ID: id, Email: id + "@example.com", FirstName: first, LastName: last}))
	return Principal{UserID: id}
}

// input schedules a match kicking off in the given offset from the clock,
// meeting half an hour earlier.
func (f *fixture) input(title string, kickOffIn time.Duration) CreateMatchInput {
	kick := f.clock.Add(kickOffIn)
	meet := kick.Add(-30 * time.Minute)
	return CreateMatchInput{
		ChatID:        f.chatID,
		Title:         title,
		CostPerPerson: 10,
		Date:          kick.Format(service.DateLayout),
		MeetTime:      meet.Format(service.TimeLayout),
		KickOff:       kick.Format(service.TimeLayout),
	}
}

func (f *fixture) create(t *testing.T, title string) *entity.Match {
	t.Helper()
	match, err := f.matchUC.CreateMatch(f.ctx, f.admin, f.input(title, 5*time.Hour))
	require.NoError(t, err)
	return match
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, code), "expected %s, got %v", code, err)
}

func TestCreateMatchSnapshotsRoster(t *testing.T) {
	f := newFixture(t)

	match := f.create(t, "Friday five-a-side")

	require.Len(t, match.Players, 2)
	for _, p := range match.Players {
		assert.Equal(t, entity.ParticipationPending, p.ParticipationStatus)
		assert.Equal(t, entity.PaymentUnpaid, p.Payment)
	}
	assert.Equal(t, "Ada Admin", match.Players[0].Name)
	assert.Equal(t, int64(20), match.Cost)
	assert.Zero(t, match.Collected)
	assert.False(t, match.IsLocked)
	assert.Equal(t, "5:00", match.LockTimer)

	latest, err := f.chatUC.LatestMessage(f.ctx, f.member, f.chatID)
	require.NoError(t, err)
	assert.Equal(t, "Match was created by Ada Admin", latest.Content)
	assert.Equal(t, entity.MessageTypeSystem, latest.Type)
	assert.Equal(t, entity.SystemSenderID, latest.SenderID)

	chat, err := f.chats.GetByID(f.ctx, f.chatID)
	require.NoError(t, err)
	assert.Equal(t, "Match was created by Ada Admin", chat.LastMessage)
}

func TestCreateMatchRejections(t *testing.T) {
	f := newFixture(t)
	f.create(t, "Weekly")

	_, err := f.matchUC.CreateMatch(f.ctx, f.admin, f.input("  weekly ", time.Hour))
	assertCode(t, err, errors.CodeDuplicateTitle)

	_, err = f.matchUC.CreateMatch(f.ctx, f.member, f.input("By a member", time.Hour))
	assertCode(t, err, "FORBIDDEN")

	in := f.input("Bad schedule", time.Hour)
	in.KickOff = "25:99"
	_, err = f.matchUC.CreateMatch(f.ctx, f.admin, in)
	assertCode(t, err, "BAD_REQUEST")

	in = f.input("Unknown stadium", time.Hour)
	in.StadiumID = "nowhere"
	_, err = f.matchUC.CreateMatch(f.ctx, f.admin, in)
	assertCode(t, err, "NOT_FOUND")

	in = f.input("Missing chat", time.Hour)
	in.ChatID = "missing"
	_, err = f.matchUC.CreateMatch(f.ctx, f.admin, in)
	assertCode(t, err, "NOT_FOUND")

	_, err = f.matchUC.CreateMatch(f.ctx, f.admin, f.input("   ", time.Hour))
	assertCode(t, err, "BAD_REQUEST")

	in = f.input("Refund night", time.Hour)
	in.CostPerPerson = -10
	_, err = f.matchUC.CreateMatch(f.ctx, f.admin, in)
	assertCode(t, err, "BAD_REQUEST")

	list, err := f.matchUC.ListMatches(f.ctx, f.admin, f.chatID)
	require.NoError(t, err)
	assert.Len(t, list, 1, "rejected matches are not stored")

	require.NoError(t, f.chatUC.DeleteChat(f.ctx, f.admin, f.chatID))
	_, err = f.matchUC.CreateMatch(f.ctx, f.admin, f.input("Deleted chat", time.Hour))
	assertCode(t, err, "NOT_FOUND")
}

func TestListMatchesRecomputesAndPersistsLock(t *testing.T) {
	f := newFixture(t)
	soon := f.create(t, "Soon")
	old, err := f.matchUC.CreateMatch(f.ctx, f.admin, f.input("Old", 2*time.Hour))
	require.NoError(t, err)

	f.clock = f.clock.Add(80 * time.Hour)

	matches, err := f.matchUC.ListMatches(f.ctx, f.member, f.chatID)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	for _, m := range matches {
		assert.True(t, m.IsLocked, m.Title)
		assert.Equal(t, "0", m.LockTimer)
	}

	stored, err := f.matches.GetByID(f.ctx, old.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsLocked)
	stored, err = f.matches.GetByID(f.ctx, soon.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsLocked)

	_, err = f.matchUC.ListMatches(f.ctx, f.other, f.chatID)
	assertCode(t, err, "FORBIDDEN")
}

func TestListMatchesSurvivesBadSchedule(t *testing.T) {
	f := newFixture(t)
	f.create(t, "Good")
	require.NoError(t, f.matches.Create(f.ctx, &entity.Match{ChatID: f.chatID, Title: "Broken", Date: "someday", KickOff: "noon"}))

	matches, err := f.matchUC.ListMatches(f.ctx, f.member, f.chatID)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestGetMatch(t *testing.T) {
	f := newFixture(t)
	match := f.create(t, "Get me")

	got, err := f.matchUC.GetMatch(f.ctx, f.member, match.ID)
	require.NoError(t, err)
	assert.Equal(t, match.ID, got.ID)
	assert.Equal(t, "5:00", got.LockTimer)

	_, err = f.matchUC.GetMatch(f.ctx, f.other, match.ID)
	assertCode(t, err, "FORBIDDEN")

	_, err = f.matchUC.GetMatch(f.ctx, f.member, "missing")
	assertCode(t, err, "NOT_FOUND")
}

func TestUpdateMatch(t *testing.T) {
	f := newFixture(t)
	match := f.create(t, "Original")
	f.create(t, "Taken")

	cost := int64(25)
	title := "Renamed"
	updated, err := f.matchUC.UpdateMatch(f.ctx, f.admin, match.ID, UpdateMatchInput{Title: &title, CostPerPerson: &cost})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, int64(50), updated.Cost)

	same := "renamed"
	_, err = f.matchUC.UpdateMatch(f.ctx, f.admin, match.ID, UpdateMatchInput{Title: &same})
	require.NoError(t, err, "a match may keep its own title")

	taken := "Taken"
	_, err = f.matchUC.UpdateMatch(f.ctx, f.admin, match.ID, UpdateMatchInput{Title: &taken})
	assertCode(t, err, errors.CodeDuplicateTitle)

	_, err = f.matchUC.UpdateMatch(f.ctx, f.member, match.ID, UpdateMatchInput{Title: &title})
	assertCode(t, err, "FORBIDDEN")

	bad := "31-13-2024"
	_, err = f.matchUC.UpdateMatch(f.ctx, f.admin, match.ID, UpdateMatchInput{Date: &bad})
	assertCode(t, err, "BAD_REQUEST")
}

func TestParticipationAndPaymentFlow(t *testing.T) {
	f := newFixture(t)
	match := f.create(t, "Flow")

	m, err := f.matchUC.SetParticipation(f.ctx, f.member, match.ID, entity.ParticipationIn)
	require.NoError(t, err)
	require.Len(t, m.ActivePlayers, 1)
	assert.Equal(t, "member", m.ActivePlayers[0].ID)
	assert.Equal(t, "Mo Member", m.ActivePlayers[0].Name)

	m, err = f.matchUC.UpdatePayment(f.ctx, f.admin, match.ID, f.member.UserID, entity.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, int64(10), m.Collected)
	assert.Equal(t, int64(20), m.Cost)

	_, err = f.matchUC.SetParticipation(f.ctx, f.member, match.ID, entity.ParticipationOut)
	assertCode(t, err, errors.CodePaymentConflict)

	stored, err := f.matches.GetByID(f.ctx, match.ID)
	require.NoError(t, err)
	entry, _ := stored.Player(f.member.UserID)
	assert.Equal(t, entity.ParticipationIn, entry.ParticipationStatus)

	_, err = f.matchUC.UpdatePayment(f.ctx, f.admin, match.ID, f.member.UserID, entity.PaymentUnpaid)
	require.NoError(t, err)
	m, err = f.matchUC.SetParticipation(f.ctx, f.member, match.ID, entity.ParticipationOut)
	require.NoError(t, err)
	assert.Empty(t, m.ActivePlayers)
	assert.Equal(t, int64(10), m.Cost)

	_, err = f.matchUC.UpdatePayment(f.ctx, f.member, match.ID, f.member.UserID, entity.PaymentPaid)
	assertCode(t, err, "FORBIDDEN")

	_, err = f.matchUC.UpdatePayment(f.ctx, f.admin, match.ID, "ghost", entity.PaymentPaid)
	assertCode(t, err, errors.CodePlayerNotFound)
}

func TestParticipationAddsLateMember(t *testing.T) {
	f := newFixture(t)
	match := f.create(t, "Late joiner")

	_, err := f.chatUC.AddMembers(f.ctx, f.admin, f.chatID, []string{f.other.UserID})
	require.NoError(t, err)

	m, err := f.matchUC.SetParticipation(f.ctx, f.other, match.ID, entity.ParticipationIn)
	require.NoError(t, err)
	assert.Len(t, m.Players, 3)
	assert.True(t, m.IsActive(f.other.UserID))
	assert.Equal(t, int64(30), m.Cost)
}

func TestParticipationRejections(t *testing.T) {
	f := newFixture(t)
	match := f.create(t, "Rules")

	_, err := f.matchUC.SetParticipation(f.ctx, f.other, match.ID, entity.ParticipationIn)
	assertCode(t, err, "FORBIDDEN")

	_, err = f.matchUC.SetParticipation(f.ctx, f.member, match.ID, entity.ParticipationPending)
	assertCode(t, err, "BAD_REQUEST")

	// Past the meet time but well before the lock.
	f.clock = f.clock.Add(4*time.Hour + 45*time.Minute)
	_, err = f.matchUC.SetParticipation(f.ctx, f.member, match.ID, entity.ParticipationIn)
	assertCode(t, err, errors.CodeNotOpen)

	m, err := f.matchUC.SetParticipation(f.ctx, f.member, match.ID, entity.ParticipationOut)
	require.NoError(t, err, "opting out stays possible after the meet time")
	entry, _ := m.Player(f.member.UserID)
	assert.Equal(t, entity.ParticipationOut, entry.ParticipationStatus)
}

func TestTeamAssignment(t *testing.T) {
	f := newFixture(t)
	match := f.create(t, "Teams")
	_, err := f.matchUC.SetParticipation(f.ctx, f.admin, match.ID, entity.ParticipationIn)
	require.NoError(t, err)

	m, err := f.matchUC.AddToTeam(f.ctx, f.admin, match.ID, entity.TeamA, []string{f.admin.UserID, f.member.UserID})
	require.NoError(t, err)
	require.Len(t, m.TeamA, 1)
	assert.Equal(t, f.admin.UserID, m.TeamA[0].ID)
	assert.Empty(t, m.ActivePlayers)
	_, teamed := m.TeamOf(f.member.UserID)
	assert.False(t, teamed, "inactive players are skipped")

	_, err = f.matchUC.SetParticipation(f.ctx, f.admin, match.ID, entity.ParticipationOut)
	assertCode(t, err, errors.CodeAlreadyOnTeam)

	_, err = f.matchUC.AddToTeam(f.ctx, f.admin, match.ID, entity.TeamB, nil)
	assertCode(t, err, errors.CodeEmptySelection)

	_, err = f.matchUC.AddToTeam(f.ctx, f.member, match.ID, entity.TeamB, []string{f.member.UserID})
	assertCode(t, err, "FORBIDDEN")

	_, err = f.matchUC.RemoveFromTeam(f.ctx, f.admin, match.ID, entity.TeamB, f.admin.UserID)
	assertCode(t, err, errors.CodePlayerNotFound)

	m, err = f.matchUC.RemoveFromTeam(f.ctx, f.admin, match.ID, entity.TeamA, f.admin.UserID)
	require.NoError(t, err)
	assert.Empty(t, m.TeamA)
	assert.True(t, m.IsActive(f.admin.UserID))
}

func TestClosedMatchRejectsMutations(t *testing.T) {
	f := newFixture(t)
	match := f.create(t, "Closing")

	cancelled, err := f.matchUC.CancelMatch(f.ctx, f.admin, match.ID)
	require.NoError(t, err)
	assert.True(t, cancelled.IsCancelled)
	assert.Equal(t, "0", cancelled.LockTimer)

	latest, err := f.chatUC.LatestMessage(f.ctx, f.admin, f.chatID)
	require.NoError(t, err)
	assert.Equal(t, "Match was cancelled by Ada Admin", latest.Content)

	title := "Too late"
	checks := map[string]error{}
	_, checks["update"] = f.matchUC.UpdateMatch(f.ctx, f.admin, match.ID, UpdateMatchInput{Title: &title})
	_, checks["participation"] = f.matchUC.SetParticipation(f.ctx, f.member, match.ID, entity.ParticipationIn)
	_, checks["payment"] = f.matchUC.UpdatePayment(f.ctx, f.admin, match.ID, f.member.UserID, entity.PaymentPaid)
	_, checks["team"] = f.matchUC.AddToTeam(f.ctx, f.admin, match.ID, entity.TeamA, []string{f.member.UserID})
	_, checks["untag"] = f.matchUC.RemoveFromTeam(f.ctx, f.admin, match.ID, entity.TeamA, f.member.UserID)
	_, checks["cancel"] = f.matchUC.CancelMatch(f.ctx, f.admin, match.ID)
	checks["delete"] = f.matchUC.DeleteMatch(f.ctx, f.admin, match.ID)

	for name, err := range checks {
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, errors.CodeMatchClosed), "%s: %v", name, err)
	}

	got, err := f.matchUC.GetMatch(f.ctx, f.member, match.ID)
	require.NoError(t, err, "reads still work")
	assert.True(t, got.IsCancelled)
}

func TestLockedMatchRejectsMutations(t *testing.T) {
	f := newFixture(t)
	match := f.create(t, "Old news")

	f.clock = f.clock.Add(5*time.Hour + service.LockWindow + time.Minute)

	_, err := f.matchUC.UpdatePayment(f.ctx, f.admin, match.ID, f.admin.UserID, entity.PaymentUnpaid)
	assertCode(t, err, errors.CodeMatchClosed)

	err = f.matchUC.DeleteMatch(f.ctx, f.admin, match.ID)
	assertCode(t, err, errors.CodeMatchClosed)
}

func TestCancelLockedMatch(t *testing.T) {
	f := newFixture(t)
	match := f.create(t, "Rained off")

	f.clock = f.clock.Add(5*time.Hour + service.LockWindow + time.Minute)
	locked, err := f.matchUC.GetMatch(f.ctx, f.member, match.ID)
	require.NoError(t, err)
	require.True(t, locked.IsLocked)
	require.False(t, locked.IsCancelled)

	_, err = f.matchUC.CancelMatch(f.ctx, f.member, match.ID)
	assertCode(t, err, "FORBIDDEN")

	cancelled, err := f.matchUC.CancelMatch(f.ctx, f.admin, match.ID)
	require.NoError(t, err)
	assert.True(t, cancelled.IsCancelled)
	assert.True(t, cancelled.IsLocked)
	assert.Equal(t, "0", cancelled.LockTimer)

	stored, err := f.matches.GetByID(f.ctx, match.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsCancelled)
	assert.True(t, stored.IsLocked)

	_, err = f.matchUC.CancelMatch(f.ctx, f.admin, match.ID)
	assertCode(t, err, errors.CodeMatchClosed)
}

func TestDeleteMatch(t *testing.T) {
	f := newFixture(t)
	match := f.create(t, "Delete me")

	err := f.matchUC.DeleteMatch(f.ctx, f.member, match.ID)
	assertCode(t, err, "FORBIDDEN")

	require.NoError(t, f.matchUC.DeleteMatch(f.ctx, f.admin, match.ID))
	_, err = f.matches.GetByID(f.ctx, match.ID)
	assertCode(t, err, "NOT_FOUND")
}

func TestConcurrentTeamMovesStayDisjoint(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 8; i++ {
		id := string(rune('a' + i))
		f.addUser(t, id, "P", id)
		_, err := f.chatUC.AddMembers(f.ctx, f.admin, f.chatID, []string{id})
		require.NoError(t, err)
	}
	match := f.create(t, "Busy")

	var ids []string
	for i := 0; i < 8; i++ {
		id := string(rune('a' + i))
		ids = append(ids, id)
		_, err := f.matchUC.SetParticipation(f.ctx, Principal{UserID: id}, match.ID, entity.ParticipationIn)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for i, id := range ids {
		team := entity.TeamA
		if i%2 == 1 {
			team = entity.TeamB
		}
		wg.Add(2)
		go func(id string, team entity.Team) {
			defer wg.Done()
			_, _ = f.matchUC.AddToTeam(f.ctx, f.admin, match.ID, team, []string{id})
		}(id, team)
		go func(id string) {
			defer wg.Done()
			_, _ = f.matchUC.AddToTeam(f.ctx, f.admin, match.ID, entity.TeamB, []string{id})
		}(id)
	}
	wg.Wait()

	stored, err := f.matches.GetByID(f.ctx, match.ID)
	require.NoError(t, err)

	seen := map[string]int{}
	for _, list := range [][]entity.PlayerSnapshot{stored.ActivePlayers, stored.TeamA, stored.TeamB} {
		for _, p := range list {
			seen[p.ID]++
		}
	}
	for _, id := range ids {
		assert.Equal(t, 1, seen[id], "player %s", id)
	}
	assert.Empty(t, stored.ActivePlayers)
}
