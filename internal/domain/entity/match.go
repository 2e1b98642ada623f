package entity

import (
	"net/http"
	"time"

	"squadup/pkg/errors"
)

type ParticipationStatus string

const (
	ParticipationPending ParticipationStatus = "pending"
	ParticipationIn      ParticipationStatus = "in"
	ParticipationOut     ParticipationStatus = "out"
)

func (s ParticipationStatus) Valid() bool {
	switch s {
	case ParticipationPending, ParticipationIn, ParticipationOut:
		return true
	}
	return false
}

// Counted reports whether a player in this state is charged.
func (s ParticipationStatus) Counted() bool {
	switch s {
	case ParticipationIn, ParticipationPending:
		return true
	case ParticipationOut:
		return false
	}
	return false
}

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentUnpaid, PaymentPaid:
		return true
	}
	return false
}

type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)

func (t Team) Valid() bool {
	return t == TeamA || t == TeamB
}

type PlayerEntry struct {
	ID                  string              `json:"id" firestore:"id"`
	Name                string              `json:"name" firestore:"name"`
	ParticipationStatus ParticipationStatus `json:"participation_status" firestore:"participationStatus"`
	Payment             PaymentStatus       `json:"payment" firestore:"payment"`
}

// PlayerSnapshot is the profile copy held in activePlayers and the teams.
type PlayerSnapshot struct {
	ID         string `json:"id" firestore:"id"`
	Name       string `json:"name" firestore:"name"`
	Phone      string `json:"phone,omitempty" firestore:"phone,omitempty"`
	ProfileURL string `json:"profile_url,omitempty" firestore:"profileUrl,omitempty"`
}

type Match struct {
	ID        string `json:"id" firestore:"id"`
	ChatID    string `json:"chat_id" firestore:"chatId"`
	Title     string `json:"title" firestore:"title"`
	StadiumID string `json:"stadium_id,omitempty" firestore:"stadiumId,omitempty"`
	Location  string `json:"location,omitempty" firestore:"location,omitempty"`
	Notes     string `json:"notes,omitempty" firestore:"notes,omitempty"`

	Players       []PlayerEntry    `json:"players" firestore:"players"`
	ActivePlayers []PlayerSnapshot `json:"active_players" firestore:"activePlayers"`
	TeamA         []PlayerSnapshot `json:"team_a" firestore:"teamA"`
	TeamB         []PlayerSnapshot `json:"team_b" firestore:"teamB"`

	CostPerPerson int64 `json:"cost_per_person" firestore:"costPerPerson"`
	Cost          int64 `json:"cost" firestore:"cost"`
	Collected     int64 `json:"collected" firestore:"collected"`

	IsCancelled bool `json:"is_cancelled" firestore:"isCancelled"`
	IsLocked    bool `json:"is_locked" firestore:"isLocked"`
	// LockTimer is derived on every read and never persisted.
	LockTimer string `json:"lock_timer" firestore:"-"`

	Date     string `json:"date" firestore:"date"`          // DD-MM-YYYY
	MeetTime string `json:"meet_time" firestore:"meetTime"` // hh:mm A
	KickOff  string `json:"kick_off" firestore:"kickOff"`   // hh:mm A
	Duration string `json:"duration,omitempty" firestore:"duration,omitempty"`

	CreatedBy string    `json:"created_by" firestore:"createdBy"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// Totals returns cost and collected for a roster snapshot.
func Totals(players []PlayerEntry, costPerPerson int64) (cost, collected int64) {
	var counted, paid int64
	for _, p := range players {
		if p.ParticipationStatus.Counted() {
			counted++
		}
		if p.Payment == PaymentPaid {
			paid++
		}
	}
	return costPerPerson * counted, costPerPerson * paid
}

func (m *Match) RecomputeTotals() {
	m.Cost, m.Collected = Totals(m.Players, m.CostPerPerson)
}

// Closed reports whether roster, team and payment changes are rejected.
func (m *Match) Closed() bool {
	return m.IsCancelled || m.IsLocked
}

func (m *Match) playerIndex(id string) int {
	for i := range m.Players {
		if m.Players[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Match) Player(id string) (PlayerEntry, bool) {
	if i := m.playerIndex(id); i >= 0 {
		return m.Players[i], true
	}
	return PlayerEntry{}, false
}

func (m *Match) team(t Team) *[]PlayerSnapshot {
	if t == TeamA {
		return &m.TeamA
	}
	return &m.TeamB
}

// TeamOf returns the team a player is assigned to, if any.
func (m *Match) TeamOf(id string) (Team, bool) {
	if snapshotIndex(m.TeamA, id) >= 0 {
		return TeamA, true
	}
	if snapshotIndex(m.TeamB, id) >= 0 {
		return TeamB, true
	}
	return "", false
}

func (m *Match) IsActive(id string) bool {
	return snapshotIndex(m.ActivePlayers, id) >= 0
}

// AddPlayer puts a pending, unpaid entry on the roster. Existing entries are
// left untouched.
func (m *Match) AddPlayer(p PlayerSnapshot) bool {
	if m.playerIndex(p.ID) >= 0 {
		return false
	}
	m.Players = append(m.Players, PlayerEntry{
		ID:                  p.ID,
		Name:                p.Name,
		ParticipationStatus: ParticipationPending,
		Payment:             PaymentUnpaid,
	})
	return true
}

// SetParticipation applies a self-service opt in or opt out.
func (m *Match) SetParticipation(p PlayerSnapshot, status ParticipationStatus) error {
	i := m.playerIndex(p.ID)
	if i < 0 {
		return errors.PlayerNotFound()
	}
	if _, teamed := m.TeamOf(p.ID); teamed {
		return errors.AlreadyOnTeam()
	}

	entry := &m.Players[i]
	switch status {
	case ParticipationIn:
		entry.ParticipationStatus = ParticipationIn
		if !m.IsActive(p.ID) {
			m.ActivePlayers = append(m.ActivePlayers, p)
		}
	case ParticipationOut:
		if entry.Payment == PaymentPaid {
			return errors.PaymentConflict()
		}
		entry.ParticipationStatus = ParticipationOut
		m.ActivePlayers = removeSnapshot(m.ActivePlayers, p.ID)
	default:
		return errors.BadRequest("Participation status must be in or out", nil)
	}

	m.RecomputeTotals()
	return nil
}

// SetPayment changes a roster entry's payment flag. Only players who opted in
// can be marked paid.
func (m *Match) SetPayment(playerID string, payment PaymentStatus) error {
	if !payment.Valid() {
		return errors.BadRequest("Payment must be paid or unpaid", nil)
	}
	i := m.playerIndex(playerID)
	if i < 0 {
		return errors.PlayerNotFound()
	}
	entry := &m.Players[i]
	if payment == PaymentPaid && entry.ParticipationStatus != ParticipationIn {
		return errors.New(errors.CodePlayerNotFound, "Player is not active in this match", http.StatusNotFound, nil)
	}
	entry.Payment = payment
	m.RecomputeTotals()
	return nil
}

// AddToTeam moves active players onto a team. Ids that are not active, or are
// already on the target team, are skipped. It returns how many moved.
func (m *Match) AddToTeam(t Team, memberIDs []string) (int, error) {
	if !t.Valid() {
		return 0, errors.BadRequest("Team must be A or B", nil)
	}
	if len(memberIDs) == 0 {
		return 0, errors.EmptySelection()
	}

	target := m.team(t)
	moved := 0
	for _, id := range memberIDs {
		if snapshotIndex(*target, id) >= 0 {
			continue
		}
		j := snapshotIndex(m.ActivePlayers, id)
		if j < 0 {
			continue
		}
		*target = append(*target, m.ActivePlayers[j])
		m.ActivePlayers = append(m.ActivePlayers[:j], m.ActivePlayers[j+1:]...)
		moved++
	}

	m.RecomputeTotals()
	return moved, nil
}

// RemoveFromTeam sends a teamed player back to the active pool.
func (m *Match) RemoveFromTeam(t Team, memberID string) error {
	if !t.Valid() {
		return errors.BadRequest("Team must be A or B", nil)
	}
	target := m.team(t)
	j := snapshotIndex(*target, memberID)
	if j < 0 {
		return errors.PlayerNotFound()
	}
	snap := (*target)[j]
	*target = append((*target)[:j], (*target)[j+1:]...)
	if !m.IsActive(memberID) {
		m.ActivePlayers = append(m.ActivePlayers, snap)
	}

	m.RecomputeTotals()
	return nil
}

// Clone returns a deep copy, so a failed mutation never leaks into the caller's value.
func (m *Match) Clone() *Match {
	c := *m
	c.Players = append([]PlayerEntry(nil), m.Players...)
	c.ActivePlayers = append([]PlayerSnapshot(nil), m.ActivePlayers...)
	c.TeamA = append([]PlayerSnapshot(nil), m.TeamA...)
	c.TeamB = append([]PlayerSnapshot(nil), m.TeamB...)
	return &c
}

func snapshotIndex(list []PlayerSnapshot, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func removeSnapshot(list []PlayerSnapshot, id string) []PlayerSnapshot {
	if i := snapshotIndex(list, id); i >= 0 {
		return append(list[:i], list[i+1:]...)
	}
	return list
}
