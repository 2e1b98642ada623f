package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squadup/pkg/errors"
)

func snap(id string) PlayerSnapshot {
	return PlayerSnapshot{ID: id, Name: "Player " + id}
}

func newRoster(costPerPerson int64, ids ...string) *Match {
	m := &Match{ID: "m1", CostPerPerson: costPerPerson}
	for _, id := range ids {
		m.AddPlayer(snap(id))
	}
	m.RecomputeTotals()
	return m
}

func assertDisjoint(t *testing.T, m *Match) {
	t.Helper()
	seen := map[string]string{}
	for name, list := range map[string][]PlayerSnapshot{"active": m.ActivePlayers, "A": m.TeamA, "B": m.TeamB} {
		for _, p := range list {
			if other, ok := seen[p.ID]; ok {
				t.Fatalf("player %s is in both %s and %s", p.ID, other, name)
			}
			seen[p.ID] = name
		}
	}
}

func assertTotals(t *testing.T, m *Match) {
	t.Helper()
	var counted, paid int64
	for _, p := range m.Players {
		if p.ParticipationStatus == ParticipationIn || p.ParticipationStatus == ParticipationPending {
			counted++
		}
		if p.Payment == PaymentPaid {
			paid++
		}
	}
	assert.Equal(t, m.CostPerPerson*counted, m.Cost)
	assert.Equal(t, m.CostPerPerson*paid, m.Collected)
}

func TestTotals(t *testing.T) {
	players := []PlayerEntry{
		{ID: "1", ParticipationStatus: ParticipationIn, Payment: PaymentPaid},
		{ID: "2", ParticipationStatus: ParticipationPending, Payment: PaymentUnpaid},
		{ID: "3", ParticipationStatus: ParticipationOut, Payment: PaymentUnpaid},
	}

	cost, collected := Totals(players, 15)
	assert.Equal(t, int64(30), cost)
	assert.Equal(t, int64(15), collected)

	cost, collected = Totals(nil, 15)
	assert.Zero(t, cost)
	assert.Zero(t, collected)
}

func TestPaymentScenario(t *testing.T) {
	m := newRoster(10, "p1", "p2", "p3")
	assert.Equal(t, int64(30), m.Cost)
	assert.Equal(t, int64(0), m.Collected)

	require.NoError(t, m.SetParticipation(snap("p1"), ParticipationIn))
	require.NoError(t, m.SetPayment("p1", PaymentPaid))
	assert.Equal(t, int64(30), m.Cost)
	assert.Equal(t, int64(10), m.Collected)

	require.NoError(t, m.SetPayment("p1", PaymentUnpaid))
	assert.Equal(t, int64(0), m.Collected)
}

func TestRecomputeTotalsIsIdempotent(t *testing.T) {
	m := newRoster(7, "p1", "p2")
	require.NoError(t, m.SetParticipation(snap("p1"), ParticipationIn))
	require.NoError(t, m.SetPayment("p1", PaymentPaid))

	m.RecomputeTotals()
	cost, collected := m.Cost, m.Collected
	m.RecomputeTotals()
	assert.Equal(t, cost, m.Cost)
	assert.Equal(t, collected, m.Collected)
}

func TestAddPlayerKeepsExistingEntry(t *testing.T) {
	m := newRoster(5, "p1")
	require.NoError(t, m.SetParticipation(snap("p1"), ParticipationIn))

	assert.False(t, m.AddPlayer(snap("p1")))
	entry, ok := m.Player("p1")
	require.True(t, ok)
	assert.Equal(t, ParticipationIn, entry.ParticipationStatus)
	assert.Len(t, m.Players, 1)
}

func TestSetParticipation(t *testing.T) {
	t.Run("in adds to active once", func(t *testing.T) {
		m := newRoster(10, "p1")
		require.NoError(t, m.SetParticipation(snap("p1"), ParticipationIn))
		require.NoError(t, m.SetParticipation(snap("p1"), ParticipationIn))

		assert.Len(t, m.ActivePlayers, 1)
		assert.True(t, m.IsActive("p1"))
		assertTotals(t, m)
	})

	t.Run("out while unpaid leaves active", func(t *testing.T) {
		m := newRoster(10, "p1", "p2")
		require.NoError(t, m.SetParticipation(snap("p1"), ParticipationIn))
		require.NoError(t, m.SetParticipation(snap("p1"), ParticipationOut))

		assert.False(t, m.IsActive("p1"))
		entry, _ := m.Player("p1")
		assert.Equal(t, ParticipationOut, entry.ParticipationStatus)
		assert.Equal(t, int64(10), m.Cost)
		assertTotals(t, m)
	})

	t.Run("out while paid is rejected", func(t *testing.T) {
		m := newRoster(10, "p1")
		require.NoError(t, m.SetParticipation(snap("p1"), ParticipationIn))
		require.NoError(t, m.SetPayment("p1", PaymentPaid))

		err := m.SetParticipation(snap("p1"), ParticipationOut)
		assert.True(t, errors.Is(err, errors.CodePaymentConflict))

		entry, _ := m.Player("p1")
		assert.Equal(t, ParticipationIn, entry.ParticipationStatus)
		assert.True(t, m.IsActive("p1"))
	})

	t.Run("out then back in", func(t *testing.T) {
		m := newRoster(10, "p1")
		require.NoError(t, m.SetParticipation(snap("p1"), ParticipationOut))
		require.NoError(t, m.SetParticipation(snap("p1"), ParticipationIn))
		assert.True(t, m.IsActive("p1"))
	})

	t.Run("teamed player is rejected", func(t *testing.T) {
		m := newRoster(10, "p1")
		require.NoError(t, m.SetParticipation(snap("p1"), ParticipationIn))
		_, err := m.AddToTeam(TeamA, []string{"p1"})
		require.NoError(t, err)

		err = m.SetParticipation(snap("p1"), ParticipationOut)
		assert.True(t, errors.Is(err, errors.CodeAlreadyOnTeam))
	})

	t.Run("unknown player", func(t *testing.T) {
		m := newRoster(10, "p1")
		err := m.SetParticipation(snap("ghost"), ParticipationIn)
		assert.True(t, errors.Is(err, errors.CodePlayerNotFound))
	})

	t.Run("pending is not a valid target", func(t *testing.T) {
		m := newRoster(10, "p1")
		err := m.SetParticipation(snap("p1"), ParticipationPending)
		assert.True(t, errors.Is(err, "BAD_REQUEST"))
	})
}

func TestSetPayment(t *testing.T) {
	m := newRoster(10, "p1", "p2")

	err := m.SetPayment("p2", PaymentPaid)
	assert.True(t, errors.Is(err, errors.CodePlayerNotFound), "pending players cannot be marked paid")

	err = m.SetPayment("ghost", PaymentPaid)
	assert.True(t, errors.Is(err, errors.CodePlayerNotFound))

	err = m.SetPayment("p1", PaymentStatus("refunded"))
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	assert.Zero(t, m.Collected)
}

func TestAddToTeamSkipsIneligible(t *testing.T) {
	m := newRoster(10, "p1", "p2")
	require.NoError(t, m.SetParticipation(snap("p1"), ParticipationIn))

	moved, err := m.AddToTeam(TeamA, []string{"p1", "p2"})
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	require.Len(t, m.TeamA, 1)
	assert.Equal(t, "p1", m.TeamA[0].ID)
	assert.Empty(t, m.ActivePlayers)

	entry, _ := m.Player("p2")
	assert.Equal(t, ParticipationPending, entry.ParticipationStatus)
	_, teamed := m.TeamOf("p2")
	assert.False(t, teamed)
	assertDisjoint(t, m)
}

func TestAddToTeamDuplicateIsSkipped(t *testing.T) {
	m := newRoster(10, "p1")
	require.NoError(t, m.SetParticipation(snap("p1"), ParticipationIn))

	_, err := m.AddToTeam(TeamA, []string{"p1", "p1"})
	require.NoError(t, err)
	moved, err := m.AddToTeam(TeamA, []string{"p1"})
	require.NoError(t, err)

	assert.Zero(t, moved)
	assert.Len(t, m.TeamA, 1)
	assertDisjoint(t, m)
}

func TestAddToTeamFromOtherTeamIsSkipped(t *testing.T) {
	m := newRoster(10, "p1")
	require.NoError(t, m.SetParticipation(snap("p1"), ParticipationIn))
	_, err := m.AddToTeam(TeamA, []string{"p1"})
	require.NoError(t, err)

	moved, err := m.AddToTeam(TeamB, []string{"p1"})
	require.NoError(t, err)
	assert.Zero(t, moved)
	assert.Empty(t, m.TeamB)
	assertDisjoint(t, m)
}

func TestAddToTeamRejectsBadInput(t *testing.T) {
	m := newRoster(10, "p1")

	_, err := m.AddToTeam(TeamA, nil)
	assert.True(t, errors.Is(err, errors.CodeEmptySelection))

	_, err = m.AddToTeam(Team("C"), []string{"p1"})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestRemoveFromTeam(t *testing.T) {
	m := newRoster(10, "p1", "p2")
	require.NoError(t, m.SetParticipation(snap("p1"), ParticipationIn))
	require.NoError(t, m.SetParticipation(snap("p2"), ParticipationIn))
	_, err := m.AddToTeam(TeamB, []string{"p1", "p2"})
	require.NoError(t, err)

	require.NoError(t, m.RemoveFromTeam(TeamB, "p1"))
	assert.True(t, m.IsActive("p1"))
	assert.Len(t, m.TeamB, 1)
	assertDisjoint(t, m)

	err = m.RemoveFromTeam(TeamA, "p2")
	assert.True(t, errors.Is(err, errors.CodePlayerNotFound))
	err = m.RemoveFromTeam(TeamB, "p1")
	assert.True(t, errors.Is(err, errors.CodePlayerNotFound))
}

func TestPaidPlayerNeverLeaves(t *testing.T) {
	m := newRoster(10, "p1")
	require.NoError(t, m.SetParticipation(snap("p1"), ParticipationIn))
	require.NoError(t, m.SetPayment("p1", PaymentPaid))

	steps := []func() error{
		func() error { return m.SetParticipation(snap("p1"), ParticipationOut) },
		func() error { _, err := m.AddToTeam(TeamA, []string{"p1"}); return err },
		func() error { return m.SetParticipation(snap("p1"), ParticipationOut) },
		func() error { return m.RemoveFromTeam(TeamA, "p1") },
		func() error { return m.SetParticipation(snap("p1"), ParticipationOut) },
	}
	for _, step := range steps {
		_ = step()
		entry, _ := m.Player("p1")
		assert.NotEqual(t, ParticipationOut, entry.ParticipationStatus)
		assertDisjoint(t, m)
		assertTotals(t, m)
	}
}

func TestClosed(t *testing.T) {
	assert.False(t, (&Match{}).Closed())
	assert.True(t, (&Match{IsLocked: true}).Closed())
	assert.True(t, (&Match{IsCancelled: true}).Closed())
}

func TestCloneIsDeep(t *testing.T) {
	m := newRoster(10, "p1")
	require.NoError(t, m.SetParticipation(snap("p1"), ParticipationIn))

	c := m.Clone()
	c.Players[0].Payment = PaymentPaid
	c.ActivePlayers[0].Name = "changed"

	assert.Equal(t, PaymentUnpaid, m.Players[0].Payment)
	assert.Equal(t, "Player p1", m.ActivePlayers[0].Name)
}
