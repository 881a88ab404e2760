package app

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tetramaster/internal/domain"
)

func endBoard(friend, enemy int) *domain.Board {
	b := domain.NewBoard(0)
	loc := 0
	for i := 0; i < friend; i++ {
		b.Place(card(105+i, 0, 1, 1, 1), loc, domain.Friend)
		loc++
	}
	for i := 0; i < enemy; i++ {
		b.Place(card(100+i, 0, 1, 1, 1), loc, domain.Enemy)
		loc++
	}
	return &b
}

func opponentHand() domain.Hand {
	var h domain.Hand
	for i := 0; i < 5; i++ {
		h = append(h, card(100+i, 0, 1, 1, 1))
	}
	return h
}

func TestSettlementOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		friend     int
		enemy      int
		winner     domain.Side
		draw       bool
		perfect    bool
		stealCount int
	}{
		{name: "player wins", friend: 6, enemy: 4, winner: domain.SidePlayer, stealCount: 1},
		{name: "perfect game", friend: 10, enemy: 0, winner: domain.SidePlayer, perfect: true, stealCount: 5},
		{name: "draw", friend: 5, enemy: 5, draw: true},
		{name: "opponent wins", friend: 3, enemy: 7, winner: domain.SideOpponent, stealCount: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newSettlement("s1", endBoard(tt.friend, tt.enemy), [2]domain.Hand{nil, opponentHand()})
			assert.Equal(t, tt.draw, st.Draw)
			assert.Equal(t, tt.perfect, st.Perfect)
			assert.Equal(t, tt.stealCount, st.StealCount)
			assert.Equal(t, tt.friend, st.PlayerScore)
			assert.Equal(t, tt.enemy, st.OpponentScore)
			if !tt.draw {
				assert.Equal(t, tt.winner, st.Winner)
			}
		})
	}
}

func TestSettlementCanSteal(t *testing.T) {
	st := newSettlement("s1", endBoard(6, 4), [2]domain.Hand{nil, opponentHand()})
	require.Len(t, st.Stealable, 5)

	c, ok := st.CanSteal(102)
	assert.True(t, ok)
	assert.Equal(t, 102, c.Identity.UserSlot)
	_, ok = st.CanSteal(105)
	assert.False(t, ok)
}

func TestSettlementSignerRoundTrip(t *testing.T) {
	signer := NewSettlementSigner("secret", "tetramaster", time.Hour)
	st := newSettlement("session-1", endBoard(10, 0), [2]domain.Hand{nil, opponentHand()})

	token, err := signer.Sign(st, "user-1")
	require.NoError(t, err)

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", claims.GameID)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, domain.SidePlayer, claims.Winner)
	assert.True(t, claims.Perfect)
	assert.Equal(t, 5, claims.StealCount)
	assert.Equal(t, []int{100, 101, 102, 103, 104}, claims.StealSlots)
	assert.True(t, claims.Allows(103))
	assert.False(t, claims.Allows(105))
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestSettlementSignerRejects(t *testing.T) {
	signer := NewSettlementSigner("secret", "tetramaster", time.Hour)
	st := newSettlement("session-1", endBoard(6, 4), [2]domain.Hand{nil, opponentHand()})
	token, err := signer.Sign(st, "user-1")
	require.NoError(t, err)

	expired, err := NewSettlementSigner("secret", "tetramaster", -time.Minute).Sign(st, "user-1")
	require.NoError(t, err)
	otherIssuer, err := NewSettlementSigner("secret", "someone-else", time.Hour).Sign(st, "user-1")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	tests := []struct {
		name   string
		signer *SettlementSigner
		token  string
	}{
		{"wrong secret", NewSettlementSigner("other", "tetramaster", time.Hour), token},
		{"bad signature", signer, tampered},
		{"expired", signer, expired},
		{"other issuer", signer, otherIssuer},
		{"garbage", signer, "not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.signer.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestSettlementSignerRequiresConfig(t *testing.T) {
	_, err := NewSettlementSigner("", "tetramaster", time.Hour).Sign(Settlement{}, "user-1")
	assert.Error(t, err)
	_, err = NewSettlementSigner("secret", "tetramaster", time.Hour).Sign(Settlement{}, "")
	assert.Error(t, err)
}
