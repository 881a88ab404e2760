package app

import (
	"sort"

	"tetramaster/internal/domain"
)

// Settlement summarizes a finished game: who won and which of the loser's
// cards the winner may take.
type Settlement struct {
	GameID        string
	Winner        domain.Side
	Draw          bool
	PlayerScore   int
	OpponentScore int
	// Perfect is set when the loser holds no cell at the end.
	Perfect bool
	// Stealable lists the loser's cards, ordered by slot.
	Stealable []domain.Card
	// StealCount is how many of Stealable the winner takes.
	StealCount int
}

func newSettlement(gameID string, board *domain.Board, hands [2]domain.Hand) Settlement {
	st := Settlement{
		GameID:        gameID,
		PlayerScore:   board.Count(domain.Friend),
		OpponentScore: board.Count(domain.Enemy),
	}
	switch {
	case st.PlayerScore > st.OpponentScore:
		st.Winner = domain.SidePlayer
	case st.OpponentScore > st.PlayerScore:
		st.Winner = domain.SideOpponent
	default:
		st.Draw = true
		return st
	}

	loser := st.Winner.Other()
	st.Perfect = board.Count(loser.Ownership()) == 0
	for _, c := range hands[loser] {
		if side, ok := domain.SideForSlot(c.Identity.UserSlot); ok && side == loser {
			st.Stealable = append(st.Stealable, c)
		}
	}
	st.StealCount = 1
	if st.Perfect {
		st.StealCount = len(st.Stealable)
	}
	if st.StealCount > len(st.Stealable) {
		st.StealCount = len(st.Stealable)
	}
	return st
}

// CanSteal reports whether the card in slot may be taken by the winner.
func (st Settlement) CanSteal(slot int) (domain.Card, bool) {
	if st.Draw {
		return domain.Card{}, false
	}
	return domain.Hand(st.Stealable).FindBySlot(slot)
}

func sortedBySlot(h domain.Hand) domain.Hand {
	out := h.Clone()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Identity.UserSlot < out[j].Identity.UserSlot
	})
	return out
}
