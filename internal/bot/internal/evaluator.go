package internal

import (
	"tetramaster/internal/domain"
)

// WeakestDefender returns the candidate with the lowest defensive stat against
// the attacking card's style. The earliest candidate wins ties.
func WeakestDefender(board *domain.Board, attacker int, candidates []int) (int, bool) {
	if !domain.ValidLocation(attacker) || len(candidates) == 0 {
		return 0, false
	}
	style := board[attacker].Stats.AttackStyle
	best, bestStat := -1, 0
	for _, loc := range candidates {
		if !domain.ValidLocation(loc) {
			continue
		}
		stat := domain.DefenseStat(style, board[loc].Stats)
		if best < 0 || stat < bestStat {
			best, bestStat = loc, stat
		}
	}
	return best, best >= 0
}

// StrongestCard returns the card with the highest attack power. The lowest
// slot wins ties.
func StrongestCard(cards []domain.Card) (domain.Card, bool) {
	if len(cards) == 0 {
		return domain.Card{}, false
	}
	best := cards[0]
	for _, c := range cards[1:] {
		switch {
		case c.Stats.AttackPower > best.Stats.AttackPower:
			best = c
		case c.Stats.AttackPower == best.Stats.AttackPower && c.Identity.UserSlot < best.Identity.UserSlot:
			best = c
		}
	}
	return best, true
}
