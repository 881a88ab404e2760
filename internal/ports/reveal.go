package ports

import "tetramaster/internal/domain"

// BattleRevealPort presents battle rolls. Implementations display the pair of
// numbers on the card and clear them once the reveal window has passed.
type BattleRevealPort interface {
	RevealRoll(card domain.CardIdentity, stat, margin int)
}
