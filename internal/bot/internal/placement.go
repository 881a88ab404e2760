package internal

import (
	"tetramaster/internal/domain"
)

// Placement is one candidate move: a hand card put on an empty cell, with the
// action array it would produce.
type Placement struct {
	Location int
	Card     domain.Card
	Actions  domain.ActionArray
}

// Captures counts the neighbors taken without a fight.
func (p Placement) Captures() int {
	return p.Actions.Count(domain.ActionCapture)
}

// Battles counts the contested neighbors.
func (p Placement) Battles() int {
	return p.Actions.Count(domain.ActionBattle)
}

// SafeCapture reports whether the placement captures at least one card and
// starts no battle.
func (p Placement) SafeCapture() bool {
	return p.Captures() > 0 && p.Battles() == 0
}

// Quiet reports whether the placement touches no opposing card.
func (p Placement) Quiet() bool {
	return p.Captures() == 0 && p.Battles() == 0
}

// ScanPlacements evaluates every hand card on every empty cell. Cells form the
// outer loop and hand cards the inner one, so the result is in scan order.
func ScanPlacements(board *domain.Board, hand domain.Hand, owner domain.Ownership) []Placement {
	empty := board.EmptyLocations()
	out := make([]Placement, 0, len(empty)*len(hand))
	for _, loc := range empty {
		for _, c := range hand {
			out = append(out, Placement{
				Location: loc,
				Card:     c,
				Actions:  domain.GenerateActionArray(c.Stats, loc, owner, board, false),
			})
		}
	}
	return out
}

// FirstSafeCapture returns the first placement that captures without a battle.
func FirstSafeCapture(scan []Placement) (Placement, bool) {
	for _, p := range scan {
		if p.SafeCapture() {
			return p, true
		}
	}
	return Placement{}, false
}

// QuietPlacements filters scan down to placements touching no opposing card.
func QuietPlacements(scan []Placement) []Placement {
	var out []Placement
	for _, p := range scan {
		if p.Quiet() {
			out = append(out, p)
		}
	}
	return out
}
