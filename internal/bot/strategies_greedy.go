package bot

import (
	botinternal "tetramaster/internal/bot/internal"
	"tetramaster/internal/domain"
)

// GreedyCaptureStrategy takes the first placement that captures without a
// battle. Failing that it plays a random placement that touches no opposing
// card, and failing that it plays randomly.
type GreedyCaptureStrategy struct {
	RandomStrategy
}

func (s *GreedyCaptureStrategy) ChooseMove(board domain.Board, hand domain.Hand, side domain.Side) (Move, error) {
	scan := botinternal.ScanPlacements(&board, hand, side.Ownership())
	if p, ok := botinternal.FirstSafeCapture(scan); ok {
		return Move{Card: p.Card, Location: p.Location}, nil
	}
	if quiet := botinternal.QuietPlacements(scan); len(quiet) > 0 {
		p := quiet[s.dice.Pick(len(quiet))]
		return Move{Card: p.Card, Location: p.Location}, nil
	}
	return s.RandomStrategy.ChooseMove(board, hand, side)
}

// ChooseDefender engages the contested neighbor weakest against the attacker.
func (s *GreedyCaptureStrategy) ChooseDefender(board domain.Board, attacker int, candidates []int) (int, bool) {
	return botinternal.WeakestDefender(&board, attacker, candidates)
}
