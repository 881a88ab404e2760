package bot

import (
	botinternal "tetramaster/internal/bot/internal"
	"tetramaster/internal/domain"
)

// RandomStrategy places a uniformly random card on a uniformly random empty
// cell.
type RandomStrategy struct {
	dice *domain.Dice
}

func (s *RandomStrategy) ChooseMove(board domain.Board, hand domain.Hand, _ domain.Side) (Move, error) {
	if len(hand) == 0 {
		return Move{}, ErrEmptyHand
	}
	empty := board.EmptyLocations()
	if len(empty) == 0 {
		return Move{}, ErrNoEmptyCell
	}
	card := hand[s.dice.Pick(len(hand))]
	loc := empty[s.dice.Pick(len(empty))]
	return Move{Card: card, Location: loc}, nil
}

func (s *RandomStrategy) ChooseDefender(_ domain.Board, _ int, candidates []int) (int, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[s.dice.Pick(len(candidates))], true
}

// ChooseSteal takes the card with the highest attack power.
func (s *RandomStrategy) ChooseSteal(cards []domain.Card) (domain.Card, bool) {
	return botinternal.StrongestCard(cards)
}
