package bot

import (
	"errors"

	"tetramaster/internal/domain"
)

var (
	ErrUnknownSkillLevel = errors.New("unknown skill level")
	ErrEmptyHand         = errors.New("hand is empty")
	ErrNoEmptyCell       = errors.New("no empty cell on the board")
)

// Move is a placement decision.
type Move struct {
	Card     domain.Card
	Location int
}

// Strategy is the interface every computer opponent level implements. It also
// satisfies app.DefenderChooser.
type Strategy interface {
	ChooseMove(board domain.Board, hand domain.Hand, side domain.Side) (Move, error)
	ChooseDefender(board domain.Board, attacker int, candidates []int) (int, bool)
	ChooseSteal(cards []domain.Card) (domain.Card, bool)
}
