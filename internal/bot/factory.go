package bot

import (
	"fmt"

	"tetramaster/internal/domain"
)

// SkillLevel selects an opponent strategy.
type SkillLevel int

const (
	SkillRandom SkillLevel = iota
	SkillGreedyCapture
)

func (l SkillLevel) String() string {
	switch l {
	case SkillRandom:
		return "random"
	case SkillGreedyCapture:
		return "greedy-capture"
	default:
		return fmt.Sprintf("skill(%d)", int(l))
	}
}

// NewStrategy creates the strategy for level. A nil dice draws from crypto/rand.
func NewStrategy(level SkillLevel, dice *domain.Dice) (Strategy, error) {
	if dice == nil {
		dice = domain.NewDice(nil, nil)
	}
	switch level {
	case SkillRandom:
		return &RandomStrategy{dice: dice}, nil
	case SkillGreedyCapture:
		return &GreedyCaptureStrategy{RandomStrategy{dice: dice}}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownSkillLevel, level)
	}
}
