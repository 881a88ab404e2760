package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// OpponentProfile describes one computer opponent.
type OpponentProfile struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	SkillLevel  SkillLevel `json:"skill_level"`
	CardLevel   int        `json:"card_level"`
	AvatarIndex int        `json:"avatar_index"`
}

var (
	opponents     []OpponentProfile
	opponentByID  map[string]OpponentProfile
	opponentsOnce sync.Once
	opponentsErr  error
)

// LoadOpponents loads the opponent profiles from the given path.
func LoadOpponents(path string) error {
	opponentsOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			opponentsErr = fmt.Errorf("failed to read opponent profiles: %w", err)
			return
		}

		var loaded []OpponentProfile
		if err := json.Unmarshal(data, &loaded); err != nil {
			opponentsErr = fmt.Errorf("failed to unmarshal opponent profiles: %w", err)
			return
		}

		opponentByID = make(map[string]OpponentProfile, len(loaded))
		for _, p := range loaded {
			if p.ID == "" {
				continue
			}
			if p.SkillLevel != SkillRandom && p.SkillLevel != SkillGreedyCapture {
				opponentsErr = fmt.Errorf("opponent %s: %w: %d", p.ID, ErrUnknownSkillLevel, p.SkillLevel)
				return
			}
			opponents = append(opponents, p)
			opponentByID[p.ID] = p
		}
	})
	return opponentsErr
}

// GetOpponent returns a profile by index (mod pool size). Without loaded
// profiles it returns a challenger at the given skill and card level.
func GetOpponent(index int, skill SkillLevel, cardLevel int) OpponentProfile {
	if len(opponents) == 0 {
		return OpponentProfile{
			ID:          fmt.Sprintf("cpu-%d", index),
			DisplayName: fmt.Sprintf("Challenger %d", index),
			SkillLevel:  skill,
			CardLevel:   cardLevel,
		}
	}
	if index < 0 {
		index = -index
	}
	return opponents[index%len(opponents)]
}

// FindOpponent looks up a profile by id.
func FindOpponent(id string) (OpponentProfile, bool) {
	p, ok := opponentByID[id]
	return p, ok
}

// OpponentCount returns the number of loaded profiles.
func OpponentCount() int {
	return len(opponents)
}
