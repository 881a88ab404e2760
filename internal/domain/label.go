package domain

// MatchPhase is the lobby-level lifecycle of a hosted match.
type MatchPhase string

const (
	// PhaseLobby indicates the match is waiting for its human player.
	PhaseLobby MatchPhase = "lobby"
	// PhasePlaying indicates a game is in progress.
	PhasePlaying MatchPhase = "playing"
	// PhaseEnded indicates the game finished and is awaiting settlement.
	PhaseEnded MatchPhase = "ended"
)

// PhaseFor maps a game state onto the match lifecycle.
func PhaseFor(s GameState) MatchPhase {
	switch s {
	case GameInit:
		return PhaseLobby
	case GameEnd:
		return PhaseEnded
	default:
		return PhasePlaying
	}
}

// LabelPayload is advertised as the match label.
type LabelPayload struct {
	Open       bool   `json:"open"`
	Game       string `json:"game"`
	Phase      string `json:"phase"`
	Opponent   string `json:"opponent"`
	CardLevel  int    `json:"card_level"`
	SkillLevel int    `json:"skill_level"`
}

// ComputeLabel derives the label from the current lifecycle and seat count.
func ComputeLabel(phase MatchPhase, humans int, opponent string, cardLevel, skillLevel int) LabelPayload {
	return LabelPayload{
		Open:       phase == PhaseLobby && humans < 1,
		Game:       "tetramaster",
		Phase:      string(phase),
		Opponent:   opponent,
		CardLevel:  cardLevel,
		SkillLevel: skillLevel,
	}
}
