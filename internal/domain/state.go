package domain

// GameState represents the lifecycle stage of a game session.
type GameState int

const (
	// GameInit is the state before any game has been started.
	GameInit GameState = iota
	// GameStart indicates a fresh board and hands are ready and the first turn is undecided.
	GameStart
	// PlayerTurn indicates the human side may place a card.
	PlayerTurn
	// OpponentTurn indicates the computer side may place a card.
	OpponentTurn
	// PlayerSelectBattle indicates a player placement opened several battles and a defender must be chosen.
	PlayerSelectBattle
	// GameEnd indicates all placements have been made.
	GameEnd
)

func (s GameState) String() string {
	switch s {
	case GameInit:
		return "game_init"
	case GameStart:
		return "game_start"
	case PlayerTurn:
		return "player_turn"
	case OpponentTurn:
		return "opponent_turn"
	case PlayerSelectBattle:
		return "player_select_battle"
	case GameEnd:
		return "game_end"
	default:
		return "unknown"
	}
}

// BattleResult is the outcome of initiating the battles of one placement.
type BattleResult int

const (
	BattleError BattleResult = iota
	NeedPlayerInput
	NoBattle
	LostBattle
	WonBattle
)

func (r BattleResult) String() string {
	switch r {
	case BattleError:
		return "error"
	case NeedPlayerInput:
		return "need_player_input"
	case NoBattle:
		return "no_battle"
	case LostBattle:
		return "lost_battle"
	case WonBattle:
		return "won_battle"
	default:
		return "unknown"
	}
}

// Side identifies one of the two participants of a game.
type Side int

const (
	SidePlayer Side = iota
	SideOpponent
)

// Valid reports whether s names a participant.
func (s Side) Valid() bool {
	return s == SidePlayer || s == SideOpponent
}

// Ownership returns the board tag used for cells held by this side.
func (s Side) Ownership() Ownership {
	if s == SideOpponent {
		return Enemy
	}
	return Friend
}

// TurnState returns the game state during which this side places cards.
func (s Side) TurnState() GameState {
	if s == SideOpponent {
		return OpponentTurn
	}
	return PlayerTurn
}

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == SideOpponent {
		return SidePlayer
	}
	return SideOpponent
}

func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideOpponent:
		return "opponent"
	default:
		return "unknown"
	}
}

// SideOf maps a board ownership tag back to its side. ok is false for cells no side holds.
func SideOf(o Ownership) (Side, bool) {
	switch o {
	case Friend:
		return SidePlayer, true
	case Enemy:
		return SideOpponent, true
	default:
		return 0, false
	}
}
