package app

import "tetramaster/internal/domain"

// EventKind identifies events emitted by a Session.
type EventKind string

const (
	EventStateChanged      EventKind = "state_changed"
	EventCardPlaced        EventKind = "card_placed"
	EventCardsCaptured     EventKind = "cards_captured"
	EventSelectionRequired EventKind = "selection_required"
	EventBattleResolved    EventKind = "battle_resolved"
	EventBattleSettled     EventKind = "battle_settled"
	EventRollRevealed      EventKind = "roll_revealed"
	EventPhaseAborted      EventKind = "phase_aborted"
	EventGameEnded         EventKind = "game_ended"
)

// Event is an orchestration event delivered to OnEvent listeners.
type Event struct {
	Kind    EventKind
	Payload any
}

type StateChangedPayload struct {
	State  domain.GameState
	Active domain.Side
}

type CardPlacedPayload struct {
	Side     domain.Side
	Card     domain.Card
	Location int
}

type CardsCapturedPayload struct {
	Owner     domain.Ownership
	Cause     domain.Action
	Locations []int
}

type SelectionRequiredPayload struct {
	Attacker   int
	Candidates []int
}

type BattleResolvedPayload struct {
	Outcome domain.BattleOutcome
}

type BattleSettledPayload struct {
	Outcome  domain.BattleOutcome
	Captured []int
}

type RollRevealedPayload struct {
	Location int
	Stat     int
	Margin   int
}

type PhaseAbortedPayload struct {
	Location int
	Err      error
}

type GameEndedPayload struct {
	PlayerHand   domain.Hand
	OpponentHand domain.Hand
}
