package app

import (
	"fmt"

	"tetramaster/internal/domain"
)

// battlePhase resolves the placement of the card at placed. supplied narrows
// the contested neighbors, as after a player's defender choice; otherwise the
// action array is generated. chosen marks a battle picked out of several, which
// continues into the remaining battles after a win.
func (s *Session) battlePhase(placed int, supplied *domain.ActionArray, chosen bool) {
	if !domain.ValidLocation(placed) || !s.board[placed].Occupied() {
		s.abort(placed, ErrNoAttackingCard)
		return
	}
	s.attacking = placed
	attacker := s.board[placed]

	var actions domain.ActionArray
	if supplied != nil {
		actions = *supplied
	} else {
		actions = domain.GenerateActionArray(attacker.Stats, placed, attacker.Owner, &s.board, false)
	}
	battles := actions.Targets(placed, domain.ActionBattle)

	switch {
	case len(battles) == 0:
		captured := s.board.ApplyActions(placed, actions, attacker.Owner, domain.ActionCapture, domain.ActionChain)
		s.emitCaptures(attacker.Owner, domain.ActionCapture, captured)
		s.advance()

	case len(battles) == 1:
		s.resolve(placed, battles[0], actions, chosen)

	default:
		side, _ := domain.SideOf(attacker.Owner)
		chooser := s.chooserFor(side)
		if chooser == nil {
			s.awaitSelection(placed, battles)
			return
		}
		defender, ok := chooser.ChooseDefender(s.board, placed, battles)
		if !ok || !containsLocation(battles, defender) {
			s.abort(placed, ErrNoDefender)
			return
		}
		s.resolve(placed, defender, actions, true)
	}
}

func (s *Session) chooserFor(side domain.Side) DefenderChooser {
	if side == domain.SideOpponent {
		return s.opts.OpponentChooser
	}
	return s.opts.PlayerChooser
}

// awaitSelection marks the contested neighbors and hands control to the
// player. The board is otherwise left untouched.
func (s *Session) awaitSelection(attacker int, candidates []int) {
	s.selecting = append([]int(nil), candidates...)
	for _, loc := range candidates {
		s.board[loc].Text = SelectText
		s.board[loc].Selected = true
	}
	s.emit(Event{Kind: EventSelectionRequired, Payload: SelectionRequiredPayload{Attacker: attacker, Candidates: s.SelectionCandidates()}})
	s.setState(domain.PlayerSelectBattle)
}

// resolve rolls one battle now and settles it once the animation window has
// passed. A losing attacker is converted immediately.
func (s *Session) resolve(attacker, defender int, actions domain.ActionArray, chosen bool) {
	s.inFlight = true
	outcome := domain.ResolveBattle(s.dice, &s.board, attacker, defender)
	s.logger.Debug("battle %d vs %d: %d-%d against %d-%d, attacker won=%v",
		attacker, defender, outcome.AttackStat, outcome.AttackRoll, outcome.DefenseStat, outcome.DefenseRoll, outcome.AttackerWon)

	s.reveal(attacker, outcome.AttackStat, outcome.AttackMargin)
	s.reveal(defender, outcome.DefenseStat, outcome.DefenseMargin)
	s.emit(Event{Kind: EventBattleResolved, Payload: BattleResolvedPayload{Outcome: outcome}})

	if !outcome.AttackerWon {
		owner := s.board[defender].Owner
		s.board.Flip(attacker, owner)
		s.emitCaptures(owner, domain.ActionBattle, []int{attacker})
	}

	gen := s.generation
	s.opts.Scheduler.After(s.opts.AnimationWindow, func() {
		if gen != s.generation {
			return
		}
		s.settle(outcome, actions, chosen)
	})
}

// settle applies a won battle's captures, then either continues into the
// placement's remaining battles or advances the turn.
func (s *Session) settle(outcome domain.BattleOutcome, actions domain.ActionArray, chosen bool) {
	s.inFlight = false
	attacker := outcome.AttackerLocation
	defender := outcome.DefenderLocation

	var captured []int
	if outcome.AttackerWon {
		owner := s.board[attacker].Owner
		s.board.Flip(defender, owner)
		captured = append(captured, defender)
		s.emitCaptures(owner, domain.ActionBattle, []int{defender})

		chain := domain.GenerateActionArray(s.board[defender].Stats, defender, owner, &s.board, true)
		chained := s.board.ApplyActions(defender, chain, owner, domain.ActionChain)
		s.emitCaptures(owner, domain.ActionChain, chained)

		taken := s.board.ApplyActions(attacker, actions, owner, domain.ActionCapture)
		s.emitCaptures(owner, domain.ActionCapture, taken)

		captured = append(captured, chained...)
		captured = append(captured, taken...)
	}
	s.emit(Event{Kind: EventBattleSettled, Payload: BattleSettledPayload{Outcome: outcome, Captured: captured}})

	if outcome.AttackerWon && chosen {
		s.battlePhase(attacker, nil, false)
		return
	}
	s.advance()
}

func (s *Session) reveal(location, stat, margin int) {
	text := fmt.Sprintf("Timer: %d %d", stat, margin)
	s.board[location].Text = text
	if s.opts.Reveal != nil {
		s.opts.Reveal.RevealRoll(s.board[location].Identity, stat, margin)
	}
	s.emit(Event{Kind: EventRollRevealed, Payload: RollRevealedPayload{Location: location, Stat: stat, Margin: margin}})

	gen := s.generation
	s.opts.Scheduler.After(s.opts.RevealWindow, func() {
		if gen == s.generation && s.board[location].Text == text {
			s.board[location].Text = ""
		}
	})
}

func (s *Session) emitCaptures(owner domain.Ownership, cause domain.Action, locations []int) {
	if len(locations) == 0 {
		return
	}
	s.emit(Event{Kind: EventCardsCaptured, Payload: CardsCapturedPayload{Owner: owner, Cause: cause, Locations: locations}})
}
