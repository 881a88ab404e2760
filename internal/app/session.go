package app

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"

	"tetramaster/internal/domain"
	"tetramaster/internal/logging"
	"tetramaster/internal/ports"
)

var (
	ErrInvalidLocation = errors.New("board location out of range")
	ErrInvalidSide     = errors.New("unknown side")
	ErrNoAttackingCard = errors.New("no attacking card")
	ErrNoDefender      = errors.New("no valid defender chosen")
	ErrGameNotEnded    = errors.New("game not ended")
)

// DefenderChooser picks which of several contested neighbors a computer
// controlled card battles first.
type DefenderChooser interface {
	ChooseDefender(board domain.Board, attacker int, candidates []int) (int, bool)
}

// FirstCandidate always engages the first contested neighbor in direction order.
type FirstCandidate struct{}

func (FirstCandidate) ChooseDefender(_ domain.Board, _ int, candidates []int) (int, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[0], true
}

// Options configures a Session. Zero windows and placements fall back to
// defaults; a zero MaxBlockers yields boards without blockers. A nil Scheduler
// runs continuations on a WallClock.
type Options struct {
	Logger    runtime.Logger
	Dice      *domain.Dice
	Scheduler Scheduler
	Reveal    ports.BattleRevealPort

	// PlayerChooser resolves player multi-battles automatically. When nil the
	// session waits in PlayerSelectBattle for ChooseDefender.
	PlayerChooser   DefenderChooser
	OpponentChooser DefenderChooser

	AnimationWindow time.Duration
	RevealWindow    time.Duration
	MaxPlacements   int
	MaxBlockers     int
}

type stateListener struct {
	id int
	fn func(domain.GameState)
}

type eventListener struct {
	id int
	fn func(Event)
}

// Session owns the board and hands of one game and drives its state machine.
// It is not safe for concurrent use; continuations run on whichever goroutine
// advances the Scheduler.
type Session struct {
	id     string
	gameID string
	opts   Options
	logger runtime.Logger
	dice   *domain.Dice

	state       domain.GameState
	board       domain.Board
	hands       [2]domain.Hand
	cardsPlayed int
	attacking   int
	active      domain.Side
	selecting   []int
	inFlight    bool
	generation  uint64

	nextListenerID int
	stateListeners []stateListener
	eventListeners []eventListener
}

// NewSession constructs a Session in GameInit.
func NewSession(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Dice == nil {
		opts.Dice = domain.NewDice(rand.New(rand.NewSource(time.Now().UnixNano())), opts.Logger)
	}
	if opts.Scheduler == nil {
		opts.Scheduler = NewWallClock()
	}
	if opts.OpponentChooser == nil {
		opts.OpponentChooser = FirstCandidate{}
	}
	if opts.AnimationWindow <= 0 {
		opts.AnimationWindow = DefaultAnimationWindow
	}
	if opts.RevealWindow <= 0 {
		opts.RevealWindow = DefaultRevealWindow
	}
	if opts.MaxPlacements <= 0 {
		opts.MaxPlacements = DefaultMaxPlacements
	}
	if opts.MaxBlockers < 0 {
		opts.MaxBlockers = 0
	}

	id := uuid.NewString()
	return &Session{
		id:        id,
		opts:      opts,
		logger:    opts.Logger.WithField("session", id),
		dice:      opts.Dice,
		state:     domain.GameInit,
		board:     domain.NewBoard(0),
		attacking: noLocation,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// GameID identifies the current game. StartGame issues a new one.
func (s *Session) GameID() string { return s.gameID }

// Scheduler returns the scheduler continuations run on.
func (s *Session) Scheduler() Scheduler { return s.opts.Scheduler }

// State returns the last emitted game state.
func (s *Session) State() domain.GameState { return s.state }

// Board returns a copy of the board.
func (s *Session) Board() domain.Board { return s.board }

// Hand returns a copy of a side's hand.
func (s *Session) Hand(side domain.Side) domain.Hand {
	if !side.Valid() {
		return nil
	}
	return s.hands[side].Clone()
}

// CardsPlayed returns the number of placements made this game.
func (s *Session) CardsPlayed() int { return s.cardsPlayed }

// ActiveSide returns the side whose placement is current.
func (s *Session) ActiveSide() domain.Side { return s.active }

// AttackingLocation returns the location of the card whose battles are being
// resolved.
func (s *Session) AttackingLocation() (int, bool) {
	return s.attacking, s.attacking != noLocation
}

// SelectionCandidates returns the neighbors the player may choose between.
func (s *Session) SelectionCandidates() []int {
	return append([]int(nil), s.selecting...)
}

// Busy reports whether a battle continuation is pending.
func (s *Session) Busy() bool { return s.inFlight }

// Subscribe registers a state listener. States are delivered in emission
// order, repeats included.
func (s *Session) Subscribe(fn func(domain.GameState)) (unsubscribe func()) {
	s.nextListenerID++
	id := s.nextListenerID
	s.stateListeners = append(s.stateListeners, stateListener{id: id, fn: fn})
	return func() {
		for i, l := range s.stateListeners {
			if l.id == id {
				s.stateListeners = append(s.stateListeners[:i:i], s.stateListeners[i+1:]...)
				return
			}
		}
	}
}

// OnEvent registers a listener for every orchestration event.
func (s *Session) OnEvent(fn func(Event)) (unsubscribe func()) {
	s.nextListenerID++
	id := s.nextListenerID
	s.eventListeners = append(s.eventListeners, eventListener{id: id, fn: fn})
	return func() {
		for i, l := range s.eventListeners {
			if l.id == id {
				s.eventListeners = append(s.eventListeners[:i:i], s.eventListeners[i+1:]...)
				return
			}
		}
	}
}

// StartGame resets the session with a fresh board and the given hands and
// emits GameStart. Continuations of a previous game are discarded.
func (s *Session) StartGame(playerHand, opponentHand domain.Hand) domain.GameState {
	s.generation++
	s.gameID = uuid.NewString()
	s.inFlight = false
	s.selecting = nil
	s.cardsPlayed = 0
	s.attacking = noLocation
	s.active = domain.SidePlayer

	blockers := s.dice.Int(s.opts.MaxBlockers+1, 0)
	s.board = domain.NewBoard(domain.RandomBlockedMask(s.dice, blockers))
	s.hands[domain.SidePlayer] = playerHand.AssignSlots(domain.PlayerSlotBase)
	s.hands[domain.SideOpponent] = opponentHand.AssignSlots(domain.OpponentSlotBase)

	s.logger.Debug("game started with %d blockers", blockers)
	s.setState(domain.GameStart)
	return s.state
}

// FlipCoin decides uniformly which side places first and starts its turn.
func (s *Session) FlipCoin() domain.Side {
	side := domain.Side(s.dice.Int(2, 0))
	if err := s.BeginTurn(side); err != nil {
		s.logger.Error("coin flip: %v", err)
	}
	return side
}

// BeginTurn starts the first turn for side. It does nothing outside GameStart.
func (s *Session) BeginTurn(side domain.Side) error {
	if !side.Valid() {
		return ErrInvalidSide
	}
	if s.state != domain.GameStart {
		s.logger.Debug("begin turn ignored in %s", s.state)
		return nil
	}
	s.active = side
	s.setState(side.TurnState())
	return nil
}

// PlaceCard puts a card from side's hand onto an empty cell and resolves the
// placement. Attempts that are not legal right now are ignored.
func (s *Session) PlaceCard(card domain.Card, location int, side domain.Side) error {
	if !domain.ValidLocation(location) {
		return ErrInvalidLocation
	}
	if !side.Valid() {
		return ErrInvalidSide
	}
	if s.state != side.TurnState() || s.inFlight {
		s.logger.Debug("placement by %s ignored in %s", side, s.state)
		return nil
	}
	if s.board[location].Owner != domain.Empty {
		s.logger.Debug("placement at %d ignored: cell is %s", location, s.board[location].Owner)
		return nil
	}
	held, ok := s.hands[side].FindBySlot(card.Identity.UserSlot)
	if !ok {
		s.logger.Debug("placement ignored: slot %d not in %s hand", card.Identity.UserSlot, side)
		return nil
	}

	s.board.Place(held, location, side.Ownership())
	s.hands[side] = s.hands[side].RemoveBySlot(held.Identity.UserSlot)
	s.cardsPlayed++
	s.active = side

	s.emit(Event{Kind: EventCardPlaced, Payload: CardPlacedPayload{Side: side, Card: s.board[location].Card(), Location: location}})
	s.battlePhase(location, nil, false)
	return nil
}

// ChooseDefender picks which contested neighbor the player's card battles
// while in PlayerSelectBattle.
func (s *Session) ChooseDefender(location int) error {
	if !domain.ValidLocation(location) {
		return ErrInvalidLocation
	}
	if s.state != domain.PlayerSelectBattle || s.inFlight {
		s.logger.Debug("defender choice ignored in %s", s.state)
		return nil
	}
	if !containsLocation(s.selecting, location) {
		s.logger.Debug("defender choice %d is not a candidate", location)
		return nil
	}
	if s.attacking == noLocation {
		s.abort(noLocation, ErrNoAttackingCard)
		return nil
	}

	attacker := s.board[s.attacking]
	full := domain.GenerateActionArray(attacker.Stats, s.attacking, attacker.Owner, &s.board, false)
	only, ok := full.Only(s.attacking, location)
	if !ok || only.Count(domain.ActionBattle) != 1 {
		s.logger.Debug("defender choice %d no longer contested", location)
		return nil
	}

	s.clearSelection()
	s.battlePhase(s.attacking, &only, true)
	return nil
}

// Settle summarizes a finished game.
func (s *Session) Settle() (Settlement, error) {
	if s.state != domain.GameEnd {
		return Settlement{}, ErrGameNotEnded
	}
	return newSettlement(s.gameID, &s.board, s.hands), nil
}

func (s *Session) setState(state domain.GameState) {
	s.state = state
	s.logger.Debug("state -> %s", state)
	listeners := append([]stateListener(nil), s.stateListeners...)
	for _, l := range listeners {
		l.fn(state)
	}
	s.emit(Event{Kind: EventStateChanged, Payload: StateChangedPayload{State: state, Active: s.active}})
}

func (s *Session) emit(ev Event) {
	listeners := append([]eventListener(nil), s.eventListeners...)
	for _, l := range listeners {
		l.fn(ev)
	}
}

func (s *Session) abort(location int, err error) {
	s.logger.Error("battle phase aborted at %d: %v", location, err)
	s.emit(Event{Kind: EventPhaseAborted, Payload: PhaseAbortedPayload{Location: location, Err: err}})
}

func (s *Session) clearSelection() {
	for _, loc := range s.selecting {
		if s.board[loc].Text == SelectText {
			s.board[loc].Text = ""
		}
		s.board[loc].Selected = false
	}
	s.selecting = nil
}

// advance moves to the next turn, or ends the game once every placement has
// been made.
func (s *Session) advance() {
	s.attacking = noLocation
	if s.cardsPlayed >= s.opts.MaxPlacements {
		s.returnCards()
		s.setState(domain.GameEnd)
		s.emit(Event{Kind: EventGameEnded, Payload: GameEndedPayload{
			PlayerHand:   s.Hand(domain.SidePlayer),
			OpponentHand: s.Hand(domain.SideOpponent),
		}})
		return
	}

	switch s.state {
	case domain.PlayerTurn, domain.PlayerSelectBattle:
		s.active = domain.SideOpponent
		s.setState(domain.OpponentTurn)
	case domain.OpponentTurn:
		s.active = domain.SidePlayer
		s.setState(domain.PlayerTurn)
	default:
		s.logger.Warn("advance ignored in %s", s.state)
	}
}

// returnCards puts every card on the board back into its original hand,
// ordered by slot. The board keeps the final ownership for settlement.
func (s *Session) returnCards() {
	for _, cell := range s.board.OccupiedCards() {
		side, ok := domain.SideForSlot(cell.Identity.UserSlot)
		if !ok {
			s.logger.Warn("card at %d has no origin slot", cell.Identity.BoardLocation)
			continue
		}
		s.hands[side] = append(s.hands[side], cell.Card())
	}
	for side := range s.hands {
		s.hands[side] = sortedBySlot(s.hands[side])
	}
}

func containsLocation(locs []int, loc int) bool {
	for _, l := range locs {
		if l == loc {
			return true
		}
	}
	return false
}
