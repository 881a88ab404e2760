package app

import (
	"time"

	"tetramaster/internal/domain"
)

var testEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

const (
	testReveal    = 100 * time.Millisecond
	testAnimation = 200 * time.Millisecond
)

// seqSource replays raw samples, repeating the last one.
type seqSource struct {
	vals []uint32
	i    int
}

func (s *seqSource) Uint32() uint32 {
	if len(s.vals) == 0 {
		return 0
	}
	v := s.vals[min(s.i, len(s.vals)-1)]
	s.i++
	return v
}

type recorder struct {
	states []domain.GameState
	events []Event
}

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

func (r *recorder) count(kind EventKind) int {
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

type revealCall struct {
	slot, stat, margin int
}

type revealRecorder struct {
	calls []revealCall
}

func (r *revealRecorder) RevealRoll(card domain.CardIdentity, stat, margin int) {
	r.calls = append(r.calls, revealCall{slot: card.UserSlot, stat: stat, margin: margin})
}

type fixedChooser struct {
	pick int
	ok   bool
	seen [][]int
}

func (c *fixedChooser) ChooseDefender(_ domain.Board, _ int, candidates []int) (int, bool) {
	c.seen = append(c.seen, append([]int(nil), candidates...))
	return c.pick, c.ok
}

type fixture struct {
	s      *Session
	queue  *TimerQueue
	rec    *recorder
	reveal *revealRecorder
}

// newFixture builds a session on an unblocked board whose battle rolls replay
// rolls. The first sample is consumed by the blocker count at StartGame.
func newFixture(opts Options, rolls ...uint32) *fixture {
	queue := NewTimerQueue(testEpoch)
	reveal := &revealRecorder{}
	opts.Dice = domain.NewDice(&seqSource{vals: append([]uint32{0}, rolls...)}, nil)
	opts.Scheduler = queue
	opts.Reveal = reveal
	opts.RevealWindow = testReveal
	opts.AnimationWindow = testAnimation

	f := &fixture{s: NewSession(opts), queue: queue, rec: &recorder{}, reveal: reveal}
	f.s.Subscribe(func(st domain.GameState) { f.rec.states = append(f.rec.states, st) })
	f.s.OnEvent(func(ev Event) { f.rec.events = append(f.rec.events, ev) })
	return f
}

func card(slot int, arrows domain.Direction, attack, pdef, mdef uint8) domain.Card {
	return domain.Card{
		Identity: domain.CardIdentity{UserSlot: slot},
		Stats: domain.CardStats{
			ActiveArrows:    uint8(arrows),
			AttackPower:     attack,
			AttackStyle:     domain.Physical,
			PhysicalDefense: pdef,
			MagicalDefense:  mdef,
		},
	}
}

func hand(cards ...domain.Card) domain.Hand {
	return domain.Hand(cards)
}

// start begins a game with the player to move and clears recorded history.
func (f *fixture) start(player, opponent domain.Hand, first domain.Side) {
	f.s.StartGame(player, opponent)
	if err := f.s.BeginTurn(first); err != nil {
		panic(err)
	}
	f.rec.states = nil
	f.rec.events = nil
}

// put places a card directly on the board, bypassing hands and turns.
func (f *fixture) put(c domain.Card, loc int, owner domain.Ownership) {
	f.s.board.Place(c, loc, owner)
}
