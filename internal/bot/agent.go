package bot

import (
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"tetramaster/internal/app"
	"tetramaster/internal/domain"
	"tetramaster/internal/logging"
)

// Agent plays one side of a session autonomously.
type Agent struct {
	Side     domain.Side
	Name     string
	Strategy Strategy
	Logger   runtime.Logger
}

// Attach makes the agent place a card thinkDelay after each of its turns
// begins. A scheduled move is dropped if the turn has moved on by the time it
// fires. The returned func detaches the agent.
func (a *Agent) Attach(session *app.Session, scheduler app.Scheduler, thinkDelay time.Duration) (detach func()) {
	turn := a.Side.TurnState()
	detached := false
	unsubscribe := session.Subscribe(func(state domain.GameState) {
		if state != turn {
			return
		}
		played := session.CardsPlayed()
		scheduler.After(thinkDelay, func() {
			if detached || session.State() != turn || session.CardsPlayed() != played || session.Busy() {
				return
			}
			a.Play(session)
		})
	})
	return func() {
		detached = true
		unsubscribe()
	}
}

// Play asks the strategy for a move and submits it.
func (a *Agent) Play(session *app.Session) {
	logger := a.logger()
	move, err := a.Strategy.ChooseMove(session.Board(), session.Hand(a.Side), a.Side)
	if err != nil {
		logger.Warn("%s cannot move: %v", a.name(), err)
		return
	}
	logger.Debug("%s places slot %d at %d", a.name(), move.Card.Identity.UserSlot, move.Location)
	if err := session.PlaceCard(move.Card, move.Location, a.Side); err != nil {
		logger.Error("%s placement rejected: %v", a.name(), err)
	}
}

// Spoils picks the cards the agent takes from a settlement it won.
func (a *Agent) Spoils(st app.Settlement) []domain.Card {
	if st.Draw || st.Winner != a.Side {
		return nil
	}
	remaining := domain.Hand(st.Stealable).Clone()
	var taken []domain.Card
	for len(taken) < st.StealCount {
		c, ok := a.Strategy.ChooseSteal(remaining)
		if !ok {
			break
		}
		taken = append(taken, c)
		remaining = remaining.RemoveBySlot(c.Identity.UserSlot)
	}
	return taken
}

func (a *Agent) logger() runtime.Logger {
	if a.Logger == nil {
		return logging.Nop()
	}
	return a.Logger
}

func (a *Agent) name() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Side.String()
}
