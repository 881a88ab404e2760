package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"tetramaster/internal/app"
	"tetramaster/internal/bot"
	"tetramaster/internal/config"
	"tetramaster/internal/deck"
	"tetramaster/internal/domain"
	"tetramaster/internal/ports"
)

type options struct {
	Seed          int64
	Games         int
	PlayerSkill   bot.SkillLevel
	OpponentSkill bot.SkillLevel
	CardLevel     int
	Config        config.GameConfig
}

// tally accumulates settlements across games.
type tally struct {
	PlayerWins   int
	OpponentWins int
	Draws        int
	Perfect      int
	CardsTaken   int
}

func (t *tally) add(st app.Settlement, taken int) {
	switch {
	case st.Draw:
		t.Draws++
	case st.Winner == domain.SidePlayer:
		t.PlayerWins++
	default:
		t.OpponentWins++
	}
	if st.Perfect {
		t.Perfect++
	}
	t.CardsTaken += taken
}

// revealLog prints battle rolls where a client would draw them on the card.
type revealLog struct {
	logger runtime.Logger
}

func (r revealLog) RevealRoll(card domain.CardIdentity, stat, margin int) {
	r.logger.Debug("Timer: %d %d on slot %d at %d", stat, margin, card.UserSlot, card.BoardLocation)
}

var _ ports.BattleRevealPort = revealLog{}

func runGames(logger runtime.Logger, types domain.CardTypeTable, opts options) (tally, error) {
	var t tally
	for i := 0; i < opts.Games; i++ {
		seed := opts.Seed + int64(i)
		st, taken, err := playGame(logger.WithField("game", i), types, opts, seed)
		if err != nil {
			return t, fmt.Errorf("game %d (seed %d): %w", i, seed, err)
		}
		t.add(st, len(taken))
		logger.Info("Game %d: %d-%d draw=%t perfect=%t taken=%d", i, st.PlayerScore, st.OpponentScore, st.Draw, st.Perfect, len(taken))
	}
	return t, nil
}

// playGame runs one game to completion on a manually advanced clock.
func playGame(logger runtime.Logger, types domain.CardTypeTable, opts options, seed int64) (app.Settlement, []domain.Card, error) {
	cfg := opts.Config
	dice := domain.NewDice(rand.New(rand.NewSource(seed)), logger)

	playerStrategy, err := bot.NewStrategy(opts.PlayerSkill, dice)
	if err != nil {
		return app.Settlement{}, nil, err
	}
	opponentStrategy, err := bot.NewStrategy(opts.OpponentSkill, dice)
	if err != nil {
		return app.Settlement{}, nil, err
	}

	timers := app.NewTimerQueue(time.Unix(0, 0).UTC())
	session := app.NewSession(app.Options{
		Logger:          logger,
		Dice:            dice,
		Scheduler:       timers,
		Reveal:          revealLog{logger: logger},
		PlayerChooser:   playerStrategy,
		OpponentChooser: opponentStrategy,
		AnimationWindow: cfg.AnimationWindow(),
		RevealWindow:    cfg.RevealWindow(),
		MaxPlacements:   cfg.MaxPlacements,
		MaxBlockers:     cfg.MaxBlockers,
	})

	agents := map[domain.Side]*bot.Agent{
		domain.SidePlayer:   {Side: domain.SidePlayer, Name: "player", Strategy: playerStrategy, Logger: logger},
		domain.SideOpponent: {Side: domain.SideOpponent, Name: "opponent", Strategy: opponentStrategy, Logger: logger},
	}
	for _, a := range agents {
		defer a.Attach(session, timers, cfg.OpponentThink())()
	}

	dealer := deck.NewGenerator(dice, types)
	playerHand := deck.PlayerHand(dealer.StarterCollection(cfg.HandSize), cfg.HandSize)
	opponentHand := dealer.OpponentHand(opts.CardLevel, cfg.HandSize)

	session.StartGame(playerHand, opponentHand)
	first := session.FlipCoin()
	logger.Debug("%s places first", first)
	timers.RunUntilIdle()

	if session.State() != domain.GameEnd {
		return app.Settlement{}, nil, fmt.Errorf("stalled in %s after %d placements", session.State(), session.CardsPlayed())
	}
	st, err := session.Settle()
	if err != nil {
		return app.Settlement{}, nil, err
	}
	if st.Draw {
		return st, nil, nil
	}
	return st, agents[st.Winner].Spoils(st), nil
}
