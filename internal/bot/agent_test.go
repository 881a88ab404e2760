package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tetramaster/internal/app"
	"tetramaster/internal/domain"
)

var testEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

const thinkDelay = time.Second

func randomHand(dice *domain.Dice, n int) domain.Hand {
	hand := make(domain.Hand, n)
	for i := range hand {
		hand[i] = domain.Card{Stats: domain.RandomStats(dice)}
	}
	return hand
}

func TestAgents_PlayFullGame(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		dice := seededDice(seed)
		player := mustStrategy(t, SkillRandom, seed+100)
		opponent := mustStrategy(t, SkillGreedyCapture, seed+200)
		q := app.NewTimerQueue(testEpoch)

		session := app.NewSession(app.Options{
			Dice:            dice,
			Scheduler:       q,
			PlayerChooser:   player,
			OpponentChooser: opponent,
			MaxBlockers:     6,
		})
		(&Agent{Side: domain.SidePlayer, Strategy: player}).Attach(session, q, thinkDelay)
		(&Agent{Side: domain.SideOpponent, Strategy: opponent}).Attach(session, q, thinkDelay)

		session.StartGame(randomHand(dice, 5), randomHand(dice, 5))
		session.FlipCoin()
		q.RunUntilIdle()

		require.Equal(t, domain.GameEnd, session.State(), "seed %d", seed)
		assert.Equal(t, 10, session.CardsPlayed())

		st, err := session.Settle()
		require.NoError(t, err)
		assert.Equal(t, 10, st.PlayerScore+st.OpponentScore)
		assert.Len(t, session.Hand(domain.SidePlayer), 5)
		assert.Len(t, session.Hand(domain.SideOpponent), 5)
	}
}

func TestAgent_WaitsForThinkDelay(t *testing.T) {
	dice := seededDice(9)
	q := app.NewTimerQueue(testEpoch)
	session := app.NewSession(app.Options{Dice: dice, Scheduler: q})
	agent := &Agent{Side: domain.SideOpponent, Strategy: mustStrategy(t, SkillRandom, 9)}
	agent.Attach(session, q, thinkDelay)

	session.StartGame(randomHand(dice, 5), randomHand(dice, 5))
	require.NoError(t, session.BeginTurn(domain.SideOpponent))

	q.Advance(thinkDelay - time.Millisecond)
	assert.Equal(t, 0, session.CardsPlayed())

	q.Advance(time.Millisecond)
	assert.Equal(t, 1, session.CardsPlayed())
	assert.Len(t, session.Hand(domain.SideOpponent), 4)
}

func TestAgent_DropsStaleMove(t *testing.T) {
	dice := seededDice(11)
	q := app.NewTimerQueue(testEpoch)
	session := app.NewSession(app.Options{Dice: dice, Scheduler: q})
	agent := &Agent{Side: domain.SideOpponent, Strategy: mustStrategy(t, SkillRandom, 11)}
	agent.Attach(session, q, thinkDelay)

	session.StartGame(randomHand(dice, 5), randomHand(dice, 5))
	require.NoError(t, session.BeginTurn(domain.SideOpponent))
	session.StartGame(randomHand(dice, 5), randomHand(dice, 5))

	q.Advance(thinkDelay)
	assert.Equal(t, 0, session.CardsPlayed())
	assert.Equal(t, domain.GameStart, session.State())
}

func TestAgent_Detach(t *testing.T) {
	dice := seededDice(12)
	q := app.NewTimerQueue(testEpoch)
	session := app.NewSession(app.Options{Dice: dice, Scheduler: q})
	agent := &Agent{Side: domain.SideOpponent, Strategy: mustStrategy(t, SkillRandom, 12)}
	detach := agent.Attach(session, q, thinkDelay)

	session.StartGame(randomHand(dice, 5), randomHand(dice, 5))
	require.NoError(t, session.BeginTurn(domain.SideOpponent))
	detach()

	q.Advance(thinkDelay)
	assert.Equal(t, 0, session.CardsPlayed())
	assert.Equal(t, domain.OpponentTurn, session.State())
}

func TestAgent_IgnoresOtherSidesTurn(t *testing.T) {
	dice := seededDice(13)
	q := app.NewTimerQueue(testEpoch)
	session := app.NewSession(app.Options{Dice: dice, Scheduler: q})
	agent := &Agent{Side: domain.SideOpponent, Strategy: mustStrategy(t, SkillRandom, 13)}
	agent.Attach(session, q, thinkDelay)

	session.StartGame(randomHand(dice, 5), randomHand(dice, 5))
	require.NoError(t, session.BeginTurn(domain.SidePlayer))

	q.Advance(thinkDelay)
	assert.Equal(t, 0, session.CardsPlayed())
	assert.Equal(t, 0, q.Pending())
}

func TestAgent_Spoils(t *testing.T) {
	stealable := []domain.Card{mkCard(105, 0, 30, 0, 0), mkCard(106, 0, 200, 0, 0), mkCard(107, 0, 90, 0, 0)}
	agent := &Agent{Side: domain.SideOpponent, Strategy: mustStrategy(t, SkillGreedyCapture, 1)}

	one := agent.Spoils(app.Settlement{Winner: domain.SideOpponent, Stealable: stealable, StealCount: 1})
	require.Len(t, one, 1)
	assert.Equal(t, 106, one[0].Identity.UserSlot)

	all := agent.Spoils(app.Settlement{Winner: domain.SideOpponent, Perfect: true, Stealable: stealable, StealCount: 3})
	require.Len(t, all, 3)
	assert.Equal(t, []int{106, 107, 105}, []int{all[0].Identity.UserSlot, all[1].Identity.UserSlot, all[2].Identity.UserSlot})

	assert.Empty(t, agent.Spoils(app.Settlement{Winner: domain.SidePlayer, Stealable: stealable, StealCount: 1}))
	assert.Empty(t, agent.Spoils(app.Settlement{Draw: true}))
}
