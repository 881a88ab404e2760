// Package deck builds hands for computer opponents and starter collections
// for new players.
package deck

import (
	"github.com/google/uuid"

	"tetramaster/internal/domain"
)

// MonsterCards is the number of leading card types ordered by strength.
const MonsterCards = 56

// windowSize is how many consecutive card types an opponent deck draws from.
const windowSize = 8

// Generator draws cards from the card-type table.
type Generator struct {
	dice  *domain.Dice
	types domain.CardTypeTable
}

func NewGenerator(dice *domain.Dice, types domain.CardTypeTable) *Generator {
	return &Generator{dice: dice, types: types}
}

// Window returns the half-open range of card type ids an opponent of the
// given card level draws from. Each level slides the window by 48/64 of a type.
func (g *Generator) Window(cardLevel int) (lo, hi int) {
	if cardLevel < 0 {
		cardLevel = 0
	}
	lo = cardLevel * 48 / 64
	hi = lo + windowSize - 1
	if n := g.types.Len(); hi > n {
		hi = n
		lo = max(0, hi-windowSize+1)
	}
	return lo, hi
}

// OpponentHand draws size cards for an opponent of the given card level. Cards
// take opponent slots starting at 100.
func (g *Generator) OpponentHand(cardLevel, size int) domain.Hand {
	lo, hi := g.Window(cardLevel)
	hand := make(domain.Hand, 0, size)
	for i := 0; i < size; i++ {
		c := g.cardOfType(g.dice.Int(hi, lo))
		c.Identity.UserSlot = domain.OpponentSlotBase + i
		hand = append(hand, c)
	}
	return hand
}

// StarterCollection returns size cards of random type with fully random stats.
func (g *Generator) StarterCollection(size int) []domain.Card {
	out := make([]domain.Card, 0, size)
	for i := 0; i < size; i++ {
		out = append(out, domain.Card{
			Identity: domain.CardIdentity{
				UniqueID:   uuid.NewString(),
				CardTypeID: g.dice.Int(g.types.Len(), 0),
			},
			Stats: domain.RandomStats(g.dice),
		})
	}
	return out
}

// PlayerHand takes up to size cards from a collection and gives them player
// slots starting at 105.
func PlayerHand(collection []domain.Card, size int) domain.Hand {
	if size > len(collection) {
		size = len(collection)
	}
	hand := make(domain.Hand, 0, size)
	for i := 0; i < size; i++ {
		c := collection[i]
		c.Identity.UserSlot = domain.PlayerSlotBase + i
		c.Identity.BoardLocation = 0
		hand = append(hand, c)
	}
	return hand
}

func (g *Generator) cardOfType(id int) domain.Card {
	c := domain.Card{Identity: domain.CardIdentity{UniqueID: uuid.NewString(), CardTypeID: id}}
	if ct, ok := g.types.Lookup(id); ok {
		c.Stats = domain.StatsForCardType(g.dice, ct)
	} else {
		c.Stats = domain.RandomStats(g.dice)
	}
	return c
}
