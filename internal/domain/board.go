package domain

import "sort"

// Cell is one grid position.
type Cell struct {
	Stats    CardStats    `json:"stats"`
	Identity CardIdentity `json:"identity"`
	Owner    Ownership    `json:"owner"`
	Text     string       `json:"text,omitempty"`
	Selected bool         `json:"selected,omitempty"`
}

// Occupied reports whether a card sits in the cell.
func (c Cell) Occupied() bool {
	return c.Owner == Friend || c.Owner == Enemy
}

// Card returns the card held by the cell.
func (c Cell) Card() Card {
	return Card{Identity: c.Identity, Stats: c.Stats}
}

// Board is the 4x4 grid in row-major order.
type Board [BoardSize]Cell

// NewBoard returns a board whose cells are Empty except those whose bit is set
// in blocked.
func NewBoard(blocked uint16) Board {
	var b Board
	for i := range b {
		b[i] = Cell{
			Stats:    DefaultStats(),
			Identity: CardIdentity{BoardLocation: i},
			Owner:    Empty,
		}
		if blocked&(1<<uint(i)) != 0 {
			b[i].Owner = Blocked
		}
	}
	return b
}

// RandomBlockedMask picks count distinct cells.
func RandomBlockedMask(dice *Dice, count int) uint16 {
	if count > BoardSize {
		count = BoardSize
	}
	var mask uint16
	for placed := 0; placed < count; {
		bit := uint16(1) << uint(dice.Int(BoardSize, 0))
		if mask&bit != 0 {
			continue
		}
		mask |= bit
		placed++
	}
	return mask
}

// Place writes card into location for owner.
func (b *Board) Place(card Card, location int, owner Ownership) {
	card.Identity.BoardLocation = location
	b[location] = Cell{
		Stats:    card.Stats,
		Identity: card.Identity,
		Owner:    owner,
	}
}

// Flip changes the owner of an occupied cell.
func (b *Board) Flip(location int, owner Ownership) {
	b[location].Owner = owner
}

// ApplyActions flips every occupied neighbor of from whose slot in actions is
// one of kinds to owner. Cells already held by owner are skipped. It returns
// the flipped locations.
func (b *Board) ApplyActions(from int, actions ActionArray, owner Ownership, kinds ...Action) []int {
	var flipped []int
	for _, d := range AllDirections {
		a := actions[d.Index()]
		if !a.In(kinds...) {
			continue
		}
		n, ok := Neighbor(from, d)
		if !ok || !b[n].Occupied() || b[n].Owner == owner {
			continue
		}
		b.Flip(n, owner)
		flipped = append(flipped, n)
	}
	return flipped
}

// EmptyLocations lists the cells available for placement.
func (b *Board) EmptyLocations() []int {
	var out []int
	for i, c := range b {
		if c.Owner == Empty {
			out = append(out, i)
		}
	}
	return out
}

// Count returns how many cells carry the tag.
func (b *Board) Count(owner Ownership) int {
	n := 0
	for _, c := range b {
		if c.Owner == owner {
			n++
		}
	}
	return n
}

// ClearText resets transient display state on every cell.
func (b *Board) ClearText() {
	for i := range b {
		b[i].Text = ""
		b[i].Selected = false
	}
}

// OccupiedCards returns the cards on the board ordered by user slot.
func (b *Board) OccupiedCards() []Cell {
	var out []Cell
	for _, c := range b {
		if c.Occupied() {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Identity.UserSlot < out[j].Identity.UserSlot
	})
	return out
}
