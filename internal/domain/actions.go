package domain

// Action classifies what a placed card does to one neighbor.
type Action int

const (
	ActionNone Action = iota
	ActionBattle
	ActionCapture
	ActionChain
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionBattle:
		return "battle"
	case ActionCapture:
		return "capture"
	case ActionChain:
		return "chain"
	default:
		return "unknown"
	}
}

// In reports whether a is one of kinds.
func (a Action) In(kinds ...Action) bool {
	for _, k := range kinds {
		if a == k {
			return true
		}
	}
	return false
}

// ActionArray holds one Action per direction, indexed by Direction.Index.
type ActionArray [8]Action

// Count returns the number of slots equal to kind.
func (arr ActionArray) Count(kind Action) int {
	n := 0
	for _, a := range arr {
		if a == kind {
			n++
		}
	}
	return n
}

// At returns the action in direction d.
func (arr ActionArray) At(d Direction) Action {
	return arr[d.Index()]
}

// Targets lists the neighbor locations of from whose slot equals kind, in
// direction order.
func (arr ActionArray) Targets(from int, kind Action) []int {
	var out []int
	for _, d := range AllDirections {
		if arr[d.Index()] != kind {
			continue
		}
		if n, ok := Neighbor(from, d); ok {
			out = append(out, n)
		}
	}
	return out
}

// Only returns an array keeping just the slot pointing from one location to
// an adjacent target.
func (arr ActionArray) Only(from, target int) (ActionArray, bool) {
	d, ok := DirectionBetween(from, target)
	if !ok {
		return ActionArray{}, false
	}
	var out ActionArray
	out[d.Index()] = arr[d.Index()]
	return out, true
}

// GenerateActionArray classifies every neighbor of a card at location owned by
// owner. With chain set every contested neighbor is a forced ActionChain.
func GenerateActionArray(stats CardStats, location int, owner Ownership, board *Board, chain bool) ActionArray {
	var arr ActionArray
	opposing, ok := owner.Opposing()
	if !ok {
		return arr
	}
	for _, d := range AllDirections {
		if !stats.HasArrow(d) {
			continue
		}
		n, ok := Neighbor(location, d)
		if !ok {
			continue
		}
		target := board[n]
		if target.Owner != opposing {
			continue
		}
		switch {
		case chain:
			arr[d.Index()] = ActionChain
		case target.Stats.HasArrow(d.Opposite()):
			arr[d.Index()] = ActionBattle
		default:
			arr[d.Index()] = ActionCapture
		}
	}
	return arr
}
