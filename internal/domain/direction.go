package domain

import "math/bits"

// BoardColumns is the width of the square playing grid.
const BoardColumns = 4

// BoardSize is the number of cells on the grid.
const BoardSize = BoardColumns * BoardColumns

// Direction is a single arrow flag. Bit i of a card's arrow mask is the
// direction with index i.
type Direction uint8

const (
	NW Direction = 1 << iota
	N
	NE
	E
	SE
	S
	SW
	W
)

// AllDirections lists the eight directions in index order.
var AllDirections = [8]Direction{NW, N, NE, E, SE, S, SW, W}

// Valid reports whether d is exactly one arrow flag.
func (d Direction) Valid() bool {
	return d != 0 && d&(d-1) == 0
}

// Index returns the position of d in AllDirections (0..7).
func (d Direction) Index() int {
	return bits.TrailingZeros8(uint8(d))
}

// Offset returns the relative index of the neighbor in direction d on the
// row-major board.
func (d Direction) Offset() int {
	switch d {
	case NW:
		return -BoardColumns - 1
	case N:
		return -BoardColumns
	case NE:
		return -BoardColumns + 1
	case E:
		return 1
	case SE:
		return BoardColumns + 1
	case S:
		return BoardColumns
	case SW:
		return BoardColumns - 1
	case W:
		return -1
	default:
		return 0
	}
}

// Opposite returns the direction pointing back, four positions away.
func (d Direction) Opposite() Direction {
	return Direction(bits.RotateLeft8(uint8(d), 4))
}

func (d Direction) String() string {
	switch d {
	case NW:
		return "NW"
	case N:
		return "N"
	case NE:
		return "NE"
	case E:
		return "E"
	case SE:
		return "SE"
	case S:
		return "S"
	case SW:
		return "SW"
	case W:
		return "W"
	default:
		return "?"
	}
}

// ValidLocation reports whether location addresses a grid cell.
func ValidLocation(location int) bool {
	return location >= 0 && location < BoardSize
}

// NeighborInBounds reports whether moving from location in direction d stays
// on the grid. It must be checked before applying Offset: edge offsets alias
// to unrelated cells.
func NeighborInBounds(location int, d Direction) bool {
	if !ValidLocation(location) {
		return false
	}
	top := location < BoardColumns
	bottom := location >= BoardSize-BoardColumns
	left := location%BoardColumns == 0
	right := location%BoardColumns == BoardColumns-1

	switch d {
	case NW:
		return !top && !left
	case N:
		return !top
	case NE:
		return !top && !right
	case E:
		return !right
	case SE:
		return !bottom && !right
	case S:
		return !bottom
	case SW:
		return !bottom && !left
	case W:
		return !left
	default:
		return false
	}
}

// Neighbor returns the location adjacent to location in direction d.
func Neighbor(location int, d Direction) (int, bool) {
	if !NeighborInBounds(location, d) {
		return 0, false
	}
	return location + d.Offset(), true
}

// DirectionBetween returns the direction leading from one location to an
// adjacent other location.
func DirectionBetween(from, to int) (Direction, bool) {
	for _, d := range AllDirections {
		if n, ok := Neighbor(from, d); ok && n == to {
			return d, true
		}
	}
	return 0, false
}
