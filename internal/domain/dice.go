package domain

import (
	"crypto/rand"
	"encoding/binary"
	"math"
)

// Source yields uniformly distributed 32-bit values. *math/rand.Rand satisfies it.
type Source interface {
	Uint32() uint32
}

// CryptoSource draws from crypto/rand.
type CryptoSource struct{}

func (CryptoSource) Uint32() uint32 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return binary.LittleEndian.Uint32(b[:])
}

// Warner receives range degradation warnings.
type Warner interface {
	Warn(format string, v ...interface{})
}

// Dice produces unbiased integers from a Source.
type Dice struct {
	src    Source
	warner Warner
}

// NewDice wraps src. warner may be nil.
func NewDice(src Source, warner Warner) *Dice {
	if src == nil {
		src = CryptoSource{}
	}
	return &Dice{src: src, warner: warner}
}

// Int returns a uniform value in [floor, ceiling). Empty or inverted ranges
// return floor and log a warning.
func (d *Dice) Int(ceiling, floor int) int {
	if ceiling <= floor {
		if d.warner != nil {
			d.warner.Warn("dice: empty range [%d, %d), using %d", floor, ceiling, floor)
		}
		return floor
	}
	span := uint64(ceiling - floor)
	if span > math.MaxUint32 {
		span = math.MaxUint32
	}
	limit := (uint64(math.MaxUint32) + 1) / span * span
	for {
		r := uint64(d.src.Uint32())
		if r < limit {
			return int(r%span) + floor
		}
	}
}

// Roll returns a uniform value in [0, max].
func (d *Dice) Roll(max int) int {
	return d.Int(max+1, 0)
}

// Pick returns a uniform index in [0, n).
func (d *Dice) Pick(n int) int {
	return d.Int(n, 0)
}
