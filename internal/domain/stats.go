package domain

// DefaultStats are the stats of an empty board cell.
func DefaultStats() CardStats {
	return CardStats{AttackStyle: Physical}
}

// RandomStats draws every stat uniformly from 0..255. The style is Physical or
// Magical 90% of the time, Flexible 9% and Assault 1%.
func RandomStats(dice *Dice) CardStats {
	var style AttackStyle
	switch n := dice.Int(100, 0); {
	case n < 90:
		if n%2 == 0 {
			style = Physical
		} else {
			style = Magical
		}
	case n < 99:
		style = Flexible
	default:
		style = Assault
	}
	return CardStats{
		ActiveArrows:    uint8(dice.Int(256, 0)),
		AttackPower:     uint8(dice.Int(256, 0)),
		AttackStyle:     style,
		PhysicalDefense: uint8(dice.Int(256, 0)),
		MagicalDefense:  uint8(dice.Int(256, 0)),
	}
}

// StatsForCardType draws random arrows and each stat from [ceil(max/2), max]
// of the type's ceilings.
func StatsForCardType(dice *Dice, t CardType) CardStats {
	style := t.Style
	if !style.Valid() {
		style = Physical
	}
	return CardStats{
		ActiveArrows:    uint8(dice.Int(256, 0)),
		AttackPower:     upperHalf(dice, t.MaxAttack),
		AttackStyle:     style,
		PhysicalDefense: upperHalf(dice, t.MaxPhysicalDefense),
		MagicalDefense:  upperHalf(dice, t.MaxMagicalDefense),
	}
}

func upperHalf(dice *Dice, max uint8) uint8 {
	hi := int(max)
	lo := (hi + 1) / 2
	return uint8(dice.Int(hi+1, lo))
}
