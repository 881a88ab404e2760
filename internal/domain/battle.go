package domain

// DefenseStat returns the defender stat an attack of the given style rolls against.
func DefenseStat(style AttackStyle, defender CardStats) int {
	p := int(defender.PhysicalDefense)
	m := int(defender.MagicalDefense)
	switch style {
	case Magical:
		return m
	case Flexible:
		return min(p, m)
	case Assault:
		return min(int(defender.AttackPower), p, m)
	default:
		return p
	}
}

// BattleOutcome records one resolved battle.
type BattleOutcome struct {
	AttackerLocation int  `json:"attackerLocation"`
	DefenderLocation int  `json:"defenderLocation"`
	AttackStat       int  `json:"attackStat"`
	AttackRoll       int  `json:"attackRoll"`
	AttackMargin     int  `json:"attackMargin"`
	DefenseStat      int  `json:"defenseStat"`
	DefenseRoll      int  `json:"defenseRoll"`
	DefenseMargin    int  `json:"defenseMargin"`
	AttackerWon      bool `json:"attackerWon"`
}

// Winner returns the location of the winning card.
func (o BattleOutcome) Winner() int {
	if o.AttackerWon {
		return o.AttackerLocation
	}
	return o.DefenderLocation
}

// Loser returns the location of the losing card.
func (o BattleOutcome) Loser() int {
	if o.AttackerWon {
		return o.DefenderLocation
	}
	return o.AttackerLocation
}

// DecideBattle compares the margins left after each roll. Equal margins go to
// the defender.
func DecideBattle(attackStat, attackRoll, defenseStat, defenseRoll int) BattleOutcome {
	o := BattleOutcome{
		AttackStat:    attackStat,
		AttackRoll:    attackRoll,
		AttackMargin:  attackStat - attackRoll,
		DefenseStat:   defenseStat,
		DefenseRoll:   defenseRoll,
		DefenseMargin: defenseStat - defenseRoll,
	}
	o.AttackerWon = o.AttackMargin > o.DefenseMargin
	return o
}

// ResolveBattle rolls a battle between the cards at attacker and defender.
func ResolveBattle(dice *Dice, board *Board, attacker, defender int) BattleOutcome {
	a := board[attacker].Stats
	attackStat := int(a.AttackPower)
	defenseStat := DefenseStat(a.AttackStyle, board[defender].Stats)

	attackRoll := dice.Roll(attackStat)
	defenseRoll := dice.Roll(defenseStat)

	o := DecideBattle(attackStat, attackRoll, defenseStat, defenseRoll)
	o.AttackerLocation = attacker
	o.DefenderLocation = defender
	return o
}
