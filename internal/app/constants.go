package app

import "time"

// Default session tuning, used when Options leave a field zero.
const (
	DefaultMaxPlacements   = 10
	DefaultMaxBlockers     = 6
	DefaultRevealWindow    = 2000 * time.Millisecond
	DefaultAnimationWindow = DefaultRevealWindow + 5*time.Millisecond
)

// SelectText marks a neighbor the player may choose to battle.
const SelectText = "Select a Card"

// noLocation marks the absence of an attacking card.
const noLocation = -1
