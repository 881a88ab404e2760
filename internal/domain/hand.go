package domain

// Hand holds the cards a side has not placed yet, in order.
type Hand []Card

// FindBySlot returns the card with the given user slot.
func (h Hand) FindBySlot(slot int) (Card, bool) {
	for _, c := range h {
		if c.Identity.UserSlot == slot {
			return c, true
		}
	}
	return Card{}, false
}

// RemoveBySlot returns a new hand without the card in slot. The hand is
// returned unchanged when no card matches.
func (h Hand) RemoveBySlot(slot int) Hand {
	for i, c := range h {
		if c.Identity.UserSlot != slot {
			continue
		}
		out := make(Hand, 0, len(h)-1)
		out = append(out, h[:i]...)
		return append(out, h[i+1:]...)
	}
	return h
}

// Clone returns an independent copy.
func (h Hand) Clone() Hand {
	if h == nil {
		return nil
	}
	out := make(Hand, len(h))
	copy(out, h)
	return out
}

// AssignSlots gives every unassigned card the next free slot starting at base.
func (h Hand) AssignSlots(base int) Hand {
	out := h.Clone()
	used := make(map[int]bool, len(out))
	for _, c := range out {
		if c.Identity.UserSlot != UnassignedSlot {
			used[c.Identity.UserSlot] = true
		}
	}
	next := base
	for i := range out {
		if out[i].Identity.UserSlot != UnassignedSlot {
			continue
		}
		for used[next] {
			next++
		}
		out[i].Identity.UserSlot = next
		used[next] = true
	}
	return out
}
