package domain

import "fmt"

// seqSource replays fixed raw samples, repeating the last one.
type seqSource struct {
	vals []uint32
	i    int
}

func (s *seqSource) Uint32() uint32 {
	if len(s.vals) == 0 {
		return 0
	}
	v := s.vals[min(s.i, len(s.vals)-1)]
	s.i++
	return v
}

type recordingWarner struct {
	msgs []string
}

func (w *recordingWarner) Warn(format string, v ...interface{}) {
	w.msgs = append(w.msgs, fmt.Sprintf(format, v...))
}

func fixedDice(vals ...uint32) *Dice {
	return NewDice(&seqSource{vals: vals}, nil)
}
