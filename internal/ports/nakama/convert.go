package nakama

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"tetramaster/internal/app"
	"tetramaster/internal/domain"
)

// encodePayload marshals fields as a protojson Struct.
func encodePayload(fields map[string]interface{}) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}
	return (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(s)
}

// decodePayload parses a client message. An empty message decodes to an
// empty Struct.
func decodePayload(data []byte) (*structpb.Struct, error) {
	s := &structpb.Struct{}
	if len(data) == 0 {
		return s, nil
	}
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	return s, nil
}

func intField(s *structpb.Struct, key string) (int, bool) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, false
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, false
	}
	return int(n.NumberValue), true
}

func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

func labelString(l domain.LabelPayload) (string, error) {
	b, err := encodePayload(map[string]interface{}{
		"open":        l.Open,
		"game":        l.Game,
		"phase":       l.Phase,
		"opponent":    l.Opponent,
		"card_level":  l.CardLevel,
		"skill_level": l.SkillLevel,
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func cardFields(c domain.Card) map[string]interface{} {
	return map[string]interface{}{
		"slot":             c.Identity.UserSlot,
		"unique_id":        c.Identity.UniqueID,
		"card_type_id":     c.Identity.CardTypeID,
		"arrows":           int(c.Stats.ActiveArrows),
		"attack":           int(c.Stats.AttackPower),
		"style":            string(c.Stats.AttackStyle),
		"physical_defense": int(c.Stats.PhysicalDefense),
		"magical_defense":  int(c.Stats.MagicalDefense),
		"label":            c.Stats.Label(),
	}
}

func cardsList(cards []domain.Card) []interface{} {
	out := make([]interface{}, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardFields(c))
	}
	return out
}

func intsList(vals []int) []interface{} {
	out := make([]interface{}, 0, len(vals))
	for _, v := range vals {
		out = append(out, v)
	}
	return out
}

func cellFields(location int, cell domain.Cell) map[string]interface{} {
	fields := map[string]interface{}{
		"location": location,
		"owner":    string(cell.Owner),
		"text":     cell.Text,
		"selected": cell.Selected,
	}
	if cell.Occupied() {
		fields["card"] = cardFields(cell.Card())
	}
	return fields
}

// snapshotFields renders the session as the human player sees it: the whole
// board, their own hand and only the size of the opponent's.
func snapshotFields(s *app.Session) map[string]interface{} {
	board := s.Board()
	cells := make([]interface{}, 0, domain.BoardSize)
	for i, cell := range board {
		cells = append(cells, cellFields(i, cell))
	}
	return map[string]interface{}{
		"state":          s.State().String(),
		"active":         s.ActiveSide().String(),
		"cards_played":   s.CardsPlayed(),
		"board":          cells,
		"hand":           cardsList(s.Hand(domain.SidePlayer)),
		"opponent_cards": len(s.Hand(domain.SideOpponent)),
		"selection":      intsList(s.SelectionCandidates()),
	}
}

func outcomeFields(o domain.BattleOutcome) map[string]interface{} {
	return map[string]interface{}{
		"attacker":       o.AttackerLocation,
		"defender":       o.DefenderLocation,
		"attack_stat":    o.AttackStat,
		"attack_roll":    o.AttackRoll,
		"attack_margin":  o.AttackMargin,
		"defense_stat":   o.DefenseStat,
		"defense_roll":   o.DefenseRoll,
		"defense_margin": o.DefenseMargin,
		"attacker_won":   o.AttackerWon,
	}
}

func settlementFields(st app.Settlement) map[string]interface{} {
	fields := map[string]interface{}{
		"game_id":        st.GameID,
		"draw":           st.Draw,
		"player_score":   st.PlayerScore,
		"opponent_score": st.OpponentScore,
		"perfect":        st.Perfect,
		"stealable":      cardsList(st.Stealable),
		"steal_count":    st.StealCount,
	}
	if !st.Draw {
		fields["winner"] = st.Winner.String()
	}
	return fields
}
