package config

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"tetramaster/internal/domain"
)

//go:embed cardtypes.yaml
var cardTypesYAML []byte

// CardTypeCount is the size of the card-type table.
const CardTypeCount = 100

// CardTypes is the static card-type table.
type CardTypes struct {
	types []domain.CardType
	byID  map[int]domain.CardType
}

var _ domain.CardTypeTable = (*CardTypes)(nil)

var (
	cardTypes     *CardTypes
	cardTypesOnce sync.Once
	cardTypesErr  error
)

// ParseCardTypes decodes a YAML card-type list.
func ParseCardTypes(data []byte) (*CardTypes, error) {
	var rows []domain.CardType
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal card types: %w", err)
	}
	t := &CardTypes{types: rows, byID: make(map[int]domain.CardType, len(rows))}
	for _, row := range rows {
		if _, dup := t.byID[row.ID]; dup {
			return nil, fmt.Errorf("duplicate card type id %d", row.ID)
		}
		if !row.Style.Valid() {
			return nil, fmt.Errorf("card type %d (%s): invalid style %q", row.ID, row.Name, row.Style)
		}
		t.byID[row.ID] = row
	}
	return t, nil
}

// LoadCardTypes returns the embedded card-type table.
func LoadCardTypes() (*CardTypes, error) {
	cardTypesOnce.Do(func() {
		cardTypes, cardTypesErr = ParseCardTypes(cardTypesYAML)
	})
	return cardTypes, cardTypesErr
}

// Lookup returns the card type with the given id.
func (t *CardTypes) Lookup(id int) (domain.CardType, bool) {
	ct, ok := t.byID[id]
	return ct, ok
}

// Len returns the number of card types.
func (t *CardTypes) Len() int {
	return len(t.types)
}
