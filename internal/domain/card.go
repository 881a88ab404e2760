package domain

import "fmt"

// AttackStyle selects which defensive stat a card attacks.
type AttackStyle string

const (
	Physical AttackStyle = "P"
	Magical  AttackStyle = "M"
	Flexible AttackStyle = "X"
	Assault  AttackStyle = "A"
)

// Valid reports whether s is a known attack style.
func (s AttackStyle) Valid() bool {
	switch s {
	case Physical, Magical, Flexible, Assault:
		return true
	}
	return false
}

// Ownership tags a board cell.
type Ownership string

const (
	Friend  Ownership = "friend"
	Enemy   Ownership = "enemy"
	Empty   Ownership = "empty"
	Blocked Ownership = "blocked"
	Back    Ownership = "back"
)

// Opposing returns the tag contested by o. Only Friend and Enemy contest each
// other; every other tag returns itself with ok false.
func (o Ownership) Opposing() (Ownership, bool) {
	switch o {
	case Friend:
		return Enemy, true
	case Enemy:
		return Friend, true
	default:
		return o, false
	}
}

// Hand slot ranges. Slot 0 means unassigned.
const (
	UnassignedSlot   = 0
	OpponentSlotBase = 100
	PlayerSlotBase   = 105
)

// SideForSlot reports which hand a slot originated from.
func SideForSlot(slot int) (Side, bool) {
	switch {
	case slot >= PlayerSlotBase:
		return SidePlayer, true
	case slot >= OpponentSlotBase:
		return SideOpponent, true
	default:
		return 0, false
	}
}

// CardStats are the fixed combat numbers of a card.
type CardStats struct {
	ActiveArrows    uint8       `json:"activeArrows"`
	AttackPower     uint8       `json:"attackPower"`
	AttackStyle     AttackStyle `json:"attackStyle"`
	PhysicalDefense uint8       `json:"physicalDefense"`
	MagicalDefense  uint8       `json:"magicalDefense"`
}

// HasArrow reports whether the card points in direction d.
func (s CardStats) HasArrow(d Direction) bool {
	return s.ActiveArrows&uint8(d) != 0
}

// Label renders the card face, e.g. "3P2A".
func (s CardStats) Label() string {
	return fmt.Sprintf("%c%s%c%c", hexDigit(s.AttackPower), s.AttackStyle, hexDigit(s.PhysicalDefense), hexDigit(s.MagicalDefense))
}

func hexDigit(v uint8) byte {
	return "0123456789ABCDEF"[v/16]
}

// CardIdentity locates a card across hands, the board and persistence.
type CardIdentity struct {
	BoardLocation int    `json:"boardLocation"`
	UserSlot      int    `json:"userSlot"`
	UniqueID      string `json:"uniqueId,omitempty"`
	CardTypeID    int    `json:"cardTypeId"`
}

// Card is a playable card.
type Card struct {
	Identity CardIdentity `json:"identity"`
	Stats    CardStats    `json:"stats"`
}

// CardType is one row of the static card-type table.
type CardType struct {
	ID                 int         `json:"id" yaml:"id"`
	Name               string      `json:"name" yaml:"name"`
	MaxAttack          uint8       `json:"maxAttack" yaml:"max_attack"`
	MaxPhysicalDefense uint8       `json:"maxPhysicalDefense" yaml:"max_physical_defense"`
	MaxMagicalDefense  uint8       `json:"maxMagicalDefense" yaml:"max_magical_defense"`
	Style              AttackStyle `json:"style" yaml:"style"`
}

// CardTypeTable looks up card types by id.
type CardTypeTable interface {
	Lookup(id int) (CardType, bool)
	Len() int
}
