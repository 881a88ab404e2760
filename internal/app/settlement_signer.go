package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"

	"tetramaster/internal/domain"
)

var ErrInvalidToken = errors.New("invalid settlement token")

// SettlementSigner issues HS256 tokens that let a client claim the outcome of
// a finished game once.
type SettlementSigner struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// SettlementClaims is the verified content of a settlement token.
type SettlementClaims struct {
	GameID     string
	UserID     string
	Winner     domain.Side
	Draw       bool
	Perfect    bool
	StealSlots []int
	StealCount int
	ExpiresAt  time.Time
}

// NewSettlementSigner returns a signer. A zero ttl means one hour.
func NewSettlementSigner(secret, issuer string, ttl time.Duration) *SettlementSigner {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &SettlementSigner{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Sign encodes st for userID.
func (s *SettlementSigner) Sign(st Settlement, userID string) (string, error) {
	if s == nil || len(s.secret) == 0 {
		return "", fmt.Errorf("settlement signer is not configured")
	}
	if userID == "" {
		return "", fmt.Errorf("user is required")
	}

	slots := make([]int, 0, len(st.Stealable))
	for _, c := range st.Stealable {
		slots = append(slots, c.Identity.UserSlot)
	}
	claims := jwt.MapClaims{
		"iss":   s.issuer,
		"sub":   userID,
		"gid":   st.GameID,
		"exp":   time.Now().Add(s.ttl).Unix(),
		"win":   st.Winner.String(),
		"draw":  st.Draw,
		"pfx":   st.Perfect,
		"slots": slots,
		"take":  st.StealCount,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the signature, issuer and expiry of a token.
func (s *SettlementSigner) Verify(raw string) (SettlementClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return SettlementClaims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !mc.VerifyIssuer(s.issuer, true) {
		return SettlementClaims{}, fmt.Errorf("%w: bad issuer", ErrInvalidToken)
	}

	out := SettlementClaims{
		GameID:     stringClaim(mc, "gid"),
		UserID:     stringClaim(mc, "sub"),
		Draw:       boolClaim(mc, "draw"),
		Perfect:    boolClaim(mc, "pfx"),
		StealCount: intClaim(mc["take"]),
		ExpiresAt:  time.Unix(int64(intClaim(mc["exp"])), 0),
	}
	if stringClaim(mc, "win") == domain.SideOpponent.String() {
		out.Winner = domain.SideOpponent
	}
	if vals, ok := mc["slots"].([]interface{}); ok {
		for _, v := range vals {
			out.StealSlots = append(out.StealSlots, intClaim(v))
		}
	}
	return out, nil
}

// Allows reports whether slot may be stolen under these claims.
func (c SettlementClaims) Allows(slot int) bool {
	if c.Draw {
		return false
	}
	for _, s := range c.StealSlots {
		if s == slot {
			return true
		}
	}
	return false
}

func stringClaim(mc jwt.MapClaims, key string) string {
	v, _ := mc[key].(string)
	return v
}

func boolClaim(mc jwt.MapClaims, key string) bool {
	v, _ := mc[key].(bool)
	return v
}

func intClaim(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}
