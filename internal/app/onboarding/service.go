package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"tetramaster/internal/domain"
	"tetramaster/internal/ports"
)

// StarterCollectionSize is how many cards a new player starts with.
const StarterCollectionSize = 5

// Dealer produces the cards of a starter collection.
type Dealer interface {
	StarterCollection(size int) []domain.Card
}

// Result captures non-fatal onboarding outcomes.
type Result struct {
	// ProfileUpdateErr is set when the profile update failed but onboarding continued.
	ProfileUpdateErr error
	// StarterGranted is false when the user already had a starter collection.
	StarterGranted bool
	DisplayName    string
}

// Service handles post-auth onboarding for new users.
type Service struct {
	accounts ports.AccountPort
	starters ports.StarterCollectionPort
	dealer   Dealer
	rng      *rand.Rand
}

// NewService constructs an onboarding service with required ports.
// accounts/starters/dealer must be non-nil; rng may be nil to use a time-seeded default.
func NewService(accounts ports.AccountPort, starters ports.StarterCollectionPort, dealer Dealer, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		accounts: accounts,
		starters: starters,
		dealer:   dealer,
		rng:      rng,
	}
}

// OnboardNewUser names a newly created account and grants its starter collection.
// Returns an error only if the starter collection cannot be stored.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil || s.starters == nil || s.dealer == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	result := Result{DisplayName: s.generateFriendlyName()}
	if err := s.accounts.UpdateProfile(ctx, userID, result.DisplayName, result.DisplayName); err != nil {
		// Profile updates are best-effort; the starter collection is what lets the user play.
		result.ProfileUpdateErr = err
	}

	cards := s.dealer.StarterCollection(StarterCollectionSize)
	granted, err := s.starters.GrantStarterOnce(ctx, userID, cards)
	if err != nil {
		return result, fmt.Errorf("failed to grant starter collection: %w", err)
	}
	result.StarterGranted = granted

	return result, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Swift", "Lucky", "Brave", "Clever", "Quiet", "Mighty", "Witty", "Sly", "Wild", "Noble"}
	nouns := []string{"Moogle", "Chocobo", "Goblin", "Oglop", "Tonberry", "Cactuar", "Bomb", "Mimic", "Flan", "Zaghnol"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
