package ports

import (
	"context"

	"tetramaster/internal/domain"
)

// CollectionPort stores the cards each user owns.
type CollectionPort interface {
	// LoadCollection returns every card the user owns, keyed by UniqueID.
	LoadCollection(ctx context.Context, userID string) ([]domain.Card, error)

	// AddCards appends cards to the user's collection.
	AddCards(ctx context.Context, userID string, cards []domain.Card) error

	// RemoveCard drops the card with the given UniqueID.
	// Returns removed=false when the user did not own it.
	RemoveCard(ctx context.Context, userID, uniqueID string) (bool, error)
}

// StarterCollectionPort grants the starter collection at most once per user.
type StarterCollectionPort interface {
	// GrantStarterOnce stores cards as the user's first collection.
	// Returns granted=false when a starter collection was already granted.
	GrantStarterOnce(ctx context.Context, userID string, cards []domain.Card) (bool, error)
}
