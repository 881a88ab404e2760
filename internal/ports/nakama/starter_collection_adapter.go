package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tetramaster/internal/domain"
	"tetramaster/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	starterCollection = "onboarding"
	starterKey        = "starter_collection_v1"
)

// NakamaStarterCollectionAdapter grants the starter collection using a
// storage marker written in the same transaction as the cards.
type NakamaStarterCollectionAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaStarterCollectionAdapter creates a new starter collection adapter.
func NewNakamaStarterCollectionAdapter(nk runtime.NakamaModule) *NakamaStarterCollectionAdapter {
	return &NakamaStarterCollectionAdapter{nk: nk}
}

// GrantStarterOnce stores cards as the user's collection and records a marker atomically.
func (a *NakamaStarterCollectionAdapter) GrantStarterOnce(ctx context.Context, userID string, cards []domain.Card) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("userID is required")
	}
	if len(cards) == 0 {
		return false, fmt.Errorf("starter collection is empty")
	}

	marker := map[string]interface{}{
		"cards":      len(cards),
		"granted_at": time.Now().UTC().Format(time.RFC3339),
	}
	markerValue, err := json.Marshal(marker)
	if err != nil {
		return false, fmt.Errorf("failed to marshal starter marker: %w", err)
	}
	cardsValue, err := json.Marshal(collectionRecord{Cards: cards})
	if err != nil {
		return false, fmt.Errorf("failed to marshal starter collection: %w", err)
	}

	storageWrites := []*runtime.StorageWrite{
		{
			Collection:      starterCollection,
			Key:             starterKey,
			UserID:          userID,
			Value:           string(markerValue),
			Version:         "*",
			PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
		collectionWrite(userID, string(cardsValue), ""),
	}

	_, _, err = a.nk.MultiUpdate(ctx, nil, storageWrites, nil, nil, false)
	if err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return false, nil
		}
		return false, fmt.Errorf("failed to grant starter collection: %w", err)
	}

	return true, nil
}

var _ ports.StarterCollectionPort = (*NakamaStarterCollectionAdapter)(nil)
