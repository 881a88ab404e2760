package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tetramaster/internal/domain"
	"tetramaster/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	collectionCollection = "collection"
	collectionKey        = "cards"
)

// collectionRecord is the storage value holding a user's cards.
type collectionRecord struct {
	Cards []domain.Card `json:"cards"`
}

// NakamaCollectionAdapter implements ports.CollectionPort on Nakama storage.
// Writes are conditional on the version that was read.
type NakamaCollectionAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaCollectionAdapter creates a new collection adapter.
func NewNakamaCollectionAdapter(nk runtime.NakamaModule) *NakamaCollectionAdapter {
	return &NakamaCollectionAdapter{nk: nk}
}

// LoadCollection returns the user's cards, or none if nothing is stored yet.
func (a *NakamaCollectionAdapter) LoadCollection(ctx context.Context, userID string) ([]domain.Card, error) {
	rec, _, err := a.read(ctx, userID)
	if err != nil {
		return nil, err
	}
	return rec.Cards, nil
}

// AddCards appends cards to the user's collection.
func (a *NakamaCollectionAdapter) AddCards(ctx context.Context, userID string, cards []domain.Card) error {
	if len(cards) == 0 {
		return nil
	}
	rec, version, err := a.read(ctx, userID)
	if err != nil {
		return err
	}
	for _, c := range cards {
		c.Identity.UserSlot = domain.UnassignedSlot
		c.Identity.BoardLocation = 0
		rec.Cards = append(rec.Cards, c)
	}
	return a.write(ctx, userID, rec, version)
}

// RemoveCard drops the card with the given UniqueID.
func (a *NakamaCollectionAdapter) RemoveCard(ctx context.Context, userID, uniqueID string) (bool, error) {
	if uniqueID == "" {
		return false, nil
	}
	rec, version, err := a.read(ctx, userID)
	if err != nil {
		return false, err
	}
	kept := rec.Cards[:0:0]
	for _, c := range rec.Cards {
		if c.Identity.UniqueID != uniqueID {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(rec.Cards) {
		return false, nil
	}
	rec.Cards = kept
	if err := a.write(ctx, userID, rec, version); err != nil {
		return false, err
	}
	return true, nil
}

func (a *NakamaCollectionAdapter) read(ctx context.Context, userID string) (collectionRecord, string, error) {
	if userID == "" {
		return collectionRecord{}, "", fmt.Errorf("userID is required")
	}
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{
		{Collection: collectionCollection, Key: collectionKey, UserID: userID},
	})
	if err != nil {
		return collectionRecord{}, "", fmt.Errorf("failed to read collection: %w", err)
	}
	if len(objects) == 0 {
		return collectionRecord{}, "", nil
	}

	var rec collectionRecord
	if err := json.Unmarshal([]byte(objects[0].Value), &rec); err != nil {
		return collectionRecord{}, "", fmt.Errorf("failed to unmarshal collection: %w", err)
	}
	return rec, objects[0].Version, nil
}

func (a *NakamaCollectionAdapter) write(ctx context.Context, userID string, rec collectionRecord, version string) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal collection: %w", err)
	}
	if version == "" {
		version = "*"
	}
	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{collectionWrite(userID, string(value), version)})
	if err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return fmt.Errorf("collection changed concurrently: %w", err)
		}
		return fmt.Errorf("failed to write collection: %w", err)
	}
	return nil
}

func collectionWrite(userID, value, version string) *runtime.StorageWrite {
	return &runtime.StorageWrite{
		Collection:      collectionCollection,
		Key:             collectionKey,
		UserID:          userID,
		Value:           value,
		Version:         version,
		PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}
}

var _ ports.CollectionPort = (*NakamaCollectionAdapter)(nil)
