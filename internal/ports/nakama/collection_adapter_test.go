package nakama

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tetramaster/internal/domain"
)

func TestStarterCollectionAdapter_GrantsOnce(t *testing.T) {
	nk := newFakeNakama()
	starters := NewNakamaStarterCollectionAdapter(nk)
	collections := NewNakamaCollectionAdapter(nk)
	ctx := context.Background()

	granted, err := starters.GrantStarterOnce(ctx, "user-1", starterCards(5))
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, []string{"collection/cards/user-1", "onboarding/starter_collection_v1/user-1"}, nk.keys())

	granted, err = starters.GrantStarterOnce(ctx, "user-1", starterCards(5))
	require.NoError(t, err)
	assert.False(t, granted)

	cards, err := collections.LoadCollection(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, cards, 5)
}

func TestStarterCollectionAdapter_RejectsEmptyInput(t *testing.T) {
	starters := NewNakamaStarterCollectionAdapter(newFakeNakama())

	_, err := starters.GrantStarterOnce(context.Background(), "", starterCards(1))
	assert.Error(t, err)
	_, err = starters.GrantStarterOnce(context.Background(), "user-1", nil)
	assert.Error(t, err)
}

func TestCollectionAdapter_LoadEmpty(t *testing.T) {
	collections := NewNakamaCollectionAdapter(newFakeNakama())

	cards, err := collections.LoadCollection(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, cards)

	_, err = collections.LoadCollection(context.Background(), "")
	assert.Error(t, err)
}

func TestCollectionAdapter_AddCardsClearsPlacement(t *testing.T) {
	nk := newFakeNakama()
	collections := NewNakamaCollectionAdapter(nk)
	ctx := context.Background()

	won := domain.Card{Identity: domain.CardIdentity{UserSlot: 103, BoardLocation: 9, UniqueID: "won", CardTypeID: 12}}
	require.NoError(t, collections.AddCards(ctx, "user-1", []domain.Card{won}))
	require.NoError(t, collections.AddCards(ctx, "user-1", starterCards(2)))

	cards, err := collections.LoadCollection(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, "won", cards[0].Identity.UniqueID)
	assert.Equal(t, 12, cards[0].Identity.CardTypeID)
	assert.Equal(t, domain.UnassignedSlot, cards[0].Identity.UserSlot)
	assert.Equal(t, 0, cards[0].Identity.BoardLocation)
}

func TestCollectionAdapter_RemoveCard(t *testing.T) {
	nk := newFakeNakama()
	collections := NewNakamaCollectionAdapter(nk)
	ctx := context.Background()
	owned := starterCards(3)
	require.NoError(t, collections.AddCards(ctx, "user-1", owned))

	removed, err := collections.RemoveCard(ctx, "user-1", owned[1].Identity.UniqueID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = collections.RemoveCard(ctx, "user-1", owned[1].Identity.UniqueID)
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = collections.RemoveCard(ctx, "user-1", "")
	require.NoError(t, err)
	assert.False(t, removed)

	cards, err := collections.LoadCollection(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, owned[0].Identity.UniqueID, cards[0].Identity.UniqueID)
	assert.Equal(t, owned[2].Identity.UniqueID, cards[1].Identity.UniqueID)
}

func TestCollectionAdapter_StaleVersionRejected(t *testing.T) {
	nk := newFakeNakama()
	collections := NewNakamaCollectionAdapter(nk)
	ctx := context.Background()
	require.NoError(t, collections.AddCards(ctx, "user-1", starterCards(1)))

	rec, version, err := collections.read(ctx, "user-1")
	require.NoError(t, err)
	require.NoError(t, collections.AddCards(ctx, "user-1", starterCards(1)))

	err = collections.write(ctx, "user-1", rec, version)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collection changed concurrently")
}
