package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sigmachain/beacon-core/consensus-types/primitives"
)

func TestStore_SaveState_ArchivesOnlyAtStorageFrequency(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	var archivedRoot, summaryOnlyRoot [32]byte
	archivedRoot[0] = 1
	summaryOnlyRoot[0] = 2

	require.NoError(t, store.SaveState(ctx, archivedRoot, fakeState{slot: primitives.Slot(stateStorageFrequency)}))
	require.NoError(t, store.SaveState(ctx, summaryOnlyRoot, fakeState{slot: primitives.Slot(stateStorageFrequency + 1)}))

	has, err := store.HasState(ctx, archivedRoot)
	require.NoError(t, err)
	require.True(t, has, "a slot exactly on the storage frequency boundary is archived in full")

	has, err = store.HasState(ctx, summaryOnlyRoot)
	require.NoError(t, err)
	require.False(t, has, "a slot off the storage frequency boundary is summarized only, not archived")

	hasSummary, err := store.HasStateSummary(ctx, summaryOnlyRoot)
	require.NoError(t, err)
	require.True(t, hasSummary, "every saved state gets a summary entry regardless of archival")

	slot, ok, err := store.StateSummarySlot(ctx, summaryOnlyRoot)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(stateStorageFrequency+1), slot)
}

func TestStore_State_UnarchivedRootReturnsNotFound(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	var root [32]byte
	root[0] = 9
	require.NoError(t, store.SaveState(ctx, root, fakeState{slot: 1}))

	_, ok, err := store.State(ctx, root)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStore_State_ArchivedRootRoundTrips(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	var root [32]byte
	root[0] = 4
	require.NoError(t, store.SaveState(ctx, root, fakeState{slot: 0}))

	got, ok, err := store.State(ctx, root)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, primitives.Slot(0), got.Slot())
}

func TestStore_StateRootAtSlot(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	var root [32]byte
	root[0] = 7
	require.NoError(t, store.SaveState(ctx, root, fakeState{slot: 42}))

	got, ok, err := store.StateRootAtSlot(ctx, 42)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, root, got)

	_, ok, err = store.StateRootAtSlot(ctx, 43)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStore_HighestArchivedStateRoot_FindsNearestAncestor(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	var archivedRoot, summaryRoot [32]byte
	archivedRoot[0] = 1
	summaryRoot[0] = 2

	require.NoError(t, store.SaveState(ctx, archivedRoot, fakeState{slot: 0}))
	require.NoError(t, store.SaveState(ctx, summaryRoot, fakeState{slot: 100}))

	got, ok, err := store.HighestArchivedStateRoot(ctx, 200)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, archivedRoot, got, "slot 100 is summary-only, so the nearest archived ancestor at or below 200 is the genesis archive")
}

func TestStore_HighestArchivedStateRoot_NoneBelowSlot(t *testing.T) {
	store := testStore(t)

	_, ok, err := store.HighestArchivedStateRoot(context.Background(), 10)
	require.NoError(t, err)
	require.False(t, ok)
}
