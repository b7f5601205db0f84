package kv

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	beaconstate "github.com/sigmachain/beacon-core/beacon-chain/state"
	"github.com/sigmachain/beacon-core/consensus-types/blocks"
	"github.com/sigmachain/beacon-core/consensus-types/primitives"
)

// stubBlockCodec encodes just enough of a SignedBlock (slot and parent
// root) to exercise the store's bucket/index logic without depending on a
// full SSZ struct marshal for blocks.SignedBlock.
type stubBlockCodec struct{}

func (stubBlockCodec) EncodeBlock(signed blocks.SignedBlock) ([]byte, error) {
	buf := make([]byte, 40)
	binary.BigEndian.PutUint64(buf[:8], uint64(signed.Block.Slot))
	copy(buf[8:40], signed.Block.ParentRoot[:])
	return buf, nil
}

func (stubBlockCodec) DecodeBlock(b []byte) (blocks.SignedBlock, error) {
	if len(b) != 40 {
		return blocks.SignedBlock{}, errors.New("stubBlockCodec: malformed block bytes")
	}
	var signed blocks.SignedBlock
	signed.Block.Slot = primitives.Slot(binary.BigEndian.Uint64(b[:8]))
	copy(signed.Block.ParentRoot[:], b[8:40])
	return signed, nil
}

// stubStateCodec encodes a BeaconState as just its slot, round-tripping
// through a minimal fakeState rather than a real phase0.State.
type stubStateCodec struct{}

func (stubStateCodec) EncodeState(s beaconstate.BeaconState) ([]byte, error) {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(s.Slot()))
	return buf, nil
}

func (stubStateCodec) DecodeState(b []byte) (beaconstate.BeaconState, error) {
	if len(b) != 8 {
		return nil, errors.New("stubStateCodec: malformed state bytes")
	}
	return fakeState{slot: primitives.Slot(binary.BigEndian.Uint64(b))}, nil
}

// fakeState implements just enough of beaconstate.BeaconState for the kv
// package's own tests: SaveState/State only ever call Slot().
type fakeState struct {
	beaconstate.BeaconState
	slot primitives.Slot
}

func (f fakeState) Slot() primitives.Slot { return f.slot }

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewKVStore(t.TempDir(), stubBlockCodec{}, stubStateCodec{})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	return store
}

func TestNewKVStore_CreatesBucketsAndIsReopenable(t *testing.T) {
	dir := t.TempDir()
	store, err := NewKVStore(dir, stubBlockCodec{}, stubStateCodec{})
	require.NoError(t, err)
	require.Equal(t, dir, store.DatabasePath())
	require.NoError(t, store.Close())

	store2, err := NewKVStore(dir, stubBlockCodec{}, stubStateCodec{})
	require.NoError(t, err)
	require.NoError(t, store2.Close())
}

func TestStore_HeadAndGenesisRootsRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, ok, err := store.HeadBlockRoot(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	var head [32]byte
	head[0] = 0xAB
	require.NoError(t, store.SaveHeadBlockRoot(ctx, head))
	got, ok, err := store.HeadBlockRoot(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, head, got)

	var genesis [32]byte
	genesis[0] = 0xCD
	require.NoError(t, store.SaveGenesisBlockRoot(ctx, genesis))
	got, ok, err = store.GenesisBlockRoot(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, genesis, got)
}
