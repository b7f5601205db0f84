package protoarray

import (
	"context"
	"testing"

	"github.com/sigmachain/beacon-core/consensus-types/primitives"
	"github.com/stretchr/testify/require"
)

// setup builds a ForkChoice anchored at the zero hash, mirroring the
// genesis/finalized-boot-root special case on_block grants the arena's
// first node.
func setup(justifiedEpoch, finalizedEpoch primitives.Epoch) *ForkChoice {
	var zeroHash [32]byte
	f := New(justifiedEpoch, finalizedEpoch, zeroHash)
	f.store.nodesIndices[zeroHash] = 0
	f.store.nodes = append(f.store.nodes, &Node{
		root:           zeroHash,
		parent:         NonExistentNode,
		justifiedEpoch: justifiedEpoch,
		finalizedEpoch: finalizedEpoch,
		bestChild:      NonExistentNode,
		bestDescendant: NonExistentNode,
	})
	return f
}

func TestForkChoice_ProcessBlock_UnknownParentRejected(t *testing.T) {
	f := New(0, 0, [32]byte{})
	f.store.nodesIndices[[32]byte{'z'}] = 0
	f.store.nodes = append(f.store.nodes, &Node{bestChild: NonExistentNode, bestDescendant: NonExistentNode})

	err := f.ProcessBlock(context.Background(), 1, indexToHash(1), indexToHash(99), [32]byte{}, 0, 0)
	require.ErrorIs(t, err, errUnknownParent)
}

func TestForkChoice_ProcessBlock_AnchorTolerated(t *testing.T) {
	f := New(0, 0, [32]byte{})
	require.NoError(t, f.ProcessBlock(context.Background(), 0, [32]byte{}, [32]byte{}, [32]byte{}, 0, 0))
	require.True(t, f.HasNode([32]byte{}))
}

func TestForkChoice_UpdateBalances(t *testing.T) {
	f := setup(0, 0)
	ctx := context.Background()
	require.NoError(t, f.ProcessBlock(ctx, 1, indexToHash(1), [32]byte{}, [32]byte{}, 0, 0))
	require.NoError(t, f.ProcessBlock(ctx, 2, indexToHash(2), indexToHash(1), [32]byte{}, 0, 0))
	require.NoError(t, f.ProcessBlock(ctx, 3, indexToHash(3), indexToHash(2), [32]byte{}, 0, 0))

	f.votes = []Vote{
		{currentRoot: indexToHash(1), nextRoot: indexToHash(1)},
		{currentRoot: indexToHash(2), nextRoot: indexToHash(2)},
		{currentRoot: indexToHash(3), nextRoot: indexToHash(3)},
	}

	require.NoError(t, f.updateBalances(ctx, []uint64{10, 20, 30}))
	require.Equal(t, uint64(60), f.store.nodes[0].weight, "root's weight is the sum of every descendant's vote")
	require.Equal(t, uint64(60), f.store.nodes[1].weight)
	require.Equal(t, uint64(50), f.store.nodes[2].weight)
	require.Equal(t, uint64(30), f.store.nodes[3].weight)
}

func TestVotes_CanFindHead(t *testing.T) {
	ctx := context.Background()
	balances := []uint64{1, 1}
	f := setup(1, 1)

	// The head should always start at the finalized block.
	r, err := f.Head(ctx, balances)
	require.NoError(t, err)
	require.Equal(t, [32]byte{}, r)

	// Insert block 2 into the tree and verify head is at 2:
	//         0
	//        /
	//       2 <- head
	require.NoError(t, f.ProcessBlock(ctx, 0, indexToHash(2), [32]byte{}, [32]byte{}, 1, 1))
	r, err = f.Head(ctx, balances)
	require.NoError(t, err)
	require.Equal(t, indexToHash(2), r)

	// Insert block 1 into the tree and verify head is still at 2:
	//            0
	//           / \
	//  head -> 2  1
	require.NoError(t, f.ProcessBlock(ctx, 0, indexToHash(1), [32]byte{}, [32]byte{}, 1, 1))
	r, err = f.Head(ctx, balances)
	require.NoError(t, err)
	require.Equal(t, indexToHash(2), r)

	// Add a vote to block 1 and verify head switches to 1.
	f.ProcessAttestation(ctx, []primitives.ValidatorIndex{0}, indexToHash(1), 2)
	r, err = f.Head(ctx, balances)
	require.NoError(t, err)
	require.Equal(t, indexToHash(1), r)

	// Add a vote to block 2 and verify head switches back to 2.
	f.ProcessAttestation(ctx, []primitives.ValidatorIndex{1}, indexToHash(2), 2)
	r, err = f.Head(ctx, balances)
	require.NoError(t, err)
	require.Equal(t, indexToHash(2), r)
}

func TestForkChoice_UpdateFinalizedCheckpoint_Prunes(t *testing.T) {
	ctx := context.Background()
	f := setup(0, 0)
	f.store.pruneThreshold = 0

	require.NoError(t, f.ProcessBlock(ctx, 1, indexToHash(1), [32]byte{}, [32]byte{}, 0, 0))
	require.NoError(t, f.ProcessBlock(ctx, 2, indexToHash(2), indexToHash(1), [32]byte{}, 0, 0))

	require.NoError(t, f.UpdateFinalizedCheckpoint(ctx, 1, indexToHash(1)))
	require.Equal(t, 2, len(f.store.nodes), "finalizing block 1 prunes the genesis root but keeps 1 and its descendant 2")
	require.False(t, f.HasNode([32]byte{}))
	require.True(t, f.HasNode(indexToHash(1)))
	require.True(t, f.HasNode(indexToHash(2)))
}

func TestForkChoice_JustifiedAndFinalizedCheckpoint_RoundTrip(t *testing.T) {
	f := New(0, 0, [32]byte{})
	f.UpdateJustifiedCheckpoint(5, indexToHash(5))
	epoch, root := f.JustifiedCheckpoint()
	require.Equal(t, primitives.Epoch(5), epoch)
	require.Equal(t, indexToHash(5), root)
}
