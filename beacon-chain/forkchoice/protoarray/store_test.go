package protoarray

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/sigmachain/beacon-core/consensus-types/primitives"
	"github.com/sigmachain/beacon-core/crypto/hash"
	"github.com/stretchr/testify/require"
)

func indexToHash(i uint64) [32]byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], i)
	return hash.Hash(b[:])
}

func TestStore_Insert_UnknownParent(t *testing.T) {
	s := newStore(0, 0, [32]byte{})
	require.NoError(t, s.insert(context.Background(), 100, [32]byte{'A'}, [32]byte{'B'}, [32]byte{}, 1, 1))
	require.Equal(t, 1, len(s.nodes))
	require.Equal(t, 1, len(s.nodesIndices))
	require.Equal(t, NonExistentNode, s.nodes[0].parent)
	require.Equal(t, uint64(1), uint64(s.nodes[0].justifiedEpoch))
	require.Equal(t, uint64(1), uint64(s.nodes[0].finalizedEpoch))
	require.Equal(t, [32]byte{'A'}, s.nodes[0].root)
}

func TestStore_Insert_KnownParent(t *testing.T) {
	s := newStore(0, 0, [32]byte{})
	s.nodes = []*Node{{bestChild: NonExistentNode, bestDescendant: NonExistentNode}}
	p := [32]byte{'B'}
	s.nodesIndices[p] = 0

	require.NoError(t, s.insert(context.Background(), 100, [32]byte{'A'}, p, [32]byte{}, 1, 1))
	require.Equal(t, 2, len(s.nodes))
	require.Equal(t, uint64(0), s.nodes[1].parent)
	require.Equal(t, [32]byte{'A'}, s.nodes[1].root)
}

func TestStore_ApplyWeightChanges_InvalidDeltaLength(t *testing.T) {
	s := newStore(0, 0, [32]byte{})
	err := s.applyWeightChanges(context.Background(), []int{1})
	require.ErrorIs(t, err, errInvalidDeltaLength)
}

func TestStore_ApplyWeightChanges_PositiveDelta(t *testing.T) {
	s := newStore(0, 0, [32]byte{})
	s.nodes = []*Node{
		{weight: 100, parent: NonExistentNode},
		{weight: 100, parent: 0},
		{weight: 100, parent: 1},
	}
	require.NoError(t, s.applyWeightChanges(context.Background(), []int{1, 1, 1}))
	require.Equal(t, uint64(103), s.nodes[0].weight)
	require.Equal(t, uint64(102), s.nodes[1].weight)
	require.Equal(t, uint64(101), s.nodes[2].weight)
}

func TestStore_ApplyWeightChanges_NegativeDelta(t *testing.T) {
	s := newStore(0, 0, [32]byte{})
	s.nodes = []*Node{
		{weight: 100, parent: NonExistentNode},
		{weight: 100, parent: 0},
		{weight: 100, parent: 1},
	}
	require.NoError(t, s.applyWeightChanges(context.Background(), []int{-1, -1, -1}))
	require.Equal(t, uint64(97), s.nodes[0].weight)
	require.Equal(t, uint64(98), s.nodes[1].weight)
	require.Equal(t, uint64(99), s.nodes[2].weight)
}

func TestStore_UpdateBestChildAndDescendant_RemoveChild(t *testing.T) {
	s := newStore(1, 1, [32]byte{})
	s.nodes = []*Node{{bestChild: 1}, {bestDescendant: NonExistentNode}}
	require.NoError(t, s.updateBestChildAndDescendant(0, 1))
	require.Equal(t, NonExistentNode, s.nodes[0].bestChild)
	require.Equal(t, NonExistentNode, s.nodes[0].bestDescendant)
}

func TestStore_UpdateBestChildAndDescendant_UpdateDescendant(t *testing.T) {
	s := newStore(0, 0, [32]byte{})
	s.nodes = []*Node{{bestChild: 1}, {bestDescendant: NonExistentNode}}
	require.NoError(t, s.updateBestChildAndDescendant(0, 1))
	require.Equal(t, uint64(1), s.nodes[0].bestChild)
	require.Equal(t, uint64(1), s.nodes[0].bestDescendant)
}

func TestStore_UpdateBestChildAndDescendant_ChangeChildByViability(t *testing.T) {
	s := newStore(1, 1, [32]byte{})
	s.nodes = []*Node{
		{bestChild: 1, justifiedEpoch: 1, finalizedEpoch: 1},
		{bestDescendant: NonExistentNode},
		{bestDescendant: NonExistentNode, justifiedEpoch: 1, finalizedEpoch: 1},
	}
	require.NoError(t, s.updateBestChildAndDescendant(0, 2))
	require.Equal(t, uint64(2), s.nodes[0].bestChild)
	require.Equal(t, uint64(2), s.nodes[0].bestDescendant)
}

func TestStore_UpdateBestChildAndDescendant_ChangeChildByWeight(t *testing.T) {
	s := newStore(1, 1, [32]byte{})
	s.nodes = []*Node{
		{bestChild: 1, justifiedEpoch: 1, finalizedEpoch: 1},
		{bestDescendant: NonExistentNode, justifiedEpoch: 1, finalizedEpoch: 1},
		{bestDescendant: NonExistentNode, justifiedEpoch: 1, finalizedEpoch: 1, weight: 1},
	}
	require.NoError(t, s.updateBestChildAndDescendant(0, 2))
	require.Equal(t, uint64(2), s.nodes[0].bestChild)
	require.Equal(t, uint64(2), s.nodes[0].bestDescendant)
}

func TestStore_UpdateBestChildAndDescendant_NoChangeByViability(t *testing.T) {
	s := newStore(1, 1, [32]byte{})
	s.nodes = []*Node{
		{bestChild: 1, justifiedEpoch: 1, finalizedEpoch: 1},
		{bestDescendant: NonExistentNode, justifiedEpoch: 1, finalizedEpoch: 1},
		{bestDescendant: NonExistentNode},
	}
	require.NoError(t, s.updateBestChildAndDescendant(0, 2))
	require.Equal(t, uint64(1), s.nodes[0].bestChild)
}

func TestStore_UpdateBestChildAndDescendant_TieBreaksOnGreaterRoot(t *testing.T) {
	s := newStore(0, 0, [32]byte{})
	s.nodes = []*Node{
		{bestChild: 1},
		{bestDescendant: NonExistentNode, root: [32]byte{0x01}},
		{bestDescendant: NonExistentNode, root: [32]byte{0x02}},
	}
	require.NoError(t, s.updateBestChildAndDescendant(0, 2))
	require.Equal(t, uint64(2), s.nodes[0].bestChild, "greater root should win an equal-weight tie")
}

func TestStore_ViableForHead(t *testing.T) {
	tests := []struct {
		n              *Node
		justifiedEpoch uint64
		finalizedEpoch uint64
		want           bool
	}{
		{&Node{}, 0, 0, true},
		{&Node{}, 1, 0, false},
		{&Node{}, 0, 1, false},
		{&Node{finalizedEpoch: 1, justifiedEpoch: 1}, 1, 1, true},
		{&Node{finalizedEpoch: 1, justifiedEpoch: 1}, 2, 2, false},
		{&Node{finalizedEpoch: 3, justifiedEpoch: 4}, 4, 3, true},
	}
	for _, tc := range tests {
		s := newStore(0, 0, [32]byte{})
		s.justifiedEpoch = primitives.Epoch(tc.justifiedEpoch)
		s.finalizedEpoch = primitives.Epoch(tc.finalizedEpoch)
		require.Equal(t, tc.want, s.viableForHead(tc.n))
	}
}

func TestStore_Head_UnknownJustifiedRoot(t *testing.T) {
	s := newStore(0, 0, [32]byte{'z'})
	_, err := s.head(context.Background())
	require.ErrorIs(t, err, errUnknownJustifiedRoot)
}

func TestStore_Head_Itself(t *testing.T) {
	r := [32]byte{'A'}
	s := newStore(0, 0, r)
	s.nodesIndices[r] = 0
	s.nodes = []*Node{{root: r, parent: NonExistentNode, bestDescendant: NonExistentNode}}

	h, err := s.head(context.Background())
	require.NoError(t, err)
	require.Equal(t, r, h)
}

func TestStore_Head_BestDescendant(t *testing.T) {
	r := [32]byte{'A'}
	best := [32]byte{'B'}
	s := newStore(0, 0, r)
	s.nodesIndices[r] = 0
	s.nodesIndices[best] = 1
	s.nodes = []*Node{
		{root: r, parent: NonExistentNode, bestDescendant: 1},
		{root: best, parent: 0},
	}

	h, err := s.head(context.Background())
	require.NoError(t, err)
	require.Equal(t, best, h)
}

func TestStore_Prune_LessThanThreshold(t *testing.T) {
	numNodes := 100
	s := newStore(0, 0, [32]byte{})
	s.pruneThreshold = 100
	for i := 0; i < numNodes; i++ {
		r := indexToHash(uint64(i))
		s.nodesIndices[r] = uint64(i)
		s.nodes = append(s.nodes, &Node{slot: 0, root: r})
	}

	require.NoError(t, s.prune(context.Background(), indexToHash(99)))
	require.Equal(t, 100, len(s.nodes))
	require.Equal(t, 100, len(s.nodesIndices))
}

func TestStore_Prune_MoreThanThreshold(t *testing.T) {
	numNodes := 100
	s := newStore(0, 0, [32]byte{})
	s.pruneThreshold = 0
	for i := 0; i < numNodes; i++ {
		r := indexToHash(uint64(i))
		s.nodesIndices[r] = uint64(i)
		s.nodes = append(s.nodes, &Node{root: r, bestChild: NonExistentNode, bestDescendant: NonExistentNode})
	}

	require.NoError(t, s.prune(context.Background(), indexToHash(99)))
	require.Equal(t, 1, len(s.nodes))
	require.Equal(t, 1, len(s.nodesIndices))
}

func TestStore_Prune_MoreThanOnce(t *testing.T) {
	numNodes := 100
	s := newStore(0, 0, [32]byte{})
	s.pruneThreshold = 0
	for i := 0; i < numNodes; i++ {
		r := indexToHash(uint64(i))
		s.nodesIndices[r] = uint64(i)
		s.nodes = append(s.nodes, &Node{root: r, bestChild: NonExistentNode, bestDescendant: NonExistentNode})
	}

	require.NoError(t, s.prune(context.Background(), indexToHash(10)))
	require.Equal(t, 90, len(s.nodes))

	require.NoError(t, s.prune(context.Background(), indexToHash(20)))
	require.Equal(t, 80, len(s.nodes))
}
