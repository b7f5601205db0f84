package trie

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// defaultTree builds the all-zero default tree of the given depth.
func defaultTree(depth uint64) Node {
	return NewZero(depth)
}

func leafAt(b byte) *Leaf {
	var data [32]byte
	data[0] = b
	return NewLeaf(data)
}

func TestZeroHashes_Scenario1(t *testing.T) {
	// Concrete scenario 1 from spec.md §8: hash_tree_root of the default
	// Vector[uint64, 8] (depth 2, since 8 uint64 pack into 2 chunks -> depth 1
	// for packing, but as a plain chunk-tree of depth 2 over individual
	// elements this checks the zero-hash recurrence itself).
	z0 := ZeroHashes[0]
	var zero32 [32]byte
	require.Equal(t, zero32, z0)

	z1 := ZeroHashes[1]
	z2 := ZeroHashes[2]
	wantZ1 := hashPairRef(z0, z0)
	wantZ2 := hashPairRef(z1, z1)
	require.Equal(t, wantZ1, z1)
	require.Equal(t, wantZ2, z2)
}

func hashPairRef(a, b [32]byte) [32]byte {
	// local re-derivation via the same primitive, to avoid importing
	// crypto/hash twice under a different name.
	n := NewBranch(NewLeaf(a), NewLeaf(b))
	return n.HashTreeRoot()
}

func TestGetSet_RoundTrip(t *testing.T) {
	tree := defaultTree(3) // 8 leaves
	for gi := uint64(8); gi < 16; gi++ {
		updated, err := Set(tree, gi, leafAt(byte(gi)))
		require.NoError(t, err)

		got, err := Get(updated, gi)
		require.NoError(t, err)
		require.Equal(t, leafAt(byte(gi)).HashTreeRoot(), got.HashTreeRoot())
		tree = updated
	}

	// All 8 leaves now distinct and readable.
	for gi := uint64(8); gi < 16; gi++ {
		got, err := Get(tree, gi)
		require.NoError(t, err)
		require.Equal(t, leafAt(byte(gi)).HashTreeRoot(), got.HashTreeRoot())
	}
}

func TestSet_DoesNotDisturbSiblings(t *testing.T) {
	tree := defaultTree(3)
	before, err := Get(tree, 9)
	require.NoError(t, err)

	updated, err := Set(tree, 8, leafAt(0xAA))
	require.NoError(t, err)

	after, err := Get(updated, 9)
	require.NoError(t, err)
	require.Equal(t, before.HashTreeRoot(), after.HashTreeRoot())
}

func TestGet_InvalidIndex(t *testing.T) {
	tree := defaultTree(2)
	_, err := Get(tree, 0)
	require.ErrorIs(t, err, ErrInvalidIndex)

	// Walking past a leaf.
	leafTree, err := Set(tree, 4, leafAt(1))
	require.NoError(t, err)
	_, err = Get(leafTree, 8)
	require.ErrorIs(t, err, ErrInvalidIndex)
}

func TestBranch_RootMemoizedAndSharesStructure(t *testing.T) {
	left := leafAt(1)
	right := leafAt(2)
	b := NewBranch(left, right)
	r1 := b.HashTreeRoot()
	r2 := b.HashTreeRoot()
	require.Equal(t, r1, r2)

	updated, err := Set(b, 2, leafAt(9))
	require.NoError(t, err)
	nb := updated.(*Branch)
	// Right child was shared, unmodified.
	require.Equal(t, right, nb.right)
}

func TestBatchUpdate_MatchesSequentialSet(t *testing.T) {
	tree := defaultTree(3)
	updates := []Update{
		{Index: 8, Node: leafAt(1)},
		{Index: 11, Node: leafAt(2)},
		{Index: 15, Node: leafAt(3)},
	}
	batched, err := BatchUpdate(tree, updates)
	require.NoError(t, err)

	sequential := Node(defaultTree(3))
	for _, u := range updates {
		var err error
		sequential, err = Set(sequential, u.Index, u.Node)
		require.NoError(t, err)
	}

	require.Equal(t, sequential.HashTreeRoot(), batched.HashTreeRoot())
}

func TestPackedLeaf_HashTreeRoot_ZeroPadsTail(t *testing.T) {
	// 3 chunks worth of data (96 bytes) in a depth-2 (4-chunk) packed leaf:
	// the 4th chunk should merkleize as if it were the zero chunk.
	data := make([]byte, 96)
	for i := range data {
		data[i] = byte(i)
	}
	packed := NewPackedLeaf(data, 2)

	var c0, c1, c2 [32]byte
	copy(c0[:], data[0:32])
	copy(c1[:], data[32:64])
	copy(c2[:], data[64:96])
	var c3 [32]byte // implicit zero chunk

	left := NewBranch(NewLeaf(c0), NewLeaf(c1)).HashTreeRoot()
	right := NewBranch(NewLeaf(c2), NewLeaf(c3)).HashTreeRoot()
	want := NewBranch(&constNode{left}, &constNode{right}).HashTreeRoot()

	require.Equal(t, want, packed.HashTreeRoot())
}

// constNode is a test-only Node whose root is fixed, used to assemble an
// expected root from already-hashed sub-results.
type constNode struct{ root [32]byte }

func (c *constNode) HashTreeRoot() [32]byte { return c.root }
func (c *constNode) isNode()                {}

func TestSet_MixedKindsOnPackedLeaf(t *testing.T) {
	packed := NewPackedLeaf([]byte{1, 2, 3}, 0)
	branch := NewBranch(NewLeaf(leafAt(1).data), NewLeaf(leafAt(2).data))
	_, err := set(packed, nil, branch)
	require.ErrorIs(t, err, ErrMixedKinds)
}
