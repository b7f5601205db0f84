package ssz

import (
	"testing"

	"github.com/sigmachain/beacon-core/container/trie"
	"github.com/stretchr/testify/require"
)

func TestContainer_FixedOnly_RoundTrip(t *testing.T) {
	c := NewContainer([]Field{
		{Name: "slot", Schema: Uint64},
		{Name: "flag", Schema: Bool},
	})
	size, fixed := c.FixedSize()
	require.True(t, fixed)
	require.Equal(t, 9, size)

	tree := c.DefaultTree()
	var err error
	tree, err = c.Set(tree, 0, EncodeUint64(77))
	require.NoError(t, err)
	tree, err = c.Set(tree, 1, EncodeBool(true))
	require.NoError(t, err)

	enc, err := c.Marshal(tree)
	require.NoError(t, err)
	require.Len(t, enc, 9)

	decoded, err := c.Unmarshal(enc)
	require.NoError(t, err)
	require.Equal(t, tree.HashTreeRoot(), decoded.HashTreeRoot())
}

func TestContainer_WithVariableField_OffsetLayout(t *testing.T) {
	list := NewList(Uint64, 4)
	c := NewContainer([]Field{
		{Name: "id", Schema: Uint32},
		{Name: "values", Schema: list},
	})
	size, fixed := c.FixedSize()
	require.False(t, fixed)
	require.Zero(t, size)

	listTree, err := list.FromElements([]trie.Node{EncodeUint64(1), EncodeUint64(2)})
	require.NoError(t, err)

	tree := c.DefaultTree()
	tree, err = c.Set(tree, 0, EncodeUint32(5))
	require.NoError(t, err)
	tree, err = c.Set(tree, 1, listTree)
	require.NoError(t, err)

	enc, err := c.Marshal(tree)
	require.NoError(t, err)
	// fixed prefix: 4 (id) + 4 (offset) = 8; first offset must equal 8.
	require.Equal(t, uint32(8), leUint32(enc[4:8]))

	decoded, err := c.Unmarshal(enc)
	require.NoError(t, err)
	require.Equal(t, tree.HashTreeRoot(), decoded.HashTreeRoot())
}

func TestContainer_Unmarshal_RejectsBadOffset(t *testing.T) {
	list := NewList(Uint64, 4)
	c := NewContainer([]Field{
		{Name: "id", Schema: Uint32},
		{Name: "values", Schema: list},
	})
	// fixed prefix length should be 4 (uint32) + 4 (offset) = 8; corrupt it.
	data := make([]byte, 8)
	data[4] = 0xFF // bogus offset far larger than data length
	_, err := c.Unmarshal(data)
	require.ErrorIs(t, err, ErrMalformedSSZ)
}
