package protoarray

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNode_Getters(t *testing.T) {
	n := &Node{
		slot:   100,
		root:   [32]byte{'a'},
		weight: 10000,
	}

	require.Equal(t, uint64(100), uint64(n.Slot()))
	require.Equal(t, [32]byte{'a'}, n.Root())
	require.Equal(t, uint64(10000), n.Weight())
}
