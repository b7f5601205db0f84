package ssz

import (
	"encoding/binary"
	"math/bits"

	"github.com/sigmachain/beacon-core/container/trie"
)

// nextPow2 returns the smallest power of two >= n (nextPow2(0) == 1).
func nextPow2(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len64(n-1)
}

// log2 returns ceil(log2(n)) for n >= 1.
func log2(n uint64) uint64 {
	if n <= 1 {
		return 0
	}
	return uint64(bits.Len64(n - 1))
}

// buildBalancedTree places leaves at the bottom of a perfect binary tree of
// the given depth, padding any remaining slots with Zero(0) nodes.
func buildBalancedTree(leaves []trie.Node, depth uint64) trie.Node {
	width := uint64(1) << depth
	level := make([]trie.Node, width)
	for i := uint64(0); i < width; i++ {
		if i < uint64(len(leaves)) {
			level[i] = leaves[i]
		} else {
			level[i] = trie.NewZero(0)
		}
	}
	for d := depth; d > 0; d-- {
		next := make([]trie.Node, len(level)/2)
		for i := 0; i < len(next); i++ {
			next[i] = trie.NewBranch(level[2*i], level[2*i+1])
		}
		level = next
	}
	return level[0]
}

// chunksForBytes returns how many 32-byte chunks n bytes occupy.
func chunksForBytes(n uint64) uint64 {
	return (n + 31) / 32
}

// uint64LEChunk encodes v as an 8-byte little-endian value followed by 24
// zero bytes, filling a full 32-byte chunk (the standard SSZ length-mixin
// shape).
func uint64LEChunk(v uint64) [32]byte {
	var chunk [32]byte
	binary.LittleEndian.PutUint64(chunk[:8], v)
	return chunk
}
