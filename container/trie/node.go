package trie

import (
	"sync"

	"github.com/sigmachain/beacon-core/crypto/hash"
)

// Node is a node in the hash-consed, immutable Merkle tree. A tree is never
// mutated in place: Set and BatchUpdate return a new root, sharing every
// subtree they did not touch with the input.
type Node interface {
	// HashTreeRoot returns this node's 32-byte Merkle root, computing and
	// memoizing it on first call for branch nodes.
	HashTreeRoot() [32]byte

	isNode()
}

// Leaf is a 32-byte terminal value.
type Leaf struct {
	data [32]byte
}

// NewLeaf wraps a 32-byte chunk as a leaf node.
func NewLeaf(data [32]byte) *Leaf { return &Leaf{data: data} }

func (l *Leaf) HashTreeRoot() [32]byte { return l.data }
func (l *Leaf) isNode()                {}

// Data returns the leaf's raw 32 bytes.
func (l *Leaf) Data() [32]byte { return l.data }

// Zero is the all-zero subtree of the given depth, shared across the
// process by value: two Zero nodes of equal depth always hash identically
// and are interchangeable.
type Zero struct {
	depth uint64
}

// NewZero returns the zero node of the given depth.
func NewZero(depth uint64) *Zero { return &Zero{depth: depth} }

func (z *Zero) Depth() uint64 { return z.depth }

func (z *Zero) HashTreeRoot() [32]byte {
	if int(z.depth) < len(ZeroHashes) {
		return ZeroHashes[z.depth]
	}
	// Depth beyond the precomputed table: extend on demand. Never hit in
	// practice (see maxZeroHashDepth) but kept total rather than panicking.
	below := NewZero(z.depth - 1).HashTreeRoot()
	return hash.HashPair(below, below)
}

func (z *Zero) isNode() {}

// Branch is an internal node with two children and a lazily memoized root.
type Branch struct {
	left, right Node

	once sync.Once
	root [32]byte
}

// NewBranch builds a branch over the given children. The root is not
// computed until HashTreeRoot is first called.
func NewBranch(left, right Node) *Branch {
	return &Branch{left: left, right: right}
}

func (b *Branch) Left() Node  { return b.left }
func (b *Branch) Right() Node { return b.right }

func (b *Branch) HashTreeRoot() [32]byte {
	b.once.Do(func() {
		b.root = hash.HashPair(b.left.HashTreeRoot(), b.right.HashTreeRoot())
	})
	return b.root
}

func (b *Branch) isNode() {}

// PackedLeaf collapses a whole subtree of small basic-type chunks (a run of
// packed uint/bool/byte elements) into a single node carrying the raw bytes,
// avoiding one Branch allocation per chunk. Depth is the subtree depth it
// stands in for: it represents 2^Depth 32-byte chunks.
type PackedLeaf struct {
	data  []byte
	depth uint64
}

// NewPackedLeaf wraps raw packed bytes as a super-leaf standing in for a
// subtree of the given depth (2^depth chunks, i.e. up to 2^depth*32 bytes;
// data shorter than that is zero-padded at hash time).
func NewPackedLeaf(data []byte, depth uint64) *PackedLeaf {
	cp := make([]byte, len(data))
	copy(cp, data)
	return &PackedLeaf{data: cp, depth: depth}
}

func (p *PackedLeaf) Depth() uint64 { return p.depth }

// Bytes returns a copy of the packed leaf's raw data.
func (p *PackedLeaf) Bytes() []byte {
	cp := make([]byte, len(p.data))
	copy(cp, p.data)
	return cp
}

func (p *PackedLeaf) HashTreeRoot() [32]byte {
	return merkleizeChunks(p.data, p.depth)
}

func (p *PackedLeaf) isNode() {}

// MerkleizeChunks splits data into 32-byte chunks (zero-padding the final
// partial chunk) and folds them pairwise, using ZeroHashes to pad out to
// 2^depth chunks, down to a single root. Shared by the packed-leaf
// optimization here and by encoding/ssz's list/bitlist length mix-in, which
// both need "merkleize raw bytes to a declared capacity" with identical
// padding semantics.
func MerkleizeChunks(data []byte, depth uint64) [32]byte {
	return merkleizeChunks(data, depth)
}

// merkleizeChunks splits data into 32-byte chunks (zero-padding the final
// partial chunk), pads the chunk list with the zero-hash of the matching
// sub-depth up to 2^depth chunks, and folds pairwise up to a single root.
func merkleizeChunks(data []byte, depth uint64) [32]byte {
	if depth == 0 {
		var chunk [32]byte
		copy(chunk[:], data)
		return chunk
	}
	half := uint64(1) << (depth - 1)
	halfBytes := half * 32
	var left, right [32]byte
	if uint64(len(data)) <= halfBytes {
		left = merkleizeChunks(data, depth-1)
		right = ZeroHashes[depth-1]
	} else {
		left = merkleizeChunks(data[:halfBytes], depth-1)
		right = merkleizeChunks(data[halfBytes:], depth-1)
	}
	return hash.HashPair(left, right)
}
