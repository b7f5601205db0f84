package ssz

import (
	"encoding/binary"

	"github.com/sigmachain/beacon-core/container/trie"
)

// Basic describes a scalar SSZ type: an unsigned integer of 1/2/4/8/32
// bytes, a bool, or a fixed-size byte string (bytes_n).
type Basic struct {
	size int // wire size in bytes: 1, 2, 4, 8, 32 for ints/bool/256-bit; n for bytes_n
}

// Uint8, Uint16, Uint32, Uint64 and Uint256 are the fixed-width unsigned
// integer schemas. Bool shares Uint8's single-byte layout.
var (
	Uint8   = &Basic{size: 1}
	Uint16  = &Basic{size: 2}
	Uint32  = &Basic{size: 4}
	Uint64  = &Basic{size: 8}
	Uint256 = &Basic{size: 32}
	Bool    = &Basic{size: 1}
)

// BytesN returns the fixed-size byte-string schema bytes_n.
func BytesN(n int) *Basic { return &Basic{size: n} }

func (b *Basic) Kind() Kind { return KindBasic }
func (b *Basic) Depth() uint64 { return 0 }

func (b *Basic) DefaultTree() trie.Node {
	return trie.NewLeaf([32]byte{})
}

func (b *Basic) FixedSize() (int, bool) { return b.size, true }

func (b *Basic) Marshal(n trie.Node) ([]byte, error) {
	leaf, ok := n.(*trie.Leaf)
	if !ok {
		return nil, ErrWrongNodeKind
	}
	data := leaf.Data()
	out := make([]byte, b.size)
	copy(out, data[:])
	return out, nil
}

func (b *Basic) Unmarshal(data []byte) (trie.Node, error) {
	if len(data) != b.size {
		return nil, ErrLengthMismatch
	}
	if b.size > 32 {
		return nil, ErrWrongNodeKind
	}
	var chunk [32]byte
	copy(chunk[:], data)
	return trie.NewLeaf(chunk), nil
}

func (b *Basic) HashTreeRoot(n trie.Node) [32]byte {
	return n.HashTreeRoot()
}

// EncodeUint64 returns the canonical little-endian encoding of v as a leaf.
func EncodeUint64(v uint64) trie.Node {
	var chunk [32]byte
	binary.LittleEndian.PutUint64(chunk[:8], v)
	return trie.NewLeaf(chunk)
}

// DecodeUint64 reads the little-endian uint64 out of a leaf's first 8 bytes.
func DecodeUint64(n trie.Node) (uint64, error) {
	leaf, ok := n.(*trie.Leaf)
	if !ok {
		return 0, ErrWrongNodeKind
	}
	data := leaf.Data()
	return binary.LittleEndian.Uint64(data[:8]), nil
}

// EncodeUint32 returns the canonical little-endian encoding of v as a leaf.
func EncodeUint32(v uint32) trie.Node {
	var chunk [32]byte
	binary.LittleEndian.PutUint32(chunk[:4], v)
	return trie.NewLeaf(chunk)
}

// DecodeUint32 reads the little-endian uint32 out of a leaf's first 4 bytes.
func DecodeUint32(n trie.Node) (uint32, error) {
	leaf, ok := n.(*trie.Leaf)
	if !ok {
		return 0, ErrWrongNodeKind
	}
	data := leaf.Data()
	return binary.LittleEndian.Uint32(data[:4]), nil
}

// EncodeBool returns a leaf node for a boolean value.
func EncodeBool(v bool) trie.Node {
	var chunk [32]byte
	if v {
		chunk[0] = 1
	}
	return trie.NewLeaf(chunk)
}

// DecodeBool reads a boolean out of a leaf's first byte.
func DecodeBool(n trie.Node) (bool, error) {
	leaf, ok := n.(*trie.Leaf)
	if !ok {
		return false, ErrWrongNodeKind
	}
	data := leaf.Data()
	return data[0] != 0, nil
}
