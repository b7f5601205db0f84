package ssz

import (
	"math/bits"

	"github.com/sigmachain/beacon-core/container/trie"
)

// Bitvector is the SSZ bitvector[N] shape: a fixed N-bit, LSB-first packed
// bit string (matching github.com/prysmaticlabs/go-bitfield's Bitvector*
// byte layout; beacon-chain/state holds JustificationBits in this layout as
// a plain [1]byte).
type Bitvector struct {
	N       uint64
	byteLen int
	depth   uint64
}

// NewBitvector builds the bitvector[n] schema.
func NewBitvector(n uint64) *Bitvector {
	byteLen := int((n + 7) / 8)
	return &Bitvector{N: n, byteLen: byteLen, depth: log2(chunksForBytes(uint64(byteLen)))}
}

func (b *Bitvector) Kind() Kind             { return KindBitvector }
func (b *Bitvector) Depth() uint64          { return b.depth }
func (b *Bitvector) DefaultTree() trie.Node { return trie.NewZero(b.depth) }
func (b *Bitvector) FixedSize() (int, bool) { return b.byteLen, true }

func (b *Bitvector) Marshal(n trie.Node) ([]byte, error) {
	return packedBytes(n, b.byteLen)
}

func (b *Bitvector) Unmarshal(data []byte) (trie.Node, error) {
	if len(data) != b.byteLen {
		return nil, ErrLengthMismatch
	}
	return trie.NewPackedLeaf(data, b.depth), nil
}

func (b *Bitvector) HashTreeRoot(n trie.Node) [32]byte { return n.HashTreeRoot() }

// BitAt returns bit i (0-indexed, LSB-first within each byte).
func (b *Bitvector) BitAt(n trie.Node, i uint64) (bool, error) {
	raw, err := packedBytes(n, b.byteLen)
	if err != nil {
		return false, err
	}
	return raw[i/8]&(1<<(i%8)) != 0, nil
}

// SetBit returns a new bitvector tree with bit i set to val.
func (b *Bitvector) SetBit(n trie.Node, i uint64, val bool) (trie.Node, error) {
	raw, err := packedBytes(n, b.byteLen)
	if err != nil {
		return nil, err
	}
	if val {
		raw[i/8] |= 1 << (i % 8)
	} else {
		raw[i/8] &^= 1 << (i % 8)
	}
	return trie.NewPackedLeaf(raw, b.depth), nil
}

// Bitlist is the SSZ bitlist[N_max] shape. Its tree, like List, is backed by
// a container{data: bitvector[N_max], length: uint64} so hash_tree_root
// falls out of the container's generic HashPair mix-in; wire serialization
// instead encodes the sentinel-bit form (high bit beyond the data marks the
// length), per spec.md §4.B.
type Bitlist struct {
	Limit     uint64
	data      *Bitvector
	container *Container
}

// NewBitlist builds the bitlist[limit] schema.
func NewBitlist(limit uint64) *Bitlist {
	data := NewBitvector(limit)
	container := NewContainer([]Field{
		{Name: "data", Schema: data},
		{Name: "length", Schema: Uint64},
	})
	return &Bitlist{Limit: limit, data: data, container: container}
}

func (b *Bitlist) Kind() Kind             { return KindBitlist }
func (b *Bitlist) Depth() uint64          { return b.container.Depth() }
func (b *Bitlist) DefaultTree() trie.Node { return b.container.DefaultTree() }
func (b *Bitlist) FixedSize() (int, bool) { return 0, false }
func (b *Bitlist) HashTreeRoot(n trie.Node) [32]byte { return n.HashTreeRoot() }

// Length returns the bit-length recorded for this bitlist value.
func (b *Bitlist) Length(n trie.Node) (uint64, error) {
	lenNode, err := b.container.Get(n, 1)
	if err != nil {
		return 0, err
	}
	return DecodeUint64(lenNode)
}

// BitAt returns bit i of an active bitlist value (i < length).
func (b *Bitlist) BitAt(n trie.Node, i uint64) (bool, error) {
	dataNode, err := b.container.Get(n, 0)
	if err != nil {
		return false, err
	}
	return b.data.BitAt(dataNode, i)
}

// FromBits builds a bitlist tree holding exactly the given bits
// (len(bits) must be <= Limit).
func (b *Bitlist) FromBits(values []bool) (trie.Node, error) {
	if uint64(len(values)) > b.Limit {
		return nil, ErrListTooLong
	}
	dataNode := b.data.DefaultTree()
	var err error
	for i, v := range values {
		if !v {
			continue
		}
		dataNode, err = b.data.SetBit(dataNode, uint64(i), true)
		if err != nil {
			return nil, err
		}
	}
	tree := b.container.DefaultTree()
	tree, err = b.container.Set(tree, 0, dataNode)
	if err != nil {
		return nil, err
	}
	return b.container.Set(tree, 1, EncodeUint64(uint64(len(values))))
}

func (b *Bitlist) Marshal(n trie.Node) ([]byte, error) {
	length, err := b.Length(n)
	if err != nil {
		return nil, err
	}
	dataNode, err := b.container.Get(n, 0)
	if err != nil {
		return nil, err
	}
	raw, err := packedBytes(dataNode, b.data.byteLen)
	if err != nil {
		return nil, err
	}
	outLen := int(length/8) + 1
	out := make([]byte, outLen)
	copy(out, raw[:(length+7)/8])
	out[length/8] |= 1 << (length % 8)
	return out, nil
}

func (b *Bitlist) Unmarshal(data []byte) (trie.Node, error) {
	if len(data) == 0 || len(data) > b.data.byteLen {
		return nil, ErrMalformedSSZ
	}
	lastByte := data[len(data)-1]
	if lastByte == 0 {
		return nil, ErrMalformedSSZ
	}
	msb := bits.Len8(lastByte) - 1
	length := uint64((len(data)-1)*8 + msb)
	if length > b.Limit {
		return nil, ErrListTooLong
	}

	raw := make([]byte, b.data.byteLen)
	copy(raw, data)
	raw[len(data)-1] &^= 1 << uint(msb)

	dataNode := trie.NewPackedLeaf(raw, b.data.depth)
	tree := b.container.DefaultTree()
	var err error
	tree, err = b.container.Set(tree, 0, dataNode)
	if err != nil {
		return nil, err
	}
	return b.container.Set(tree, 1, EncodeUint64(length))
}
