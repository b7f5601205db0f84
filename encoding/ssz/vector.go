package ssz

import "github.com/sigmachain/beacon-core/container/trie"

// Vector is the SSZ vector[T, N] shape: a fixed-length sequence. Basic
// elements are packed several-per-chunk into a single super-leaf (see
// container/trie's PackedLeaf); composite elements each occupy their own
// subtree, one per chunk.
type Vector struct {
	Elem   Schema
	N      uint64
	packed bool
	depth  uint64 // depth of the data region (chunk count = 2^depth)
	elemSz int    // only meaningful when packed
}

// NewVector builds the vector[elem, n] schema.
func NewVector(elem Schema, n uint64) *Vector {
	v := &Vector{Elem: elem, N: n}
	if elem.Kind() == KindBasic {
		size, _ := elem.FixedSize()
		v.packed = true
		v.elemSz = size
		v.depth = log2(chunksForBytes(n * uint64(size)))
	} else {
		v.depth = log2(nextPow2(n))
	}
	return v
}

func (v *Vector) Kind() Kind    { return KindVector }
func (v *Vector) Depth() uint64 { return v.depth }

func (v *Vector) DefaultTree() trie.Node {
	if v.packed {
		return trie.NewZero(v.depth)
	}
	leaves := make([]trie.Node, v.N)
	for i := range leaves {
		leaves[i] = v.Elem.DefaultTree()
	}
	return buildBalancedTree(leaves, v.depth)
}

func (v *Vector) FixedSize() (int, bool) {
	if v.packed {
		return int(v.N) * v.elemSz, true
	}
	size, fixed := v.Elem.FixedSize()
	if !fixed {
		return 0, false
	}
	return int(v.N) * size, true
}

func (v *Vector) Marshal(n trie.Node) ([]byte, error) {
	if v.packed {
		byteLen := int(v.N) * v.elemSz
		return packedBytes(n, byteLen)
	}
	nodes, err := v.elementNodes(n)
	if err != nil {
		return nil, err
	}
	schemas := make([]Schema, v.N)
	for i := range schemas {
		schemas[i] = v.Elem
	}
	return marshalSequence(schemas, nodes)
}

func (v *Vector) Unmarshal(data []byte) (trie.Node, error) {
	if v.packed {
		want := int(v.N) * v.elemSz
		if len(data) != want {
			return nil, ErrLengthMismatch
		}
		return trie.NewPackedLeaf(data, v.depth), nil
	}
	schemas := make([]Schema, v.N)
	for i := range schemas {
		schemas[i] = v.Elem
	}
	nodes, err := unmarshalSequence(schemas, data)
	if err != nil {
		return nil, err
	}
	return buildBalancedTree(nodes, v.depth), nil
}

func (v *Vector) HashTreeRoot(n trie.Node) [32]byte {
	return n.HashTreeRoot()
}

func (v *Vector) elementNodes(n trie.Node) ([]trie.Node, error) {
	width := uint64(1) << v.depth
	nodes := make([]trie.Node, v.N)
	for i := uint64(0); i < v.N; i++ {
		sub, err := trie.Get(n, width+i)
		if err != nil {
			return nil, err
		}
		nodes[i] = sub
	}
	return nodes, nil
}

// GetElement returns element i. For packed vectors this slices the raw
// packed bytes directly rather than walking the tree at chunk granularity.
func (v *Vector) GetElement(n trie.Node, i uint64) (trie.Node, error) {
	if i >= v.N {
		return nil, ErrListTooLong
	}
	if v.packed {
		byteLen := int(v.N) * v.elemSz
		raw, err := packedBytes(n, byteLen)
		if err != nil {
			return nil, err
		}
		return v.Elem.Unmarshal(raw[int(i)*v.elemSz : (int(i)+1)*v.elemSz])
	}
	width := uint64(1) << v.depth
	return trie.Get(n, width+i)
}

// SetElement returns a new vector tree with element i replaced.
func (v *Vector) SetElement(n trie.Node, i uint64, value trie.Node) (trie.Node, error) {
	if i >= v.N {
		return nil, ErrListTooLong
	}
	if v.packed {
		byteLen := int(v.N) * v.elemSz
		raw, err := packedBytes(n, byteLen)
		if err != nil {
			return nil, err
		}
		enc, err := v.Elem.Marshal(value)
		if err != nil {
			return nil, err
		}
		copy(raw[int(i)*v.elemSz:(int(i)+1)*v.elemSz], enc)
		return trie.NewPackedLeaf(raw, v.depth), nil
	}
	width := uint64(1) << v.depth
	return trie.Set(n, width+i, value)
}

// packedBytes recovers the raw packed byte representation (zero-padded /
// truncated to byteLen) from a node produced by a packed Vector or List.
func packedBytes(n trie.Node, byteLen int) ([]byte, error) {
	switch t := n.(type) {
	case *trie.PackedLeaf:
		b := t.Bytes()
		out := make([]byte, byteLen)
		copy(out, b)
		return out, nil
	case *trie.Zero:
		return make([]byte, byteLen), nil
	case *trie.Leaf:
		d := t.Data()
		out := make([]byte, byteLen)
		copy(out, d[:])
		return out, nil
	default:
		return nil, ErrWrongNodeKind
	}
}
