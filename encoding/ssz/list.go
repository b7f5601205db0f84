package ssz

import "github.com/sigmachain/beacon-core/container/trie"

// List is the SSZ list[T, N_max] shape, per spec.md §4.B: backed internally
// by a container{data: Vector[T, N_max], length: uint64}, so its
// hash_tree_root is exactly that container's generic HashPair(data_root,
// length_chunk) mix-in. Wire serialization, unlike the tree shape, encodes
// only the first `length` elements (no Vector padding, no explicit length
// field) per standard SSZ list encoding.
type List struct {
	Elem  Schema
	Limit uint64

	data      *Vector
	container *Container
}

// NewList builds the list[elem, limit] schema.
func NewList(elem Schema, limit uint64) *List {
	data := NewVector(elem, limit)
	container := NewContainer([]Field{
		{Name: "data", Schema: data},
		{Name: "length", Schema: Uint64},
	})
	return &List{Elem: elem, Limit: limit, data: data, container: container}
}

func (l *List) Kind() Kind     { return KindList }
func (l *List) Depth() uint64  { return l.container.Depth() }
func (l *List) DefaultTree() trie.Node { return l.container.DefaultTree() }
func (l *List) FixedSize() (int, bool) { return 0, false }

func (l *List) HashTreeRoot(n trie.Node) [32]byte { return n.HashTreeRoot() }

// Length reads the length field out of a list tree.
func (l *List) Length(n trie.Node) (uint64, error) {
	lenNode, err := l.container.Get(n, 1)
	if err != nil {
		return 0, err
	}
	return DecodeUint64(lenNode)
}

// DataNode returns the underlying Vector[Elem, Limit] node backing n.
func (l *List) DataNode(n trie.Node) (trie.Node, error) {
	return l.container.Get(n, 0)
}

// FromElements builds a list tree holding exactly the given elements
// (len(elements) must be <= Limit).
func (l *List) FromElements(elements []trie.Node) (trie.Node, error) {
	if uint64(len(elements)) > l.Limit {
		return nil, ErrListTooLong
	}
	dataNode := l.data.DefaultTree()
	var err error
	for i, e := range elements {
		dataNode, err = l.data.SetElement(dataNode, uint64(i), e)
		if err != nil {
			return nil, err
		}
	}
	tree := l.container.DefaultTree()
	tree, err = l.container.Set(tree, 0, dataNode)
	if err != nil {
		return nil, err
	}
	return l.container.Set(tree, 1, EncodeUint64(uint64(len(elements))))
}

// Elements returns the list's active elements in order.
func (l *List) Elements(n trie.Node) ([]trie.Node, error) {
	length, err := l.Length(n)
	if err != nil {
		return nil, err
	}
	dataNode, err := l.DataNode(n)
	if err != nil {
		return nil, err
	}
	out := make([]trie.Node, length)
	for i := uint64(0); i < length; i++ {
		out[i], err = l.data.GetElement(dataNode, i)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Append returns a new list tree with value appended, failing with
// ErrListTooLong if the list is already at Limit.
func (l *List) Append(n trie.Node, value trie.Node) (trie.Node, error) {
	length, err := l.Length(n)
	if err != nil {
		return nil, err
	}
	if length >= l.Limit {
		return nil, ErrListTooLong
	}
	dataNode, err := l.DataNode(n)
	if err != nil {
		return nil, err
	}
	dataNode, err = l.data.SetElement(dataNode, length, value)
	if err != nil {
		return nil, err
	}
	tree, err := l.container.Set(n, 0, dataNode)
	if err != nil {
		return nil, err
	}
	return l.container.Set(tree, 1, EncodeUint64(length+1))
}

// GetElementAt returns element i of an active list value (i must be <
// the list's current length) without decoding every element.
func (l *List) GetElementAt(n trie.Node, i uint64) (trie.Node, error) {
	length, err := l.Length(n)
	if err != nil {
		return nil, err
	}
	if i >= length {
		return nil, ErrOutOfRange
	}
	dataNode, err := l.DataNode(n)
	if err != nil {
		return nil, err
	}
	return l.data.GetElement(dataNode, i)
}

// SetElementAt returns a new list tree with element i replaced (i must be <
// the list's current length; use Append to grow the list).
func (l *List) SetElementAt(n trie.Node, i uint64, value trie.Node) (trie.Node, error) {
	length, err := l.Length(n)
	if err != nil {
		return nil, err
	}
	if i >= length {
		return nil, ErrOutOfRange
	}
	dataNode, err := l.DataNode(n)
	if err != nil {
		return nil, err
	}
	newData, err := l.data.SetElement(dataNode, i, value)
	if err != nil {
		return nil, err
	}
	return l.container.Set(n, 0, newData)
}

func (l *List) Marshal(n trie.Node) ([]byte, error) {
	length, err := l.Length(n)
	if err != nil {
		return nil, err
	}
	dataNode, err := l.DataNode(n)
	if err != nil {
		return nil, err
	}
	if l.data.packed {
		byteLen := int(l.Limit) * l.data.elemSz
		raw, err := packedBytes(dataNode, byteLen)
		if err != nil {
			return nil, err
		}
		return raw[:int(length)*l.data.elemSz], nil
	}
	schemas := make([]Schema, length)
	nodes := make([]trie.Node, length)
	for i := uint64(0); i < length; i++ {
		schemas[i] = l.Elem
		nodes[i], err = l.data.GetElement(dataNode, i)
		if err != nil {
			return nil, err
		}
	}
	return marshalSequence(schemas, nodes)
}

func (l *List) Unmarshal(data []byte) (trie.Node, error) {
	if l.data.packed {
		elemSz := l.data.elemSz
		if elemSz == 0 || len(data)%elemSz != 0 {
			return nil, ErrMalformedSSZ
		}
		count := uint64(len(data) / elemSz)
		if count > l.Limit {
			return nil, ErrListTooLong
		}
		raw := make([]byte, int(l.Limit)*elemSz)
		copy(raw, data)
		dataNode := trie.NewPackedLeaf(raw, l.data.depth)
		tree := l.container.DefaultTree()
		var err error
		tree, err = l.container.Set(tree, 0, dataNode)
		if err != nil {
			return nil, err
		}
		return l.container.Set(tree, 1, EncodeUint64(count))
	}

	elements, err := unmarshalRepeated(l.Elem, data)
	if err != nil {
		return nil, err
	}
	if uint64(len(elements)) > l.Limit {
		return nil, ErrListTooLong
	}
	return l.FromElements(elements)
}

// unmarshalRepeated decodes a sequence of an unknown-in-advance count of
// same-schema elements (composite list encoding): for fixed-size elements
// the count is data length / element size; for variable-size elements the
// count is inferred from the first offset (offset/4), per standard SSZ.
func unmarshalRepeated(elem Schema, data []byte) ([]trie.Node, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if size, fixed := elem.FixedSize(); fixed {
		if len(data)%size != 0 {
			return nil, ErrMalformedSSZ
		}
		count := len(data) / size
		schemas := make([]Schema, count)
		for i := range schemas {
			schemas[i] = elem
		}
		return unmarshalSequence(schemas, data)
	}

	// Variable-size elements: the first 4-byte offset tells us the fixed
	// (offset-table) prefix length, hence the element count.
	if len(data) < 4 {
		return nil, ErrMalformedSSZ
	}
	firstOffset := int(leUint32(data[:4]))
	if firstOffset < 4 || firstOffset%4 != 0 || firstOffset > len(data) {
		return nil, ErrMalformedSSZ
	}
	count := firstOffset / 4
	schemas := make([]Schema, count)
	for i := range schemas {
		schemas[i] = elem
	}
	return unmarshalSequence(schemas, data)
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
