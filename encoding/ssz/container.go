package ssz

import "github.com/sigmachain/beacon-core/container/trie"

// Field is one named member of a Container schema.
type Field struct {
	Name   string
	Schema Schema
}

// Container is the SSZ container{...named fields...} shape. Field i lives
// at generalized index N+i within the container's own tree, where N is the
// next power of two >= the field count.
type Container struct {
	Fields []Field
	n      uint64 // next pow2 of len(Fields), cached
	depth  uint64
}

// NewContainer builds a Container schema over the given fields in order.
func NewContainer(fields []Field) *Container {
	n := nextPow2(uint64(len(fields)))
	return &Container{Fields: fields, n: n, depth: log2(n)}
}

func (c *Container) Kind() Kind     { return KindContainer }
func (c *Container) Depth() uint64  { return c.depth }

func (c *Container) FieldIndex(gi uint64) uint64 { return c.n + gi }

func (c *Container) DefaultTree() trie.Node {
	leaves := make([]trie.Node, len(c.Fields))
	for i, f := range c.Fields {
		leaves[i] = f.Schema.DefaultTree()
	}
	return buildBalancedTree(leaves, c.depth)
}

func (c *Container) FixedSize() (int, bool) {
	total := 0
	for _, f := range c.Fields {
		size, fixed := f.Schema.FixedSize()
		if !fixed {
			return 0, false
		}
		total += size
	}
	return total, true
}

func (c *Container) fieldNodes(n trie.Node) ([]trie.Node, error) {
	nodes := make([]trie.Node, len(c.Fields))
	for i := range c.Fields {
		sub, err := trie.Get(n, c.n+uint64(i))
		if err != nil {
			return nil, err
		}
		nodes[i] = sub
	}
	return nodes, nil
}

func (c *Container) schemas() []Schema {
	out := make([]Schema, len(c.Fields))
	for i, f := range c.Fields {
		out[i] = f.Schema
	}
	return out
}

func (c *Container) Marshal(n trie.Node) ([]byte, error) {
	nodes, err := c.fieldNodes(n)
	if err != nil {
		return nil, err
	}
	return marshalSequence(c.schemas(), nodes)
}

func (c *Container) Unmarshal(data []byte) (trie.Node, error) {
	nodes, err := unmarshalSequence(c.schemas(), data)
	if err != nil {
		return nil, err
	}
	return buildBalancedTree(nodes, c.depth), nil
}

func (c *Container) HashTreeRoot(n trie.Node) [32]byte {
	return n.HashTreeRoot()
}

// Get returns the sub-node for field index i (0-based, in field order).
func (c *Container) Get(n trie.Node, i int) (trie.Node, error) {
	return trie.Get(n, c.n+uint64(i))
}

// Set returns a new container tree with field i replaced.
func (c *Container) Set(n trie.Node, i int, value trie.Node) (trie.Node, error) {
	return trie.Set(n, c.n+uint64(i), value)
}
