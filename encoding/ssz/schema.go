// Package ssz implements the typed view layer over container/trie: schema
// descriptors for SSZ container/vector/list/bitvector/bitlist/basic shapes,
// each knowing its tree depth, default (zero) tree, canonical
// serialize/deserialize recipe, and hash_tree_root recipe.
package ssz

import "github.com/sigmachain/beacon-core/container/trie"

// Kind identifies which SSZ shape a Schema describes.
type Kind int

const (
	KindBasic Kind = iota
	KindContainer
	KindVector
	KindList
	KindBitvector
	KindBitlist
)

// Schema is a compile-time description of an SSZ shape: its tree depth
// (number of Get/Set steps from this value's own root down to its data
// chunks), its all-zero default tree, and its serialize/deserialize and
// hash_tree_root recipes.
type Schema interface {
	Kind() Kind

	// Depth is the generalized-index depth of this schema's own tree: gi 1
	// is this value's root, and its data chunks live at depth Depth().
	Depth() uint64

	// DefaultTree returns the canonical zero-value tree for this schema.
	DefaultTree() trie.Node

	// FixedSize returns the wire-encoded byte length and true if this
	// schema is fixed-size; false if it is variable-size (list, bitlist, or
	// a container/vector containing a variable-size element).
	FixedSize() (size int, fixed bool)

	// Marshal returns the canonical SSZ encoding of the value held by n.
	Marshal(n trie.Node) ([]byte, error)

	// Unmarshal decodes data into a tree node. Returns ErrMalformedSSZ (or
	// a wrapped form of it) on any offset/length violation.
	Unmarshal(data []byte) (trie.Node, error)

	// HashTreeRoot returns the 32-byte Merkle root for the value held by n.
	HashTreeRoot(n trie.Node) [32]byte
}
