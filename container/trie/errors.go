package trie

import "errors"

// ErrInvalidIndex is returned when a generalized index is less than 1, or
// when the walk exits a leaf-shaped node before the index is exhausted.
var ErrInvalidIndex = errors.New("trie: invalid generalized index")

// ErrMixedKinds is returned when an update attempts to replace a packed
// leaf with a value that is not itself a leaf-shaped node.
var ErrMixedKinds = errors.New("trie: mixed node kinds in update")
