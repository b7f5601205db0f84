// Package trie implements the hash-consed, persistent binary Merkle tree
// used to back every SSZ view in encoding/ssz. Trees are immutable: Get is a
// pure read, Set and BatchUpdate return a new root sharing every subtree
// that the update did not touch.
package trie

// Get walks the generalized index gi from the root down, returning the node
// addressed by it.
func Get(root Node, gi uint64) (Node, error) {
	if gi < 1 {
		return nil, ErrInvalidIndex
	}
	return get(root, pathBits(gi))
}

func get(n Node, steps []int) (Node, error) {
	if len(steps) == 0 {
		return n, nil
	}
	switch t := n.(type) {
	case *Branch:
		if steps[0] == 0 {
			return get(t.left, steps[1:])
		}
		return get(t.right, steps[1:])
	case *Zero:
		if uint64(len(steps)) > t.depth {
			return nil, ErrInvalidIndex
		}
		return NewZero(t.depth - uint64(len(steps))), nil
	case *Leaf:
		// A leaf has no children: any remaining steps overrun the tree.
		return nil, ErrInvalidIndex
	case *PackedLeaf:
		// Packed leaves are addressed atomically at their own depth; any
		// remaining steps would require splitting raw bytes, which Get does
		// not support (callers address individual elements through the SSZ
		// view layer instead).
		return nil, ErrInvalidIndex
	default:
		return nil, ErrInvalidIndex
	}
}

// HashTreeRoot returns the Merkle root of the tree rooted at n.
func HashTreeRoot(n Node) [32]byte {
	return n.HashTreeRoot()
}

// Set returns a new tree with the node at gi replaced by newNode, sharing
// every subtree along paths that were not walked.
func Set(root Node, gi uint64, newNode Node) (Node, error) {
	if gi < 1 {
		return nil, ErrInvalidIndex
	}
	return set(root, pathBits(gi), newNode)
}

func set(n Node, steps []int, newNode Node) (Node, error) {
	if len(steps) == 0 {
		if _, ok := n.(*PackedLeaf); ok {
			switch newNode.(type) {
			case *PackedLeaf, *Leaf, *Zero:
			default:
				return nil, ErrMixedKinds
			}
		}
		return newNode, nil
	}
	switch t := n.(type) {
	case *Branch:
		if steps[0] == 0 {
			newLeft, err := set(t.left, steps[1:], newNode)
			if err != nil {
				return nil, err
			}
			return NewBranch(newLeft, t.right), nil
		}
		newRight, err := set(t.right, steps[1:], newNode)
		if err != nil {
			return nil, err
		}
		return NewBranch(t.left, newRight), nil
	case *Zero:
		if uint64(len(steps)) > t.depth {
			return nil, ErrInvalidIndex
		}
		// Expand one level of the zero subtree into real structure so the
		// update can proceed; the sibling stays a (cheap, shared) Zero node.
		expanded := NewBranch(NewZero(t.depth-1), NewZero(t.depth-1))
		return set(expanded, steps, newNode)
	case *Leaf:
		return nil, ErrInvalidIndex
	case *PackedLeaf:
		return nil, ErrInvalidIndex
	default:
		return nil, ErrInvalidIndex
	}
}

// Update is a single (generalized index, replacement node) pair for
// BatchUpdate.
type Update struct {
	Index uint64
	Node  Node
}

// BatchUpdate applies a sorted (by Index ascending) list of updates to root
// in a single pass, rebuilding each shared ancestor once rather than once
// per update. updates must be sorted; behavior is undefined otherwise.
func BatchUpdate(root Node, updates []Update) (Node, error) {
	if len(updates) == 0 {
		return root, nil
	}
	paths := make([][]int, len(updates))
	for i, u := range updates {
		if u.Index < 1 {
			return nil, ErrInvalidIndex
		}
		paths[i] = pathBits(u.Index)
	}
	return batch(root, paths, updates)
}

// batch partitions updates (all sharing the node n at the current depth) by
// their next direction bit and recurses, so n is rebuilt exactly once
// regardless of how many updates fall beneath it.
func batch(n Node, paths [][]int, updates []Update) (Node, error) {
	if len(updates) == 1 && len(paths[0]) == 0 {
		return set(n, nil, updates[0].Node)
	}
	// Partition into "done at this node" (shouldn't happen for >1 update
	// sharing a node, but guarded) and left/right groups.
	var leftPaths, rightPaths [][]int
	var leftUpdates, rightUpdates []Update
	for i, p := range paths {
		if len(p) == 0 {
			return nil, ErrInvalidIndex // two updates can't target the same node along with others
		}
		if p[0] == 0 {
			leftPaths = append(leftPaths, p[1:])
			leftUpdates = append(leftUpdates, updates[i])
		} else {
			rightPaths = append(rightPaths, p[1:])
			rightUpdates = append(rightUpdates, updates[i])
		}
	}

	left, right, err := childrenOf(n)
	if err != nil {
		return nil, err
	}

	newLeft, newRight := left, right
	if len(leftUpdates) > 0 {
		newLeft, err = batch(left, leftPaths, leftUpdates)
		if err != nil {
			return nil, err
		}
	}
	if len(rightUpdates) > 0 {
		newRight, err = batch(right, rightPaths, rightUpdates)
		if err != nil {
			return nil, err
		}
	}
	return NewBranch(newLeft, newRight), nil
}

func childrenOf(n Node) (left, right Node, err error) {
	switch t := n.(type) {
	case *Branch:
		return t.left, t.right, nil
	case *Zero:
		if t.depth == 0 {
			return nil, nil, ErrInvalidIndex
		}
		return NewZero(t.depth - 1), NewZero(t.depth - 1), nil
	default:
		return nil, nil, ErrInvalidIndex
	}
}
