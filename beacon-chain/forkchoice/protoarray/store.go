package protoarray

import (
	"context"
	"sync"

	"github.com/sigmachain/beacon-core/consensus-types/primitives"
)

// Store is the dense ProtoArray arena: an ordered slice of Nodes plus a
// root-to-index lookup, guarded by a single lock since inserts, weight
// updates and head-finding all mutate the same slice.
type Store struct {
	nodesLock      sync.RWMutex
	nodes          []*Node
	nodesIndices   map[[32]byte]uint64
	justifiedEpoch primitives.Epoch
	justifiedRoot  [32]byte
	finalizedEpoch primitives.Epoch
	finalizedRoot  [32]byte
	pruneThreshold uint64
}

func newStore(justifiedEpoch, finalizedEpoch primitives.Epoch, finalizedRoot [32]byte) *Store {
	return &Store{
		nodesIndices:   make(map[[32]byte]uint64),
		justifiedEpoch: justifiedEpoch,
		justifiedRoot:  finalizedRoot,
		finalizedEpoch: finalizedEpoch,
		finalizedRoot:  finalizedRoot,
		pruneThreshold: defaultPruneThreshold,
	}
}

// PruneThreshold returns the minimum node count behind the finalized
// checkpoint before prune actually compacts the arena.
func (s *Store) PruneThreshold() uint64 {
	s.nodesLock.RLock()
	defer s.nodesLock.RUnlock()
	return s.pruneThreshold
}

// insert appends a new node to the arena. An unknown parent is tolerated
// (NonExistentNode is recorded) since the anchor/finalized boot root has
// none; any other unknown-parent block must be rejected by the caller
// before it reaches the store.
func (s *Store) insert(ctx context.Context, slot primitives.Slot, root, parent, stateRoot [32]byte, justifiedEpoch, finalizedEpoch primitives.Epoch) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	s.nodesLock.Lock()
	defer s.nodesLock.Unlock()

	if _, ok := s.nodesIndices[root]; ok {
		return nil
	}

	index := uint64(len(s.nodes))
	parentIndex, ok := s.nodesIndices[parent]
	if !ok {
		parentIndex = NonExistentNode
	}

	n := &Node{
		slot:           slot,
		root:           root,
		stateRoot:      stateRoot,
		parent:         parentIndex,
		justifiedEpoch: justifiedEpoch,
		finalizedEpoch: finalizedEpoch,
		bestChild:      NonExistentNode,
		bestDescendant: NonExistentNode,
	}
	s.nodesIndices[root] = index
	s.nodes = append(s.nodes, n)

	if parentIndex != NonExistentNode {
		return s.updateBestChildAndDescendant(parentIndex, index)
	}
	return nil
}

// applyWeightChanges propagates per-node weight deltas up through their
// ancestors in a single reverse pass: since parent_index < self_index is an
// arena invariant, walking the slice backwards guarantees every node's own
// delta has already been folded into its running total before it is added
// to the parent's.
func (s *Store) applyWeightChanges(ctx context.Context, deltas []int) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if len(deltas) != len(s.nodes) {
		return errInvalidDeltaLength
	}
	for i := len(s.nodes) - 1; i >= 0; i-- {
		delta := deltas[i]
		if delta == 0 {
			continue
		}
		n := s.nodes[i]
		if delta < 0 {
			d := uint64(-delta)
			if d > n.weight {
				n.weight = 0
			} else {
				n.weight -= d
			}
		} else {
			n.weight += uint64(delta)
		}
		if n.parent != NonExistentNode {
			deltas[n.parent] += delta
		}
	}
	return nil
}

// recomputeBestDescendants refreshes bestChild/bestDescendant for every
// node whose weight may have moved since the last pass. Processed in
// reverse index order so a node's own best-descendant chain is already
// settled by the time its parent considers it as a candidate child.
func (s *Store) recomputeBestDescendants(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	for i := len(s.nodes) - 1; i >= 0; i-- {
		parent := s.nodes[i].parent
		if parent == NonExistentNode {
			continue
		}
		if err := s.updateBestChildAndDescendant(parent, uint64(i)); err != nil {
			return err
		}
	}
	return nil
}

// updateBestChildAndDescendant decides whether childIndex should become (or
// remain) parentIndex's best child, per the viability/weight/lexicographic
// tie-break rules of find_head.
func (s *Store) updateBestChildAndDescendant(parentIndex, childIndex uint64) error {
	if parentIndex >= uint64(len(s.nodes)) || childIndex >= uint64(len(s.nodes)) {
		return errInvalidNodeIndex
	}
	parent := s.nodes[parentIndex]
	child := s.nodes[childIndex]

	childLeadsToViableHead, err := s.leadsToViableHead(child)
	if err != nil {
		return err
	}

	if parent.bestChild == NonExistentNode {
		if childLeadsToViableHead {
			parent.bestChild = childIndex
			parent.bestDescendant = bestDescendantOf(child, childIndex)
		}
		return nil
	}

	if parent.bestChild == childIndex {
		if !childLeadsToViableHead {
			parent.bestChild = NonExistentNode
			parent.bestDescendant = NonExistentNode
		} else {
			parent.bestDescendant = bestDescendantOf(child, childIndex)
		}
		return nil
	}

	if parent.bestChild >= uint64(len(s.nodes)) {
		return errInvalidNodeIndex
	}
	currentBest := s.nodes[parent.bestChild]
	currentBestLeadsToViableHead, err := s.leadsToViableHead(currentBest)
	if err != nil {
		return err
	}

	changeToChild := false
	switch {
	case childLeadsToViableHead && !currentBestLeadsToViableHead:
		changeToChild = true
	case !childLeadsToViableHead && currentBestLeadsToViableHead:
		changeToChild = false
	case childLeadsToViableHead && currentBestLeadsToViableHead:
		if child.weight == currentBest.weight {
			changeToChild = bytesGreater(child.root, currentBest.root)
		} else {
			changeToChild = child.weight > currentBest.weight
		}
	default:
		changeToChild = false
	}

	if changeToChild {
		parent.bestChild = childIndex
		parent.bestDescendant = bestDescendantOf(child, childIndex)
	}
	return nil
}

func bestDescendantOf(n *Node, index uint64) uint64 {
	if n.bestDescendant != NonExistentNode {
		return n.bestDescendant
	}
	return index
}

// bytesGreater reports whether a is lexicographically greater than b,
// implementing find_head's "higher byte-wise wins" tie-break.
func bytesGreater(a, b [32]byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}

// leadsToViableHead reports whether following n's best-descendant chain
// (or n itself, if it has none) lands on a node viable for head under the
// store's current justified/finalized checkpoint.
func (s *Store) leadsToViableHead(n *Node) (bool, error) {
	if n.bestDescendant != NonExistentNode {
		if n.bestDescendant >= uint64(len(s.nodes)) {
			return false, errInvalidBestDescendantIndex
		}
		return s.viableForHead(s.nodes[n.bestDescendant]), nil
	}
	return s.viableForHead(n), nil
}

// viableForHead implements find_head's viability predicate: a node is
// viable if its justified/finalized epochs match the store's, treating a
// store epoch of zero as "unknown justification, anything matches".
func (s *Store) viableForHead(n *Node) bool {
	justified := n.justifiedEpoch == s.justifiedEpoch || s.justifiedEpoch == 0
	finalized := n.finalizedEpoch == s.finalizedEpoch || s.finalizedEpoch == 0
	return justified && finalized
}

// head follows best_descendant from the justified root.
func (s *Store) head(ctx context.Context) ([32]byte, error) {
	if ctx.Err() != nil {
		return [32]byte{}, ctx.Err()
	}
	s.nodesLock.RLock()
	defer s.nodesLock.RUnlock()

	justifiedIndex, ok := s.nodesIndices[s.justifiedRoot]
	if !ok {
		return [32]byte{}, errUnknownJustifiedRoot
	}
	if justifiedIndex >= uint64(len(s.nodes)) {
		return [32]byte{}, errInvalidJustifiedIndex
	}
	justifiedNode := s.nodes[justifiedIndex]

	bestDescendantIndex := justifiedNode.bestDescendant
	if bestDescendantIndex == NonExistentNode {
		bestDescendantIndex = justifiedIndex
	}
	if bestDescendantIndex >= uint64(len(s.nodes)) {
		return [32]byte{}, errInvalidBestDescendantIndex
	}
	return s.nodes[bestDescendantIndex].root, nil
}

// prune compacts the arena by discarding every node that precedes
// newFinalizedRoot, rewriting the finalized node to index 0 and every
// parent/bestChild/bestDescendant index relative to it. No-op while the
// finalized node's depth is still under pruneThreshold.
func (s *Store) prune(ctx context.Context, newFinalizedRoot [32]byte) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	s.nodesLock.Lock()
	defer s.nodesLock.Unlock()

	finalizedIndex, ok := s.nodesIndices[newFinalizedRoot]
	if !ok {
		return errUnknownFinalizedRoot
	}
	if finalizedIndex < s.pruneThreshold {
		return nil
	}

	canonicalNodes := s.nodes[finalizedIndex:]
	newIndices := make(map[[32]byte]uint64, len(canonicalNodes))
	for i, n := range canonicalNodes {
		newIndices[n.root] = uint64(i)
		if n.parent != NonExistentNode {
			if n.parent < finalizedIndex {
				n.parent = NonExistentNode
			} else {
				n.parent -= finalizedIndex
			}
		}
		if n.bestChild != NonExistentNode {
			n.bestChild -= finalizedIndex
		}
		if n.bestDescendant != NonExistentNode {
			n.bestDescendant -= finalizedIndex
		}
	}
	s.nodes = canonicalNodes
	s.nodesIndices = newIndices
	return nil
}
