// Package protoarray implements the ProtoArray fork-choice store: a dense
// arena of ProtoNodes addressed by integer index, weighted by LMD-GHOST
// attestation votes.
package protoarray

import "github.com/sigmachain/beacon-core/consensus-types/primitives"

// NonExistentNode is the sentinel arena index used in place of a nil
// parent/bestChild/bestDescendant pointer.
const NonExistentNode = ^uint64(0)

// defaultPruneThreshold bounds how many nodes accumulate behind the
// finalized checkpoint before prune actually compacts the arena.
const defaultPruneThreshold = 256

// Node is a single element of the fork-choice arena: one imported block.
// parent/bestChild/bestDescendant are arena indices, not pointers, so the
// whole tree lives in one contiguous slice.
type Node struct {
	slot           primitives.Slot
	root           [32]byte
	stateRoot      [32]byte
	parent         uint64
	justifiedEpoch primitives.Epoch
	finalizedEpoch primitives.Epoch
	weight         uint64
	bestChild      uint64
	bestDescendant uint64
}

// Slot returns the node's block slot.
func (n *Node) Slot() primitives.Slot { return n.slot }

// Root returns the node's block root.
func (n *Node) Root() [32]byte { return n.root }

// Weight returns the node's accumulated vote weight.
func (n *Node) Weight() uint64 { return n.weight }
