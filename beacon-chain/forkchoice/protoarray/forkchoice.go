package protoarray

import (
	"context"
	"sync"

	"github.com/sigmachain/beacon-core/consensus-types/primitives"
)

// ForkChoice wraps a Store with the per-validator vote bookkeeping LMD-GHOST
// needs between calls to Head.
type ForkChoice struct {
	store *Store

	votesLock sync.RWMutex
	votes     []Vote
	balances  []uint64
}

// New creates a ForkChoice anchored at (justifiedEpoch, finalizedEpoch,
// finalizedRoot). The anchor node itself is inserted by the first call to
// ProcessBlock with an unknown parent, exactly as the finalized boot root
// is special-cased by on_block.
func New(justifiedEpoch, finalizedEpoch primitives.Epoch, finalizedRoot [32]byte) *ForkChoice {
	return &ForkChoice{store: newStore(justifiedEpoch, finalizedEpoch, finalizedRoot)}
}

// ProcessBlock is on_block: it appends blockRoot to the arena under
// parentRoot, failing with errUnknownParent unless parentRoot is already
// known or the arena is still empty (the anchor case).
func (f *ForkChoice) ProcessBlock(ctx context.Context, slot primitives.Slot, blockRoot, parentRoot, stateRoot [32]byte, justifiedEpoch, finalizedEpoch primitives.Epoch) error {
	f.store.nodesLock.RLock()
	_, parentKnown := f.store.nodesIndices[parentRoot]
	arenaEmpty := len(f.store.nodes) == 0
	f.store.nodesLock.RUnlock()

	if !parentKnown && !arenaEmpty {
		return errUnknownParent
	}
	if err := f.store.insert(ctx, slot, blockRoot, parentRoot, stateRoot, justifiedEpoch, finalizedEpoch); err != nil {
		return err
	}
	arenaSize.Set(float64(len(f.store.nodes)))
	return nil
}

// ProcessAttestation is on_attestation: it records each validator's vote
// for blockRoot at targetEpoch as their latest message. The weight move
// itself is deferred to the next Head call, per find_head's own two-phase
// design (commit pending votes, then recompute).
func (f *ForkChoice) ProcessAttestation(ctx context.Context, validatorIndices []primitives.ValidatorIndex, blockRoot [32]byte, targetEpoch primitives.Epoch) {
	f.votesLock.Lock()
	defer f.votesLock.Unlock()

	for _, idx := range validatorIndices {
		for uint64(idx) >= uint64(len(f.votes)) {
			f.votes = append(f.votes, Vote{})
		}
		if targetEpoch >= f.votes[idx].nextEpoch {
			f.votes[idx].nextRoot = blockRoot
			f.votes[idx].nextEpoch = targetEpoch
		}
	}
}

// updateBalances applies every pending vote move against balances, then
// recomputes bestChild/bestDescendant across the whole arena so the next
// head() reflects the new weights.
func (f *ForkChoice) updateBalances(ctx context.Context, newBalances []uint64) error {
	f.votesLock.Lock()
	defer f.votesLock.Unlock()

	f.store.nodesLock.RLock()
	indices := f.store.nodesIndices
	f.store.nodesLock.RUnlock()

	deltas, newVotes, err := computeDeltas(ctx, indices, f.votes, f.balances, newBalances)
	if err != nil {
		return err
	}
	f.votes = newVotes

	f.store.nodesLock.Lock()
	if err := f.store.applyWeightChanges(ctx, deltas); err != nil {
		f.store.nodesLock.Unlock()
		return err
	}
	err = f.store.recomputeBestDescendants(ctx)
	f.store.nodesLock.Unlock()
	if err != nil {
		return err
	}

	f.balances = newBalances
	return nil
}

// Head is find_head: apply pending vote deltas against balances, then
// follow best_descendant from the store's justified checkpoint.
func (f *ForkChoice) Head(ctx context.Context, balances []uint64) ([32]byte, error) {
	if err := f.updateBalances(ctx, balances); err != nil {
		return [32]byte{}, err
	}
	root, err := f.store.head(ctx)
	if err != nil {
		return [32]byte{}, err
	}

	f.store.nodesLock.RLock()
	if idx, ok := f.store.nodesIndices[root]; ok {
		headSlot.Set(float64(f.store.nodes[idx].slot))
	}
	f.store.nodesLock.RUnlock()
	return root, nil
}

// UpdateJustifiedCheckpoint updates the checkpoint find_head uses to
// decide node viability.
func (f *ForkChoice) UpdateJustifiedCheckpoint(epoch primitives.Epoch, root [32]byte) {
	f.store.nodesLock.Lock()
	defer f.store.nodesLock.Unlock()
	f.store.justifiedEpoch = epoch
	f.store.justifiedRoot = root
}

// UpdateFinalizedCheckpoint updates the store's finalized checkpoint and
// triggers maybe_prune against the new finalized root.
func (f *ForkChoice) UpdateFinalizedCheckpoint(ctx context.Context, epoch primitives.Epoch, root [32]byte) error {
	f.store.nodesLock.Lock()
	f.store.finalizedEpoch = epoch
	f.store.finalizedRoot = root
	f.store.nodesLock.Unlock()

	if err := f.store.prune(ctx, root); err != nil {
		return err
	}
	arenaSize.Set(float64(len(f.store.nodes)))
	return nil
}

// JustifiedCheckpoint returns the store's current justified checkpoint.
func (f *ForkChoice) JustifiedCheckpoint() (primitives.Epoch, [32]byte) {
	f.store.nodesLock.RLock()
	defer f.store.nodesLock.RUnlock()
	return f.store.justifiedEpoch, f.store.justifiedRoot
}

// FinalizedCheckpoint returns the store's current finalized checkpoint.
func (f *ForkChoice) FinalizedCheckpoint() (primitives.Epoch, [32]byte) {
	f.store.nodesLock.RLock()
	defer f.store.nodesLock.RUnlock()
	return f.store.finalizedEpoch, f.store.finalizedRoot
}

// HasNode reports whether root has been imported into the arena.
func (f *ForkChoice) HasNode(root [32]byte) bool {
	f.store.nodesLock.RLock()
	defer f.store.nodesLock.RUnlock()
	_, ok := f.store.nodesIndices[root]
	return ok
}

// PruneThreshold returns the store's prune threshold.
func (f *ForkChoice) PruneThreshold() uint64 {
	return f.store.PruneThreshold()
}
