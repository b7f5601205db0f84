package protoarray

import (
	"context"

	"github.com/sigmachain/beacon-core/consensus-types/primitives"
)

// Vote is a validator's latest LMD-GHOST message: the root it's currently
// credited to (currentRoot), the root of its most recent attestation
// (nextRoot) and the epoch that attestation targeted.
type Vote struct {
	currentRoot [32]byte
	nextRoot    [32]byte
	nextEpoch   primitives.Epoch
}

// computeDeltas folds every validator's pending vote move into a per-node
// weight delta and commits nextRoot as currentRoot. A validator only
// contributes a delta when its vote or balance actually changed, so
// re-running find_head with no new votes is a no-op pass over the votes
// slice.
func computeDeltas(ctx context.Context, nodesIndices map[[32]byte]uint64, votes []Vote, oldBalances, newBalances []uint64) ([]int, []Vote, error) {
	deltas := make([]int, len(nodesIndices))
	for i := range votes {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		vote := votes[i]

		var oldBalance, newBalance uint64
		if i < len(oldBalances) {
			oldBalance = oldBalances[i]
		}
		if i < len(newBalances) {
			newBalance = newBalances[i]
		}

		if vote.currentRoot == vote.nextRoot && oldBalance == newBalance {
			continue
		}

		if oldBalance != 0 {
			if oldIndex, ok := nodesIndices[vote.currentRoot]; ok {
				deltas[oldIndex] -= int(oldBalance)
			}
		}
		if newBalance != 0 {
			if newIndex, ok := nodesIndices[vote.nextRoot]; ok {
				deltas[newIndex] += int(newBalance)
			}
		}

		vote.currentRoot = vote.nextRoot
		votes[i] = vote
	}
	return deltas, votes, nil
}
