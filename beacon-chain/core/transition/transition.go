// Package transition implements the version-independent slot and epoch
// processing spec.md's state-transition driver (beacon-chain/blockchain)
// invokes to advance a BeaconState from its current slot up to the slot
// of an incoming block.
package transition

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	beaconstate "github.com/sigmachain/beacon-core/beacon-chain/state"
	"github.com/sigmachain/beacon-core/config/params"
	"github.com/sigmachain/beacon-core/consensus-types/primitives"
)

var log = logrus.WithField("prefix", "transition")

// ProcessSlots advances st one slot at a time up to, but not including,
// processing of targetSlot itself, running per-slot bookkeeping and, at
// every epoch boundary, the (simplified) epoch transition. st is left
// untouched; the result is returned as a new state.
//
// Re-executing ProcessSlots from the same pre-state to the same
// targetSlot is deterministic: every step here is a pure function of
// the state it's applied to.
func ProcessSlots(ctx context.Context, st beaconstate.BeaconState, cfg *params.BeaconChainConfig, targetSlot primitives.Slot) (beaconstate.BeaconState, error) {
	if st.Slot() > targetSlot {
		return nil, errors.Errorf("transition: target slot %d below state slot %d", targetSlot, st.Slot())
	}
	next := st.Copy()
	for next.Slot() < targetSlot {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := ProcessSlot(next, cfg); err != nil {
			return nil, errors.Wrap(err, "process slot")
		}
		if isEpochEnd(next.Slot(), cfg) {
			if err := ProcessEpoch(next, cfg); err != nil {
				return nil, errors.Wrap(err, "process epoch")
			}
		}
		if err := next.SetSlot(next.Slot() + 1); err != nil {
			return nil, err
		}
	}
	return next, nil
}

func isEpochEnd(slot primitives.Slot, cfg *params.BeaconChainConfig) bool {
	return (uint64(slot)+1)%cfg.SlotsPerEpoch == 0
}

// ProcessSlot caches the pre-slot state root into the state-roots
// history vector, backfills the latest block header's state root the
// first time it is observed empty (the one-slot-deferred caching the
// real protocol uses to let a block's own state root reference the
// state produced after the block, not before), and caches the header's
// own root into the block-roots history vector.
func ProcessSlot(st beaconstate.BeaconState, cfg *params.BeaconChainConfig) error {
	idx := uint64(st.Slot()) % cfg.SlotsPerHistoricalRoot
	root, err := st.HashTreeRoot()
	if err != nil {
		return err
	}
	if err := st.SetStateRootAtIndex(idx, root); err != nil {
		return err
	}
	header := st.LatestBlockHeader()
	if header.StateRoot == ([32]byte{}) {
		header.StateRoot = root
		if err := st.SetLatestBlockHeader(header); err != nil {
			return err
		}
	}
	headerRoot := beaconstate.BeaconBlockHeaderSchema.HashTreeRoot(beaconstate.EncodeBlockHeader(header))
	return st.SetBlockRootAtIndex(idx, headerRoot)
}

// ProcessEpoch runs at the boundary between two epochs. A full
// Ethereum epoch transition weighs every attesting validator's balance
// toward source/target checkpoints before (un)justifying an epoch; that
// committee/shuffling machinery is out of this core's scope (spec.md
// §4.E lists only "slot processing", not reward/penalty accounting), so
// this is deliberately the simplified justification-bits bookkeeping
// recorded as a decided Open Question in DESIGN.md: the bitfield still
// shifts every epoch and the two-consecutive-justified-epochs
// finalization rule still applies, but no epoch is newly justified here
// — that signal arrives from outside (e.g. a replayed finalized
// checkpoint) via SetCurrentJustifiedCheckpoint.
func ProcessEpoch(st beaconstate.BeaconState, cfg *params.BeaconChainConfig) error {
	if err := st.SetPreviousJustifiedCheckpoint(st.CurrentJustifiedCheckpoint()); err != nil {
		return err
	}
	bits := st.JustificationBits()
	shifted := [1]byte{bits[0] << 1}
	if err := st.SetJustificationBits(shifted); err != nil {
		return err
	}
	// Bits 1 and 2 (the two epochs preceding the current one) both
	// justified finalizes the checkpoint they justified.
	if shifted[0]&0b0000_0110 == 0b0000_0110 {
		if err := st.SetFinalizedCheckpoint(st.PreviousJustifiedCheckpoint()); err != nil {
			return err
		}
	}
	log.WithField("slot", st.Slot()).Debug("processed epoch boundary")
	return nil
}
