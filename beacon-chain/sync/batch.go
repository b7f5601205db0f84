package sync

import (
	"github.com/sigmachain/beacon-core/consensus-types/blocks"
	"github.com/sigmachain/beacon-core/consensus-types/primitives"
)

// batchState tracks a Batch through its lifecycle: allocated but not yet
// sent, awaiting a peer's response, validated and confirmed by an adjacent
// batch, or contested between two disagreeing peers.
type batchState int

const (
	batchAwaiting batchState = iota
	batchEmpty
	batchComplete
	batchContested
	batchFailed
)

func (s batchState) String() string {
	switch s {
	case batchAwaiting:
		return "awaiting"
	case batchEmpty:
		return "empty"
	case batchComplete:
		return "complete"
	case batchContested:
		return "contested"
	case batchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Batch is a contiguous slot range requested from a single peer at a time,
// the unit of work a sync session hands to its worker pool. StartSlot,
// Count, and Step mirror a BlocksByRangeRequest; Blocks holds the peer's
// response once received and validated.
type Batch struct {
	StartSlot primitives.Slot
	Count     uint64
	Step      uint64

	Blocks []blocks.SignedBlock
	state  batchState

	servedBy       Peer
	firstConfirmed bool
	lastConfirmed  bool
}

// NewBatch allocates a Batch spanning [start, start+count*step).
func NewBatch(start primitives.Slot, count, step uint64) *Batch {
	return &Batch{StartSlot: start, Count: count, Step: step, state: batchAwaiting}
}

// EndSlot returns the first slot past this batch's requested range.
func (b *Batch) EndSlot() primitives.Slot {
	return b.StartSlot + primitives.Slot(b.Count*b.Step)
}

// validate checks a peer's response against the batch protocol's ordering
// rules: every block falls within [StartSlot, EndSlot), its offset from
// StartSlot is a multiple of Step, slots strictly increase block to block,
// and (when Step == 1) each block's parent root chains to the previous
// block's root. A violation returns ErrOutOfOrder.
func (b *Batch) validate(blockRoot func(blocks.SignedBlock) [32]byte) error {
	var prevSlot primitives.Slot
	var prevRoot [32]byte
	for i, blk := range b.Blocks {
		slot := blk.Block.Slot
		if slot < b.StartSlot || slot >= b.EndSlot() {
			return ErrOutOfOrder
		}
		if b.Step != 0 && uint64(slot-b.StartSlot)%b.Step != 0 {
			return ErrOutOfOrder
		}
		if i > 0 {
			if slot <= prevSlot {
				return ErrOutOfOrder
			}
			if b.Step == 1 && blk.Block.ParentRoot != prevRoot {
				return ErrOutOfOrder
			}
		}
		prevSlot = slot
		prevRoot = blockRoot(blk)
	}
	return nil
}

// firstParentRoot returns the parent root the batch's first block must chain
// from, and ok is false when the batch is empty.
func (b *Batch) firstParentRoot() (root [32]byte, ok bool) {
	if len(b.Blocks) == 0 {
		return [32]byte{}, false
	}
	return b.Blocks[0].Block.ParentRoot, true
}

// lastRoot returns the root of the batch's last block, used to confirm the
// next batch's parent-root chaining. ok is false when the batch is empty.
func (b *Batch) lastRoot(blockRoot func(blocks.SignedBlock) [32]byte) (root [32]byte, ok bool) {
	if len(b.Blocks) == 0 {
		return [32]byte{}, false
	}
	return blockRoot(b.Blocks[len(b.Blocks)-1]), true
}

// confirmAdjacent cross-checks b against its immediate chain neighbors:
// prev's last block root (if any) must equal b's first block's parent
// root, and b's last block root (if any) must equal next's first block's
// parent root. Each side independently marks b.firstConfirmed /
// b.lastConfirmed; a mismatch marks the batch contested rather than
// failing it outright, since either batch could be the one at fault.
func (b *Batch) confirmAdjacent(prev, next *Batch, blockRoot func(blocks.SignedBlock) [32]byte) {
	if prev != nil {
		prevLast, prevOK := prev.lastRoot(blockRoot)
		firstParent, curOK := b.firstParentRoot()
		if prevOK && curOK {
			if prevLast == firstParent {
				b.firstConfirmed = true
			} else {
				b.state = batchContested
				prev.state = batchContested
			}
		}
	}
	if next != nil {
		curLast, curOK := b.lastRoot(blockRoot)
		nextFirst, nextOK := next.firstParentRoot()
		if curOK && nextOK {
			if curLast == nextFirst {
				b.lastConfirmed = true
			} else {
				b.state = batchContested
				next.state = batchContested
			}
		}
	}
}
