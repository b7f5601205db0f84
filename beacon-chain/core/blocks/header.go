package blocks

import (
	beaconstate "github.com/sigmachain/beacon-core/beacon-chain/state"
	consensusblocks "github.com/sigmachain/beacon-core/consensus-types/blocks"
)

// ProcessBlockHeader validates blk against st's current slot and latest
// block header, then caches a new latest block header with a zeroed
// state root (filled in by the next ProcessSlot call, matching the
// teacher's deferred state-root caching idiom).
func ProcessBlockHeader(st beaconstate.BeaconState, blk consensusblocks.Block, bodyRoot [32]byte) error {
	if blk.Slot != st.Slot() {
		return ErrHeaderSlotMismatch
	}
	parentHeaderRoot := beaconstate.BeaconBlockHeaderSchema.HashTreeRoot(beaconstate.EncodeBlockHeader(st.LatestBlockHeader()))
	if blk.ParentRoot != parentHeaderRoot {
		return ErrHeaderParentMismatch
	}
	proposer, err := st.ValidatorAtIndexReadOnly(blk.ProposerIndex)
	if err != nil {
		return ErrProposerIndexOutOfRange
	}
	if proposer.Slashed() {
		return ErrProposerSlashed
	}
	return st.SetLatestBlockHeader(beaconstate.BeaconBlockHeader{
		Slot:          blk.Slot,
		ProposerIndex: blk.ProposerIndex,
		ParentRoot:    blk.ParentRoot,
		StateRoot:     [32]byte{},
		BodyRoot:      bodyRoot,
	})
}
