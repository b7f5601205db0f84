package kv

import (
	beaconstate "github.com/sigmachain/beacon-core/beacon-chain/state"
	"github.com/sigmachain/beacon-core/consensus-types/blocks"
)

// BlockCodec converts between a SignedBlock and its persisted bytes. The
// store is agnostic to the wire format (SSZ, or anything else) a caller
// wants on disk; it only needs a stable, round-trippable encoding keyed by
// the block's root.
type BlockCodec interface {
	EncodeBlock(blocks.SignedBlock) ([]byte, error)
	DecodeBlock([]byte) (blocks.SignedBlock, error)
}

// StateCodec converts between a BeaconState and its persisted bytes, the
// same way BlockCodec does for blocks.
type StateCodec interface {
	EncodeState(beaconstate.BeaconState) ([]byte, error)
	DecodeState([]byte) (beaconstate.BeaconState, error)
}
