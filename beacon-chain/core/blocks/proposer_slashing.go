package blocks

import (
	beaconstate "github.com/sigmachain/beacon-core/beacon-chain/state"
	"github.com/sigmachain/beacon-core/config/params"
	consensusblocks "github.com/sigmachain/beacon-core/consensus-types/blocks"
	"github.com/sigmachain/beacon-core/consensus-types/primitives"
	"github.com/sigmachain/beacon-core/crypto/bls"
)

// VerifyProposerSlashing checks the structural slashing condition (two
// differing, signed headers for the same slot and proposer) and both
// headers' BLS signatures, without touching state.
func VerifyProposerSlashing(st beaconstate.BeaconState, verifier bls.Verifier, ps consensusblocks.ProposerSlashing) error {
	h1, h2 := ps.Header1.Header, ps.Header2.Header
	if h1.Slot != h2.Slot {
		return ErrSlashingHeaderSlotMismatch
	}
	if h1.ProposerIndex != h2.ProposerIndex {
		return ErrSlashingProposerMismatch
	}
	if h1 == h2 {
		return ErrSlashingHeadersIdentical
	}
	proposer, err := st.ValidatorAtIndexReadOnly(h1.ProposerIndex)
	if err != nil {
		return ErrProposerIndexOutOfRange
	}
	pubBytes := proposer.PublicKey()
	pub, err := bls.PublicKeyFromBytes(pubBytes[:])
	if err != nil {
		return err
	}
	for _, signed := range []consensusblocks.SignedBeaconBlockHeader{ps.Header1, ps.Header2} {
		sig, err := bls.SignatureFromBytes(signed.Signature[:])
		if err != nil {
			return err
		}
		root := beaconstate.BeaconBlockHeaderSchema.HashTreeRoot(beaconstate.EncodeBlockHeader(signed.Header))
		if !verifier.VerifyCompressed(pub, root[:], sig) {
			return ErrSlashingSignatureInvalid
		}
	}
	return nil
}

// ProcessProposerSlashings verifies and applies each slashing in order,
// returning the first verification failure.
func ProcessProposerSlashings(st beaconstate.BeaconState, verifier bls.Verifier, cfg *params.BeaconChainConfig, currentEpoch primitives.Epoch, slashings []consensusblocks.ProposerSlashing) error {
	for _, ps := range slashings {
		if err := VerifyProposerSlashing(st, verifier, ps); err != nil {
			return err
		}
		proposer, err := st.ValidatorAtIndexReadOnly(ps.Header1.Header.ProposerIndex)
		if err != nil {
			return ErrProposerIndexOutOfRange
		}
		if proposer.Slashed() || proposer.ActivationEpoch() > currentEpoch || proposer.ExitEpoch() <= currentEpoch {
			return ErrValidatorNotSlashable
		}
		if err := slashValidator(st, ps.Header1.Header.ProposerIndex, currentEpoch, cfg); err != nil {
			return err
		}
	}
	return nil
}
