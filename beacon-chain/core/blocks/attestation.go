package blocks

import (
	beaconstate "github.com/sigmachain/beacon-core/beacon-chain/state"
	"github.com/sigmachain/beacon-core/config/params"
	"github.com/sigmachain/beacon-core/consensus-types/attestation"
	"github.com/sigmachain/beacon-core/consensus-types/primitives"
	"github.com/sigmachain/beacon-core/crypto/bls"
)

// AttestingIndices resolves a's aggregation bitlist to validator indices;
// exported for beacon-chain/blockchain's fork-choice vote bookkeeping.
func AttestingIndices(a attestation.Attestation) []primitives.ValidatorIndex {
	return attestingIndices(a)
}

// attestingIndices resolves an attestation's aggregation bitlist to
// validator indices. A full committee shuffle (as mainnet Ethereum
// computes it) is outside this core's scope; bit i is read as a direct
// index into the validator registry, the simplification recorded in
// DESIGN.md for this package.
func attestingIndices(a attestation.Attestation) []primitives.ValidatorIndex {
	indices := make([]primitives.ValidatorIndex, 0, a.AggregationBits.Len())
	for i := uint64(0); i < a.AggregationBits.Len(); i++ {
		if a.AggregationBits.BitAt(i) {
			indices = append(indices, primitives.ValidatorIndex(i))
		}
	}
	return indices
}

// VerifyAttestation checks a's slot is within the current epoch's
// inclusion window and its aggregate signature verifies against the
// attesting validators' public keys.
func VerifyAttestation(st beaconstate.BeaconState, verifier bls.Verifier, cfg *params.BeaconChainConfig, a attestation.Attestation) error {
	currentSlot := st.Slot()
	if a.Data.Slot > currentSlot || uint64(currentSlot-a.Data.Slot) > cfg.SlotsPerEpoch {
		return ErrAttestationSlotOutOfRange
	}
	indices := attestingIndices(a)
	pubKeys := make([]bls.PublicKey, 0, len(indices))
	for _, idx := range indices {
		v, err := st.ValidatorAtIndexReadOnly(idx)
		if err != nil {
			return ErrProposerIndexOutOfRange
		}
		pubBytes := v.PublicKey()
		pub, err := bls.PublicKeyFromBytes(pubBytes[:])
		if err != nil {
			return err
		}
		pubKeys = append(pubKeys, pub)
	}
	sig, err := bls.SignatureFromBytes(a.Signature[:])
	if err != nil {
		return err
	}
	if !verifier.FastAggregateVerify(pubKeys, a.SigningRoot(), sig) {
		return ErrAttestationSignatureInvalid
	}
	return nil
}

// ProcessAttestations runs VerifyAttestation on every attestation in order
// and returns the first failure; it does not modify st (the fork-choice
// store is updated separately by beacon-chain/blockchain, which owns the
// per-validator vote bookkeeping).
func ProcessAttestations(st beaconstate.BeaconState, verifier bls.Verifier, cfg *params.BeaconChainConfig, atts []attestation.Attestation) error {
	for _, a := range atts {
		if err := VerifyAttestation(st, verifier, cfg, a); err != nil {
			return err
		}
	}
	return nil
}
