package blocks

import (
	beaconstate "github.com/sigmachain/beacon-core/beacon-chain/state"
	"github.com/sigmachain/beacon-core/config/params"
	"github.com/sigmachain/beacon-core/consensus-types/attestation"
	consensusblocks "github.com/sigmachain/beacon-core/consensus-types/blocks"
	"github.com/sigmachain/beacon-core/consensus-types/primitives"
	"github.com/sigmachain/beacon-core/crypto/bls"
)

// IsSlashableAttestationData reports whether a and b form a slashable
// pair: either a double vote (identical target, different data) or a
// surround vote (one attestation's source/target interval strictly
// contains the other's).
func IsSlashableAttestationData(a, b attestation.Data) bool {
	if a.Equal(b) {
		return false
	}
	doubleVote := a.Target.Epoch == b.Target.Epoch
	surround := (a.Source.Epoch < b.Source.Epoch && b.Target.Epoch < a.Target.Epoch) ||
		(b.Source.Epoch < a.Source.Epoch && a.Target.Epoch < b.Target.Epoch)
	return doubleVote || surround
}

// VerifyIndexedAttestation verifies ia's aggregate BLS signature against
// the attesting validators' public keys in st.
func VerifyIndexedAttestation(st beaconstate.BeaconState, verifier bls.Verifier, ia consensusblocks.AttesterSlashing, which int) error {
	ind := ia.Attestation1
	if which == 2 {
		ind = ia.Attestation2
	}
	pubKeys := make([]bls.PublicKey, 0, len(ind.AttestingIndices))
	for _, idx := range ind.AttestingIndices {
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
	sig, err := bls.SignatureFromBytes(ind.Signature[:])
	if err != nil {
		return err
	}
	if !verifier.FastAggregateVerify(pubKeys, ind.Data.HashTreeRoot(), sig) {
		return ErrIndexedAttestationInvalid
	}
	return nil
}

// ProcessAttesterSlashings verifies each slashing's pair of indexed
// attestations and slashes every validator named in both.
func ProcessAttesterSlashings(st beaconstate.BeaconState, verifier bls.Verifier, cfg *params.BeaconChainConfig, currentEpoch primitives.Epoch, slashings []consensusblocks.AttesterSlashing) error {
	for _, as := range slashings {
		if !IsSlashableAttestationData(as.Attestation1.Data, as.Attestation2.Data) {
			return ErrAttestationsNotSlashable
		}
		if err := VerifyIndexedAttestation(st, verifier, as, 1); err != nil {
			return err
		}
		if err := VerifyIndexedAttestation(st, verifier, as, 2); err != nil {
			return err
		}
		set1 := make(map[primitives.ValidatorIndex]bool, len(as.Attestation1.AttestingIndices))
		for _, idx := range as.Attestation1.AttestingIndices {
			set1[idx] = true
		}
		slashedAny := false
		for _, idx := range as.Attestation2.AttestingIndices {
			if !set1[idx] {
				continue
			}
			v, err := st.ValidatorAtIndexReadOnly(idx)
			if err != nil {
				return ErrProposerIndexOutOfRange
			}
			if v.Slashed() {
				continue
			}
			if err := slashValidator(st, idx, currentEpoch, cfg); err != nil {
				return err
			}
			slashedAny = true
		}
		if !slashedAny {
			return ErrNoSlashableAttester
		}
	}
	return nil
}
