package blocks

import (
	beaconstate "github.com/sigmachain/beacon-core/beacon-chain/state"
	"github.com/sigmachain/beacon-core/config/params"
	consensusblocks "github.com/sigmachain/beacon-core/consensus-types/blocks"
	"github.com/sigmachain/beacon-core/consensus-types/primitives"
	"github.com/sigmachain/beacon-core/crypto/bls"
)

// ProcessVoluntaryExits verifies and applies each signed voluntary exit
// in order: the named validator must be active, not already exited, the
// exit epoch must not lie in the future, the validator must have been
// active at least ShardCommitteePeriod epochs, and the signature over
// the exit must verify under the validator's public key.
func ProcessVoluntaryExits(st beaconstate.BeaconState, verifier bls.Verifier, cfg *params.BeaconChainConfig, currentEpoch primitives.Epoch, exits []consensusblocks.SignedVoluntaryExit) error {
	for _, se := range exits {
		v, err := st.ValidatorAtIndexReadOnly(se.Exit.ValidatorIndex)
		if err != nil {
			return ErrProposerIndexOutOfRange
		}
		if v.ActivationEpoch() > currentEpoch || currentEpoch >= v.ExitEpoch() {
			return ErrExitValidatorNotActive
		}
		if se.Exit.Epoch > currentEpoch {
			return ErrExitEpochInFuture
		}
		if uint64(currentEpoch-v.ActivationEpoch()) < cfg.ShardCommitteePeriod {
			return ErrExitNotActiveLongEnough
		}
		pubBytes := v.PublicKey()
		pub, err := bls.PublicKeyFromBytes(pubBytes[:])
		if err != nil {
			return err
		}
		sig, err := bls.SignatureFromBytes(se.Signature[:])
		if err != nil {
			return err
		}
		root := exitSigningRoot(se.Exit)
		if !verifier.VerifyCompressed(pub, root[:], sig) {
			return ErrExitSignatureInvalid
		}
		full, err := st.ValidatorAtIndex(se.Exit.ValidatorIndex)
		if err != nil {
			return err
		}
		clone := *full
		clone.ExitEpoch = se.Exit.Epoch
		clone.WithdrawableEpoch = se.Exit.Epoch.Add(cfg.MinValidatorWithdrawabilityDelay)
		if err := st.UpdateValidatorAtIndex(se.Exit.ValidatorIndex, &clone); err != nil {
			return err
		}
	}
	return nil
}

func exitSigningRoot(e consensusblocks.VoluntaryExit) [32]byte {
	return e.HashTreeRoot()
}
