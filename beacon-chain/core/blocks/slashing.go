package blocks

import (
	beaconstate "github.com/sigmachain/beacon-core/beacon-chain/state"
	"github.com/sigmachain/beacon-core/config/params"
	"github.com/sigmachain/beacon-core/consensus-types/primitives"
)

// slashValidator marks the validator at idx as slashed and schedules its
// withdrawal, the common effect of both ProcessProposerSlashings and
// ProcessAttesterSlashings. It is a no-op on a validator already slashed.
func slashValidator(st beaconstate.BeaconState, idx primitives.ValidatorIndex, currentEpoch primitives.Epoch, cfg *params.BeaconChainConfig) error {
	v, err := st.ValidatorAtIndex(idx)
	if err != nil {
		return err
	}
	if v.Slashed {
		return nil
	}
	withdrawable := currentEpoch.Add(cfg.MinValidatorWithdrawabilityDelay)
	if v.WithdrawableEpoch > withdrawable {
		withdrawable = v.WithdrawableEpoch
	}
	clone := *v
	clone.Slashed = true
	clone.WithdrawableEpoch = withdrawable
	if clone.ExitEpoch > currentEpoch {
		// leave a future exit epoch untouched; otherwise exit immediately.
	} else {
		clone.ExitEpoch = currentEpoch
	}
	return st.UpdateValidatorAtIndex(idx, &clone)
}
