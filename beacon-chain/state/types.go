// Package state defines the version-independent BeaconState capability
// interface and the plain value types (Fork, Checkpoint, Eth1Data,
// BeaconBlockHeader, Validator) shared by the phase0 and altair state
// implementations in its subpackages.
package state

import (
	"github.com/sigmachain/beacon-core/consensus-types/primitives"
)

// Fork records the previous and current fork versions and the epoch of the
// most recent fork.
type Fork struct {
	PreviousVersion [4]byte
	CurrentVersion  [4]byte
	Epoch           primitives.Epoch
}

// Checkpoint is a (epoch, root) consensus landmark.
type Checkpoint struct {
	Epoch primitives.Epoch
	Root  [32]byte
}

// Eth1Data summarizes the deposit contract state as observed by the
// execution layer.
type Eth1Data struct {
	DepositRoot  [32]byte
	DepositCount uint64
	BlockHash    [32]byte
}

// BeaconBlockHeader is the compact block header BeaconState tracks for the
// latest processed block.
type BeaconBlockHeader struct {
	Slot          primitives.Slot
	ProposerIndex primitives.ValidatorIndex
	ParentRoot    [32]byte
	StateRoot     [32]byte
	BodyRoot      [32]byte
}

// Validator is a single registry entry.
type Validator struct {
	PublicKey                  [48]byte
	WithdrawalCredentials      [32]byte
	EffectiveBalance           uint64
	Slashed                    bool
	ActivationEligibilityEpoch primitives.Epoch
	ActivationEpoch            primitives.Epoch
	ExitEpoch                  primitives.Epoch
	WithdrawableEpoch          primitives.Epoch
}

// ReadOnlyValidator wraps a Validator so callers cannot mutate registry
// entries through an accessor reference.
type ReadOnlyValidator struct {
	validator *Validator
}

// NewReadOnlyValidator wraps v for read-only access.
func NewReadOnlyValidator(v *Validator) ReadOnlyValidator {
	return ReadOnlyValidator{validator: v}
}

// IsNil reports whether the wrapped validator is absent.
func (v ReadOnlyValidator) IsNil() bool { return v.validator == nil }

// EffectiveBalance returns the validator's effective balance.
func (v ReadOnlyValidator) EffectiveBalance() uint64 {
	if v.IsNil() {
		return 0
	}
	return v.validator.EffectiveBalance
}

// ActivationEligibilityEpoch returns the validator's activation eligibility epoch.
func (v ReadOnlyValidator) ActivationEligibilityEpoch() primitives.Epoch {
	if v.IsNil() {
		return 0
	}
	return v.validator.ActivationEligibilityEpoch
}

// ActivationEpoch returns the validator's activation epoch.
func (v ReadOnlyValidator) ActivationEpoch() primitives.Epoch {
	if v.IsNil() {
		return 0
	}
	return v.validator.ActivationEpoch
}

// ExitEpoch returns the validator's exit epoch.
func (v ReadOnlyValidator) ExitEpoch() primitives.Epoch {
	if v.IsNil() {
		return 0
	}
	return v.validator.ExitEpoch
}

// WithdrawableEpoch returns the validator's withdrawable epoch.
func (v ReadOnlyValidator) WithdrawableEpoch() primitives.Epoch {
	if v.IsNil() {
		return 0
	}
	return v.validator.WithdrawableEpoch
}

// PublicKey returns the validator's BLS public key.
func (v ReadOnlyValidator) PublicKey() [48]byte {
	if v.IsNil() {
		return [48]byte{}
	}
	return v.validator.PublicKey
}

// WithdrawalCredentials returns a copy of the validator's withdrawal credentials.
func (v ReadOnlyValidator) WithdrawalCredentials() [32]byte {
	if v.IsNil() {
		return [32]byte{}
	}
	return v.validator.WithdrawalCredentials
}

// Slashed reports whether the validator has been slashed.
func (v ReadOnlyValidator) Slashed() bool {
	if v.IsNil() {
		return false
	}
	return v.validator.Slashed
}

// BeaconState is the capability set shared by every fork's state
// implementation: the accessors named in spec.md's BeaconState field list,
// plus HashTreeRoot, Copy and the atomic Update builder. Version-specific
// fields (Phase 0's attestation lists, Altair's participation lists) are
// reachable only through the version-specific concrete types.
type BeaconState interface {
	GenesisTime() uint64
	GenesisValidatorsRoot() [32]byte
	Slot() primitives.Slot
	SetSlot(primitives.Slot) error
	Fork() Fork
	LatestBlockHeader() BeaconBlockHeader
	SetLatestBlockHeader(BeaconBlockHeader) error
	BlockRoots() [][32]byte
	BlockRootAtIndex(uint64) ([32]byte, error)
	SetBlockRootAtIndex(uint64, [32]byte) error
	StateRoots() [][32]byte
	SetStateRootAtIndex(uint64, [32]byte) error
	HistoricalRoots() [][32]byte
	AppendHistoricalRoot([32]byte) error
	Eth1Data() Eth1Data
	SetEth1Data(Eth1Data) error
	Eth1DataVotes() []Eth1Data
	AppendEth1DataVote(Eth1Data) error
	Eth1DepositIndex() uint64
	SetEth1DepositIndex(uint64) error
	Validators() []*Validator
	ValidatorAtIndex(primitives.ValidatorIndex) (*Validator, error)
	ValidatorAtIndexReadOnly(primitives.ValidatorIndex) (ReadOnlyValidator, error)
	ValidatorIndexByPubkey([48]byte) (primitives.ValidatorIndex, bool)
	NumValidators() int
	AppendValidator(*Validator) error
	UpdateValidatorAtIndex(primitives.ValidatorIndex, *Validator) error
	Balances() []uint64
	BalanceAtIndex(primitives.ValidatorIndex) (uint64, error)
	SetBalanceAtIndex(primitives.ValidatorIndex, uint64) error
	AppendBalance(uint64) error
	RandaoMixes() [][32]byte
	RandaoMixAtIndex(uint64) ([32]byte, error)
	SetRandaoMixAtIndex(uint64, [32]byte) error
	Slashings() []uint64
	SetSlashingAtIndex(uint64, uint64) error
	JustificationBits() [1]byte
	SetJustificationBits([1]byte) error
	PreviousJustifiedCheckpoint() Checkpoint
	SetPreviousJustifiedCheckpoint(Checkpoint) error
	CurrentJustifiedCheckpoint() Checkpoint
	SetCurrentJustifiedCheckpoint(Checkpoint) error
	FinalizedCheckpoint() Checkpoint
	SetFinalizedCheckpoint(Checkpoint) error
	HashTreeRoot() ([32]byte, error)
	Copy() BeaconState
}
