// Package blocks applies a signed block's body operations — proposer
// slashings, attester slashings, attestations, deposits and voluntary
// exits — against a BeaconState, one operation kind at a time, in the
// order the state-transition driver (beacon-chain/blockchain) invokes them.
package blocks

import "github.com/pkg/errors"

var (
	// ErrHeaderSlotMismatch is returned by ProcessBlockHeader when the
	// block's slot does not match the state it is being applied to.
	ErrHeaderSlotMismatch = errors.New("block slot does not match state slot")
	// ErrHeaderParentMismatch is returned when a block's parent root does
	// not match the state's latest block header.
	ErrHeaderParentMismatch = errors.New("block parent root does not match latest block header")
	// ErrProposerIndexOutOfRange is returned when a block names a proposer
	// index with no corresponding validator.
	ErrProposerIndexOutOfRange = errors.New("proposer index out of range")
	ErrProposerSlashed         = errors.New("proposer is already slashed")

	ErrSlashingHeaderSlotMismatch = errors.New("proposer slashing headers reference different slots")
	ErrSlashingProposerMismatch  = errors.New("proposer slashing headers reference different proposers")
	ErrSlashingHeadersIdentical  = errors.New("proposer slashing headers are identical")
	ErrSlashingSignatureInvalid  = errors.New("proposer slashing header signature invalid")
	ErrValidatorNotSlashable     = errors.New("validator not slashable")

	ErrAttestationsNotSlashable = errors.New("attester slashing attestations are not slashable")
	ErrNoSlashableAttester      = errors.New("attester slashing names no validator attesting in both attestations")
	ErrIndexedAttestationInvalid = errors.New("indexed attestation signature invalid")

	ErrAttestationSignatureInvalid = errors.New("attestation aggregate signature invalid")
	ErrAttestationSlotOutOfRange   = errors.New("attestation slot outside inclusion window")

	ErrDepositMerkleBranchInvalid = errors.New("deposit merkle branch does not verify against eth1 deposit root")

	ErrExitValidatorNotActive       = errors.New("voluntary exit validator is not active")
	ErrExitAlreadyExited            = errors.New("voluntary exit validator has already exited")
	ErrExitEpochInFuture            = errors.New("voluntary exit epoch is in the future")
	ErrExitNotActiveLongEnough      = errors.New("voluntary exit validator has not been active long enough")
	ErrExitSignatureInvalid         = errors.New("voluntary exit signature invalid")
)
