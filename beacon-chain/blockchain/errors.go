package blockchain

import "github.com/pkg/errors"

var (
	// ErrBlockFromFinalizedEpoch is returned by OnBlock when a block's slot
	// does not come after the store's finalized checkpoint.
	ErrBlockFromFinalizedEpoch = errors.New("block slot not after finalized checkpoint slot")
	// ErrUnknownParent is returned when a block's parent root names a
	// state this Service has not stored; recoverable, the caller should
	// queue the block until the parent arrives.
	ErrUnknownParent = errors.New("unknown parent root")
	// ErrInvalidSignature is returned when a block's proposer signature
	// fails BLS verification.
	ErrInvalidSignature = errors.New("block signature invalid")
	// ErrStateRootMismatch is returned when the state root computed by
	// applying a block does not match the root the block claims.
	ErrStateRootMismatch = errors.New("computed state root does not match block")
	// ErrAttestationFromFuturePastEpoch is returned when an attestation's
	// target epoch falls outside [current_epoch-1, current_epoch+1].
	ErrAttestationFromFuturePastEpoch = errors.New("attestation target epoch outside current epoch window")
	// ErrAttestationSignatureInvalid is returned when an attestation's
	// aggregate BLS signature fails verification.
	ErrAttestationSignatureInvalid = errors.New("attestation signature invalid")
)

// OperationInvalid reports that applying a block body operation failed
// during OnBlock's state-transition step, naming the operation kind
// (proposer_slashing, attester_slashing, attestation, deposit,
// voluntary_exit) and the underlying verification error.
type OperationInvalid struct {
	Kind   string
	Reason error
}

func (e *OperationInvalid) Error() string {
	return "invalid " + e.Kind + " operation: " + e.Reason.Error()
}

func (e *OperationInvalid) Unwrap() error { return e.Reason }

// invalidBlock marks an error as having failed OnBlock's consensus-invalid
// path (the first body-operation failure aborts the block), so
// IsInvalidBlock can recognize it through any number of errors.Wrap calls.
type invalidBlock struct {
	error
}

func (i invalidBlock) Unwrap() error { return i.error }

// IsInvalidBlock reports whether err (or anything it wraps) was marked
// consensus-invalid by OnBlock.
func IsInvalidBlock(err error) bool {
	var invalid invalidBlock
	return errors.As(err, &invalid)
}
