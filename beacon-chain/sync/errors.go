package sync

import "github.com/pkg/errors"

// ErrOutOfOrder marks a batch whose blocks fail slot-range, step-alignment,
// monotonicity, or parent-root chaining validation; the peer that served it
// is downgraded and the batch is retried against another peer.
var ErrOutOfOrder = errors.New("sync: batch blocks are out of order")

// ErrNoPeers is returned when a batch cannot be scheduled because no
// candidate peer remains to serve it.
var ErrNoPeers = errors.New("sync: no peers available to serve batch")

// ErrBatchContested marks two peers' responses for the same batch
// disagreeing on its contents, pending third-peer tiebreaker resolution.
var ErrBatchContested = errors.New("sync: batch responses are contested")

// ErrFalseCompletionClaim is returned by CheckFalseCompletion when a peer
// claims a batch is complete (reports a chunk status of success with no
// further blocks) but the batch's block count falls short of its requested
// range. Session.Run does not call CheckFalseCompletion and sends no
// Goodbye to such a peer.
var ErrFalseCompletionClaim = errors.New("sync: peer falsely claimed batch completion")
