package sync

import (
	"context"

	"github.com/sigmachain/beacon-core/consensus-types/blocks"
	"github.com/sigmachain/beacon-core/network/p2ptypes"
)

// Peer is the transport-independent surface a sync session needs from a
// connected peer. A concrete libp2p (or any other) transport implements
// this against its own stream/codec plumbing; this package never touches a
// wire socket directly.
type Peer interface {
	// ID uniquely names this peer for scoring and downgrade bookkeeping.
	ID() string

	// Status returns the peer's last-known handshake status.
	Status() p2ptypes.Status

	// BlocksByRange requests req and returns the blocks the peer served,
	// in the order received on the chunked response stream.
	BlocksByRange(ctx context.Context, req p2ptypes.BlocksByRangeRequest) ([]blocks.SignedBlock, error)

	// Goodbye notifies the peer it is being disconnected and why.
	Goodbye(ctx context.Context, reason p2ptypes.GoodbyeCode) error
}

// PeerSet selects and scores candidate peers for batch scheduling.
type PeerSet interface {
	// Connected returns every currently connected peer.
	Connected() []Peer

	// Downgrade lowers peer's score after it serves an invalid or
	// out-of-order batch, making it a lower-priority pick for future
	// batches.
	Downgrade(peer Peer)
}
