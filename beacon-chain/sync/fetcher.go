package sync

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sigmachain/beacon-core/consensus-types/blocks"
	"github.com/sigmachain/beacon-core/network/p2ptypes"
)

// maxConcurrentFetches bounds how many batches are in flight at once,
// keeping one slow or hostile peer from starving
// the rest of the pipeline.
const maxConcurrentFetches = 8

// blockRootFunc computes a signed block's canonical root, used to check
// parent-root chaining between consecutive blocks and batches.
type blockRootFunc func(blocks.SignedBlock) [32]byte

// fetchBatches dispatches one BlocksByRange request per batch across the
// given peers, running up to maxConcurrentFetches requests concurrently.
// Batches are assigned to peers round-robin (batch i goes to
// peers[i%len(peers)]), so with more batches than peers one peer serves
// several batches in the same call.
// Batches are validated as their responses arrive; a peer that serves an
// out-of-order batch is downgraded and its batch is marked failed rather
// than aborting the whole call.
func fetchBatches(ctx context.Context, batches []*Batch, peers []Peer, peerSet PeerSet, rootOf blockRootFunc) error {
	if len(peers) == 0 {
		return ErrNoPeers
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for i, batch := range batches {
		i, batch := i, batch
		peer := peers[i%len(peers)]
		g.Go(func() error {
			fetchOne(ctx, batch, peer, peerSet, rootOf)
			return nil
		})
	}
	return g.Wait()
}

// fetchOne requests batch's range from peer, validates the response, and
// records the result on batch. A validation failure downgrades peer and
// marks the batch failed; it never returns an error, so one bad peer
// doesn't cancel sibling fetches running under the same errgroup.
func fetchOne(ctx context.Context, batch *Batch, peer Peer, peerSet PeerSet, rootOf blockRootFunc) {
	req := p2ptypes.BlocksByRangeRequest{
		StartSlot: batch.StartSlot,
		Count:     batch.Count,
		Step:      batch.Step,
	}
	resp, err := peer.BlocksByRange(ctx, req)
	if err != nil {
		log.WithError(err).WithField("peer", peer.ID()).WithField("startSlot", batch.StartSlot).
			Debug("Batch request failed")
		batch.state = batchFailed
		return
	}

	batch.Blocks = resp
	batch.servedBy = peer

	if len(resp) == 0 {
		batch.state = batchEmpty
		return
	}

	if err := batch.validate(rootOf); err != nil {
		log.WithField("peer", peer.ID()).WithField("startSlot", batch.StartSlot).
			Warn("Peer served out-of-order batch, downgrading")
		peerSet.Downgrade(peer)
		batch.state = batchFailed
		return
	}
	batch.state = batchComplete
}
