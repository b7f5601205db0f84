// Package sync implements the multi-peer block sync pipeline: a
// Session allocates contiguous slot-range batches spanning the gap
// between the local finalized head and a target peer's reported head,
// fetches each batch from a pool of peers concurrently, cross-confirms
// adjacent batches' parent-root chaining, resolves contested batches with a
// third peer, and feeds completed batches to the chain in order.
package sync

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sigmachain/beacon-core/async/event"
	"github.com/sigmachain/beacon-core/consensus-types/blocks"
	"github.com/sigmachain/beacon-core/consensus-types/primitives"
	"github.com/sigmachain/beacon-core/network/p2ptypes"
)

var log = logrus.WithField("prefix", "sync")

// batchSlots is the slot span requested per batch; it bounds how large a
// single peer's response needs to be held in memory at once.
const batchSlots = 64

// maxSyncRounds bounds how many fetch/confirm/resolve rounds a single Run
// call will attempt before giving up, guarding against a batch stuck
// contested forever (e.g. too few peers to find a tiebreaker).
const maxSyncRounds = 100

// Importer applies an ordered, chained run of blocks to the chain. A
// session only ever calls Import with blocks whose parent-root chaining has
// already been confirmed.
type Importer interface {
	Import(ctx context.Context, signed []blocks.SignedBlock) error
}

// Session drives one round of multi-peer sync from the local head slot up
// to a target head slot, against a pool of peers.
type Session struct {
	peers    PeerSet
	importer Importer
	rootOf   blockRootFunc

	// imported is fed completed, chained batches in slot order, one send
	// per batch; consumers observing sync progress subscribe here rather
	// than polling the importer.
	imported event.Feed
}

// NewSession builds a Session over the given peer set, block importer, and
// block-root function.
func NewSession(peers PeerSet, importer Importer, rootOf blockRootFunc) *Session {
	return &Session{peers: peers, importer: importer, rootOf: rootOf}
}

// Imported returns the feed of batches this session has imported, in slot
// order.
func (s *Session) Imported() *event.Feed {
	return &s.imported
}

// Run syncs from headSlot (exclusive) up to targetSlot (inclusive),
// allocating batches of batchSlots, fetching them from the connected peer
// pool, confirming adjacent chaining, resolving contested batches, and
// importing completed batches in order. It returns the new head slot
// reached, which may fall short of targetSlot if peers run out mid-sync.
func (s *Session) Run(ctx context.Context, headSlot, targetSlot primitives.Slot) (primitives.Slot, error) {
	if targetSlot <= headSlot {
		return headSlot, nil
	}

	batches := allocateBatches(headSlot, targetSlot)
	newHead := headSlot

	for round := 0; len(batches) > 0; round++ {
		if round >= maxSyncRounds {
			return newHead, errors.Errorf("sync: gave up after %d rounds with %d batches unresolved", round, len(batches))
		}

		peers := s.peers.Connected()
		if len(peers) == 0 {
			return newHead, ErrNoPeers
		}

		pending := needsFetch(batches)
		if len(pending) > 0 {
			if err := fetchBatches(ctx, pending, peers, s.peers, s.rootOf); err != nil {
				return newHead, err
			}
		}

		s.confirmChain(batches)

		if err := s.resolveContested(ctx, batches); err != nil {
			return newHead, err
		}

		imported, consumed, err := s.importReady(ctx, batches)
		if err != nil {
			return newHead, err
		}
		if imported > newHead {
			newHead = imported
		}

		// Batches already imported (or empty) drop off the front; any
		// batch still failed or contested is reset to awaiting and
		// retried next round against a (hopefully) different peer.
		batches = batches[consumed:]
		resetForRetry(batches)
	}

	return newHead, nil
}

// needsFetch returns the batches in batches that have not yet been
// successfully fetched this round.
func needsFetch(batches []*Batch) []*Batch {
	var out []*Batch
	for _, b := range batches {
		if b.state == batchAwaiting {
			out = append(out, b)
		}
	}
	return out
}

// resetForRetry resets every failed or still-contested batch back to
// batchAwaiting so the next round's fetch picks it up again.
func resetForRetry(batches []*Batch) {
	for _, b := range batches {
		if b.state == batchFailed || b.state == batchContested {
			b.state = batchAwaiting
			b.servedBy = nil
		}
	}
}

// allocateBatches splits (headSlot, targetSlot] into contiguous
// batchSlots-sized Batches.
func allocateBatches(headSlot, targetSlot primitives.Slot) []*Batch {
	var out []*Batch
	for start := headSlot + 1; start <= targetSlot; start += batchSlots {
		remaining := uint64(targetSlot-start) + 1
		count := uint64(batchSlots)
		if remaining < count {
			count = remaining
		}
		out = append(out, NewBatch(start, count, 1))
	}
	return out
}

// confirmChain cross-checks every adjacent pair of batches' parent-root
// chaining, marking contested batches for third-peer resolution.
func (s *Session) confirmChain(batches []*Batch) {
	for i, b := range batches {
		var prev, next *Batch
		if i > 0 {
			prev = batches[i-1]
		}
		if i+1 < len(batches) {
			next = batches[i+1]
		}
		b.confirmAdjacent(prev, next, s.rootOf)
	}
}

// resolveContested re-fetches every contested batch from a third peer (one
// that did not originally serve it) and compares the two responses,
// mutating each contested batch in place to either batchComplete (settled)
// or left batchContested for another round if no third peer is available
// yet.
func (s *Session) resolveContested(ctx context.Context, batches []*Batch) error {
	for _, b := range batches {
		if b.state != batchContested {
			continue
		}

		third := s.thirdPeer(b.servedBy)
		if third == nil {
			continue // stays contested, retried next round
		}

		tiebreak := NewBatch(b.StartSlot, b.Count, b.Step)
		fetchOne(ctx, tiebreak, third, s.peers, s.rootOf)
		if tiebreak.state != batchComplete && tiebreak.state != batchEmpty {
			continue
		}

		if batchRootsEqual(b, tiebreak, s.rootOf) {
			b.state = tiebreak.state
			b.firstConfirmed = true
			b.lastConfirmed = true
			continue
		}

		// third peer disagrees with the original: trust the
		// tiebreaker and downgrade the original's source.
		servedBy := b.servedBy
		*b = *tiebreak
		if servedBy != nil {
			s.peers.Downgrade(servedBy)
		}
	}
	return nil
}

// thirdPeer returns a connected peer other than exclude, or nil if none
// remains.
func (s *Session) thirdPeer(exclude Peer) Peer {
	for _, p := range s.peers.Connected() {
		if exclude == nil || p.ID() != exclude.ID() {
			return p
		}
	}
	return nil
}

// batchRootsEqual reports whether a and b carry the same block roots in
// the same order.
func batchRootsEqual(a, b *Batch, rootOf blockRootFunc) bool {
	if len(a.Blocks) != len(b.Blocks) {
		return false
	}
	for i := range a.Blocks {
		if rootOf(a.Blocks[i]) != rootOf(b.Blocks[i]) {
			return false
		}
	}
	return true
}

// importReady imports every complete or empty batch from the front of
// batches (already in ascending slot order from allocateBatches) up to the
// first batch still awaiting, failed, or contested. It returns the highest
// slot imported and how many leading batches were consumed (imported or
// skipped as empty) so the caller can drop them from further retries.
func (s *Session) importReady(ctx context.Context, batches []*Batch) (primitives.Slot, int, error) {
	var head primitives.Slot
	consumed := 0
	for _, b := range batches {
		if b.state != batchComplete && b.state != batchEmpty {
			break
		}
		consumed++
		if len(b.Blocks) == 0 {
			continue
		}
		if err := s.importer.Import(ctx, b.Blocks); err != nil {
			return head, consumed, errors.Wrapf(err, "import batch starting at slot %d", b.StartSlot)
		}
		s.imported.Send(b)
		head = b.Blocks[len(b.Blocks)-1].Block.Slot
	}
	return head, consumed, nil
}

// CheckFalseCompletion reports ErrFalseCompletionClaim when a peer's
// status-byte response claims success (p2ptypes.ResponseCodeSuccess) for a
// batch whose returned block count falls short of what the batch
// requested, per the batch protocol's completion-claim rule.
func CheckFalseCompletion(code p2ptypes.ResponseCode, b *Batch) error {
	if code == p2ptypes.ResponseCodeSuccess && uint64(len(b.Blocks)) < b.Count && b.state != batchEmpty {
		return ErrFalseCompletionClaim
	}
	return nil
}
