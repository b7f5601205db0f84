package sync

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sigmachain/beacon-core/consensus-types/blocks"
	"github.com/sigmachain/beacon-core/consensus-types/primitives"
	"github.com/sigmachain/beacon-core/network/p2ptypes"
)

// chainedRoots derives a deterministic, chained root per slot so stub peers
// can serve a mutually-consistent chain without needing real SSZ hashing.
func chainedRoots(n int) map[primitives.Slot][32]byte {
	roots := make(map[primitives.Slot][32]byte, n)
	for i := 0; i < n; i++ {
		roots[primitives.Slot(i)] = [32]byte{byte(i + 1)}
	}
	return roots
}

func buildChain(n int, roots map[primitives.Slot][32]byte) []blocks.SignedBlock {
	out := make([]blocks.SignedBlock, 0, n)
	var parent [32]byte
	for i := 0; i < n; i++ {
		slot := primitives.Slot(i)
		out = append(out, blocks.SignedBlock{Block: blocks.Block{Slot: slot, ParentRoot: parent}})
		parent = roots[slot]
	}
	return out
}

type stubPeer struct {
	id     string
	chain  []blocks.SignedBlock
	honest bool
}

func (p *stubPeer) ID() string { return p.id }
func (p *stubPeer) Status() p2ptypes.Status { return p2ptypes.Status{} }
func (p *stubPeer) BlocksByRange(_ context.Context, req p2ptypes.BlocksByRangeRequest) ([]blocks.SignedBlock, error) {
	var out []blocks.SignedBlock
	for _, b := range p.chain {
		if b.Block.Slot < req.StartSlot {
			continue
		}
		if uint64(b.Block.Slot-req.StartSlot) >= req.Count*req.Step {
			break
		}
		if req.Step != 0 && uint64(b.Block.Slot-req.StartSlot)%req.Step != 0 {
			continue
		}
		out = append(out, b)
	}
	if !p.honest && len(out) > 1 {
		out[1].Block.ParentRoot = [32]byte{0xde, 0xad}
	}
	return out, nil
}
func (p *stubPeer) Goodbye(context.Context, p2ptypes.GoodbyeCode) error { return nil }

type stubPeerSet struct {
	mu        sync.Mutex
	peers     []Peer
	downgrade []string
}

func (s *stubPeerSet) Connected() []Peer { return s.peers }
func (s *stubPeerSet) Downgrade(p Peer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downgrade = append(s.downgrade, p.ID())
}

type stubImporter struct {
	mu       sync.Mutex
	imported []blocks.SignedBlock
}

func (s *stubImporter) Import(_ context.Context, signed []blocks.SignedBlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.imported = append(s.imported, signed...)
	return nil
}

func rootOfStub(roots map[primitives.Slot][32]byte) blockRootFunc {
	return func(b blocks.SignedBlock) [32]byte { return roots[b.Block.Slot] }
}

func TestSession_RunReachesTargetSlot(t *testing.T) {
	roots := chainedRoots(200)
	chain := buildChain(200, roots)
	peers := &stubPeerSet{peers: []Peer{
		&stubPeer{id: "a", chain: chain, honest: true},
		&stubPeer{id: "b", chain: chain, honest: true},
		&stubPeer{id: "c", chain: chain, honest: true},
	}}
	importer := &stubImporter{}
	sess := NewSession(peers, importer, rootOfStub(roots))

	head, err := sess.Run(context.Background(), 0, 199)
	require.NoError(t, err)
	require.Equal(t, primitives.Slot(199), head)
	require.Len(t, importer.imported, 199)
}

func TestSession_RunDowngradesDishonestPeer(t *testing.T) {
	roots := chainedRoots(200)
	chain := buildChain(200, roots)
	peers := &stubPeerSet{peers: []Peer{
		&stubPeer{id: "honest", chain: chain, honest: true},
		&stubPeer{id: "liar", chain: chain, honest: false},
	}}
	importer := &stubImporter{}
	sess := NewSession(peers, importer, rootOfStub(roots))

	_, err := sess.Run(context.Background(), 0, 199)
	require.NoError(t, err)
	require.Contains(t, peers.downgrade, "liar")
}

func TestSession_RunNoOpWhenAlreadyAtTarget(t *testing.T) {
	peers := &stubPeerSet{}
	importer := &stubImporter{}
	sess := NewSession(peers, importer, rootOfStub(nil))

	head, err := sess.Run(context.Background(), 10, 10)
	require.NoError(t, err)
	require.Equal(t, primitives.Slot(10), head)
}

func TestAllocateBatches_CoversExactlyTheRequestedSpan(t *testing.T) {
	batches := allocateBatches(0, 199)
	var total uint64
	for _, b := range batches {
		total += b.Count
	}
	require.Equal(t, uint64(199), total)
}
