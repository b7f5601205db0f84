package blockchain

import (
	"context"
	"testing"

	opblocks "github.com/sigmachain/beacon-core/beacon-chain/core/blocks"
	"github.com/sigmachain/beacon-core/beacon-chain/core/transition"
	beaconstate "github.com/sigmachain/beacon-core/beacon-chain/state"
	"github.com/sigmachain/beacon-core/beacon-chain/state/phase0"
	"github.com/sigmachain/beacon-core/config/params"
	"github.com/sigmachain/beacon-core/consensus-types/attestation"
	consensusblocks "github.com/sigmachain/beacon-core/consensus-types/blocks"
	"github.com/sigmachain/beacon-core/consensus-types/primitives"
	"github.com/sigmachain/beacon-core/crypto/bls"
	"github.com/stretchr/testify/require"
)

// stubVerifier is a crypto/bls.Verifier that always returns ok, letting
// these tests exercise Service's control flow without asserting real
// cryptographic correctness.
type stubVerifier struct{ ok bool }

func (s stubVerifier) VerifyCompressed(bls.PublicKey, []byte, bls.Signature) bool { return s.ok }
func (s stubVerifier) FastAggregateVerify([]bls.PublicKey, [32]byte, bls.Signature) bool {
	return s.ok
}

const farFutureEpoch = ^primitives.Epoch(0)

// genesisWithProposer builds a one-validator genesis state whose sole
// validator key is a real blst keypair (PublicKeyFromBytes/SignatureFromBytes
// require valid curve points even when the verifier itself is stubbed out).
func genesisWithProposer(t *testing.T) (beaconstate.BeaconState, *params.BeaconChainConfig, bls.SecretKey) {
	t.Helper()
	cfg := params.MinimalConfig()
	sk, err := bls.RandKey()
	require.NoError(t, err)

	s, err := phase0.NewGenesis(cfg, 0, [32]byte{}, beaconstate.Eth1Data{})
	require.NoError(t, err)
	var pub [48]byte
	copy(pub[:], sk.PublicKey().Marshal())
	v := &beaconstate.Validator{
		PublicKey:         pub,
		EffectiveBalance:  cfg.MaxEffectiveBalance,
		ExitEpoch:         farFutureEpoch,
		WithdrawableEpoch: farFutureEpoch,
	}
	require.NoError(t, s.AppendValidator(v))
	require.NoError(t, s.AppendBalance(cfg.MaxEffectiveBalance))
	return s, cfg, sk
}

func limits(cfg *params.BeaconChainConfig) consensusblocks.Limits {
	return limitsFromConfig(cfg)
}

func TestOnBlock_AppliesEmptyBlockAndUpdatesHead(t *testing.T) {
	ctx := context.Background()
	genesis, cfg, sk := genesisWithProposer(t)
	lim := limits(cfg)

	// Independently simulate the exact ProcessSlots + ProcessBlockHeader
	// sequence OnBlock performs, to derive the parent root and expected
	// post-state root for a slot-1 block with an empty body.
	sim, err := transition.ProcessSlots(ctx, genesis, cfg, 1)
	require.NoError(t, err)
	parentRoot := beaconstate.BeaconBlockHeaderSchema.HashTreeRoot(beaconstate.EncodeBlockHeader(sim.LatestBlockHeader()))

	body := consensusblocks.Body{Eth1Data: genesis.Eth1Data()}
	bodyRoot, err := body.HashTreeRoot(lim)
	require.NoError(t, err)

	blk := consensusblocks.Block{Slot: 1, ProposerIndex: 0, ParentRoot: parentRoot, Body: body}

	require.NoError(t, opblocks.ProcessBlockHeader(sim, blk, bodyRoot))
	expectedStateRoot, err := sim.HashTreeRoot()
	require.NoError(t, err)
	blk.StateRoot = expectedStateRoot

	sig := sk.Sign(bodyRoot[:])
	signed := consensusblocks.SignedBlock{Block: blk}
	copy(signed.Signature[:], sig.Marshal())

	svc := New(cfg, stubVerifier{ok: true}, parentRoot, genesis)
	blockRoot, err := svc.OnBlock(ctx, signed)
	require.NoError(t, err)

	st, ok := svc.StateByRoot(blockRoot)
	require.True(t, ok)
	require.Equal(t, primitives.Slot(1), st.Slot())
	require.Equal(t, blockRoot, svc.HeadRoot())
}

func TestOnBlock_RejectsUnknownParent(t *testing.T) {
	ctx := context.Background()
	genesis, cfg, _ := genesisWithProposer(t)
	svc := New(cfg, stubVerifier{ok: true}, [32]byte{1}, genesis)

	blk := consensusblocks.Block{Slot: 1, ParentRoot: [32]byte{99}}
	_, err := svc.OnBlock(ctx, consensusblocks.SignedBlock{Block: blk})
	require.ErrorIs(t, err, ErrUnknownParent)
}

func TestOnBlock_RejectsBlockAtOrBeforeFinalizedSlot(t *testing.T) {
	ctx := context.Background()
	genesis, cfg, _ := genesisWithProposer(t)
	svc := New(cfg, stubVerifier{ok: true}, [32]byte{1}, genesis)
	svc.finalizedCheckpoint = beaconstate.Checkpoint{Epoch: 5}

	blk := consensusblocks.Block{Slot: primitives.Slot(cfg.SlotsPerEpoch * 5), ParentRoot: [32]byte{1}}
	_, err := svc.OnBlock(ctx, consensusblocks.SignedBlock{Block: blk})
	require.ErrorIs(t, err, ErrBlockFromFinalizedEpoch)
}

func TestOnAttestation_RejectsFarFutureEpoch(t *testing.T) {
	ctx := context.Background()
	genesis, cfg, _ := genesisWithProposer(t)
	svc := New(cfg, stubVerifier{ok: true}, [32]byte{1}, genesis)

	a := attestation.Attestation{Data: attestation.Data{Target: beaconstate.Checkpoint{Epoch: 100}}}
	err := svc.OnAttestation(ctx, a)
	require.ErrorIs(t, err, ErrAttestationFromFuturePastEpoch)
}
