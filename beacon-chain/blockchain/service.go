// Package blockchain is the state-transition driver: it advances a
// BeaconState across an incoming signed block's body operations
// (OnBlock) and folds attestation votes into the fork-choice store
// (OnAttestation), the two entry points spec.md's §4.E names.
package blockchain

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	beaconstate "github.com/sigmachain/beacon-core/beacon-chain/state"
	opblocks "github.com/sigmachain/beacon-core/beacon-chain/core/blocks"
	"github.com/sigmachain/beacon-core/beacon-chain/core/transition"
	"github.com/sigmachain/beacon-core/beacon-chain/forkchoice/protoarray"
	"github.com/sigmachain/beacon-core/config/params"
	"github.com/sigmachain/beacon-core/consensus-types/attestation"
	consensusblocks "github.com/sigmachain/beacon-core/consensus-types/blocks"
	"github.com/sigmachain/beacon-core/consensus-types/primitives"
	"github.com/sigmachain/beacon-core/crypto/bls"
)

var log = logrus.WithField("prefix", "blockchain")

// Service owns the fork-choice store and the book of states/blocks it
// has accepted, and drives OnBlock/OnAttestation against them. One
// Service instance corresponds to one running chain.
type Service struct {
	mu sync.RWMutex

	cfg      *params.BeaconChainConfig
	limits   consensusblocks.Limits
	verifier bls.Verifier
	fc       *protoarray.ForkChoice

	states map[[32]byte]beaconstate.BeaconState
	blocks map[[32]byte]consensusblocks.SignedBlock

	finalizedCheckpoint beaconstate.Checkpoint
	headRoot            [32]byte
	headSlot            primitives.Slot
}

// limitsFromConfig bundles the block-body list caps a Service applies, derived
// from cfg once at construction.
func limitsFromConfig(cfg *params.BeaconChainConfig) consensusblocks.Limits {
	return consensusblocks.Limits{
		MaxProposerSlashings:      cfg.MaxProposerSlashings,
		MaxAttesterSlashings:      cfg.MaxAttesterSlashings,
		MaxAttestations:           cfg.MaxAttestations,
		MaxDeposits:               cfg.MaxDeposits,
		MaxVoluntaryExits:         cfg.MaxVoluntaryExits,
		MaxValidatorsPerCommittee: cfg.MaxValidatorsPerCommittee,
	}
}

// New builds a Service anchored at genesisRoot/genesisState, with an
// empty protoarray fork-choice store rooted there.
func New(cfg *params.BeaconChainConfig, verifier bls.Verifier, genesisRoot [32]byte, genesisState beaconstate.BeaconState) *Service {
	return &Service{
		cfg:      cfg,
		limits:   limitsFromConfig(cfg),
		verifier: verifier,
		fc:       protoarray.New(0, 0, genesisRoot),
		states:   map[[32]byte]beaconstate.BeaconState{genesisRoot: genesisState},
		blocks:   map[[32]byte]consensusblocks.SignedBlock{},
		headRoot: genesisRoot,
		headSlot: genesisState.Slot(),
	}
}

// ForkChoice returns the Service's fork-choice store, for callers (e.g.
// the sync pipeline) that need Head/JustifiedCheckpoint directly.
func (s *Service) ForkChoice() *protoarray.ForkChoice {
	return s.fc
}

// StateByRoot returns the stored post-state for blockRoot, if any.
func (s *Service) StateByRoot(root [32]byte) (beaconstate.BeaconState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[root]
	return st, ok
}

// OnBlock implements spec.md §4.E's on_block: it loads the pre-state
// named by signed.Block.ParentRoot, advances it to the block's slot,
// verifies the proposer signature, applies the block's body operations
// in the prescribed order, checks the resulting state root, and
// registers the block with the fork-choice store.
func (s *Service) OnBlock(ctx context.Context, signed consensusblocks.SignedBlock) ([32]byte, error) {
	blk := signed.Block

	finalizedSlot := primitives.Slot(s.cfg.EpochStartSlot(uint64(s.finalizedCheckpointEpoch())))
	if blk.Slot <= finalizedSlot {
		return [32]byte{}, ErrBlockFromFinalizedEpoch
	}

	preState, ok := s.StateByRoot(blk.ParentRoot)
	if !ok {
		return [32]byte{}, ErrUnknownParent
	}

	st, err := transition.ProcessSlots(ctx, preState, s.cfg, blk.Slot)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "advance slots")
	}

	proposer, err := st.ValidatorAtIndexReadOnly(blk.ProposerIndex)
	if err != nil {
		return [32]byte{}, invalidBlock{errors.Wrap(err, "proposer index")}
	}
	pubBytes := proposer.PublicKey()
	pub, err := bls.PublicKeyFromBytes(pubBytes[:])
	if err != nil {
		return [32]byte{}, invalidBlock{err}
	}
	sig, err := bls.SignatureFromBytes(signed.Signature[:])
	if err != nil {
		return [32]byte{}, invalidBlock{err}
	}
	blockRoot, err := blk.HashTreeRoot(s.limits)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "block root")
	}
	if !s.verifier.VerifyCompressed(pub, blockRoot[:], sig) {
		return [32]byte{}, invalidBlock{ErrInvalidSignature}
	}

	bodyRoot, err := blk.Body.HashTreeRoot(s.limits)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "body root")
	}
	if err := opblocks.ProcessBlockHeader(st, blk, bodyRoot); err != nil {
		return [32]byte{}, invalidBlock{&OperationInvalid{Kind: "block_header", Reason: err}}
	}

	currentEpoch := blk.Slot.ToEpoch(s.cfg.SlotsPerEpoch)
	if err := opblocks.ProcessProposerSlashings(st, s.verifier, s.cfg, currentEpoch, blk.Body.ProposerSlashings); err != nil {
		return [32]byte{}, invalidBlock{&OperationInvalid{Kind: "proposer_slashing", Reason: err}}
	}
	if err := opblocks.ProcessAttesterSlashings(st, s.verifier, s.cfg, currentEpoch, blk.Body.AttesterSlashings); err != nil {
		return [32]byte{}, invalidBlock{&OperationInvalid{Kind: "attester_slashing", Reason: err}}
	}
	if err := opblocks.ProcessAttestations(st, s.verifier, s.cfg, blk.Body.Attestations); err != nil {
		return [32]byte{}, invalidBlock{&OperationInvalid{Kind: "attestation", Reason: err}}
	}
	if err := opblocks.ProcessDeposits(st, s.cfg, blk.Body.Deposits); err != nil {
		return [32]byte{}, invalidBlock{&OperationInvalid{Kind: "deposit", Reason: err}}
	}
	if err := opblocks.ProcessVoluntaryExits(st, s.verifier, s.cfg, currentEpoch, blk.Body.VoluntaryExits); err != nil {
		return [32]byte{}, invalidBlock{&OperationInvalid{Kind: "voluntary_exit", Reason: err}}
	}

	computedRoot, err := st.HashTreeRoot()
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "compute state root")
	}
	if computedRoot != blk.StateRoot {
		return [32]byte{}, invalidBlock{ErrStateRootMismatch}
	}

	justifiedEpoch, _ := s.fc.JustifiedCheckpoint()
	if cur := st.CurrentJustifiedCheckpoint(); cur.Epoch > justifiedEpoch {
		justifiedEpoch = cur.Epoch
		s.fc.UpdateJustifiedCheckpoint(cur.Epoch, cur.Root)
	}
	finalizedEpoch, _ := s.fc.FinalizedCheckpoint()
	if fin := st.FinalizedCheckpoint(); fin.Epoch > finalizedEpoch {
		if err := s.fc.UpdateFinalizedCheckpoint(ctx, fin.Epoch, fin.Root); err != nil {
			return [32]byte{}, errors.Wrap(err, "update finalized checkpoint")
		}
		finalizedEpoch = fin.Epoch
		s.mu.Lock()
		s.finalizedCheckpoint = fin
		s.mu.Unlock()
	}

	if err := s.fc.ProcessBlock(ctx, blk.Slot, blockRoot, blk.ParentRoot, blk.StateRoot, justifiedEpoch, finalizedEpoch); err != nil {
		return [32]byte{}, errors.Wrap(err, "register block with fork choice")
	}

	s.mu.Lock()
	s.states[blockRoot] = st
	s.blocks[blockRoot] = signed
	if blk.Slot > s.headSlot {
		s.headSlot = blk.Slot
		s.headRoot = blockRoot
	}
	s.mu.Unlock()

	log.WithField("slot", blk.Slot).WithField("root", blockRoot).Debug("processed block")
	return blockRoot, nil
}

func (s *Service) finalizedCheckpointEpoch() primitives.Epoch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.finalizedCheckpoint.Epoch
}

// OnAttestation implements spec.md §4.E's on_attestation: it checks the
// attestation's target epoch is within one epoch of current, verifies
// its aggregate signature against the attesting committee (resolved
// against the post-state named by the attestation's target root), and
// folds each contributing validator's vote into the fork-choice store.
func (s *Service) OnAttestation(ctx context.Context, a attestation.Attestation) error {
	currentEpoch := s.headSlot.ToEpoch(s.cfg.SlotsPerEpoch)
	targetEpoch := a.Data.Target.Epoch
	if targetEpoch+1 < currentEpoch || targetEpoch > currentEpoch+1 {
		return ErrAttestationFromFuturePastEpoch
	}

	st, ok := s.StateByRoot(a.Data.Target.Root)
	if !ok {
		st, ok = s.StateByRoot(s.headRoot)
		if !ok {
			return ErrUnknownParent
		}
	}

	if err := opblocks.VerifyAttestation(st, s.verifier, s.cfg, a); err != nil {
		return ErrAttestationSignatureInvalid
	}

	indices := opblocks.AttestingIndices(a)
	s.fc.ProcessAttestation(ctx, indices, a.Data.BeaconBlockRoot, targetEpoch)
	return nil
}

// Import satisfies beacon-chain/sync.Importer: it feeds a batch of
// chained blocks from a sync session through OnBlock in order. The first
// bad block aborts the rest of the batch; the blocks before it stay
// applied.
func (s *Service) Import(ctx context.Context, signed []consensusblocks.SignedBlock) error {
	for _, b := range signed {
		if _, err := s.OnBlock(ctx, b); err != nil {
			return errors.Wrapf(err, "importing block at slot %d", b.Block.Slot)
		}
	}
	return nil
}

// HeadRoot returns the block root of the current head.
func (s *Service) HeadRoot() [32]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.headRoot
}

// HeadSlot returns the slot of the current head block.
func (s *Service) HeadSlot() primitives.Slot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.headSlot
}
