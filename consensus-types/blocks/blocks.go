// Package blocks defines the wire-level beacon block types the
// state-transition driver applies: the block envelope (Block,
// SignedBlock) and the body operations (proposer/attester slashings,
// deposits, voluntary exits) it carries, per spec §4.E's prescribed
// application order.
package blocks

import (
	"github.com/sigmachain/beacon-core/beacon-chain/state"
	"github.com/sigmachain/beacon-core/consensus-types/attestation"
	"github.com/sigmachain/beacon-core/consensus-types/primitives"
	"github.com/sigmachain/beacon-core/container/trie"
	"github.com/sigmachain/beacon-core/encoding/ssz"
)

// SignedBeaconBlockHeader pairs a compact block header with the proposer's
// signature over it; proposer-slashing evidence is built from a pair of
// these.
type SignedBeaconBlockHeader struct {
	Header    state.BeaconBlockHeader
	Signature [96]byte
}

// HashTreeRoot returns h's SSZ hash tree root.
func (h SignedBeaconBlockHeader) HashTreeRoot() [32]byte {
	schema := signedHeaderSchema
	headerRoot := state.BeaconBlockHeaderSchema.HashTreeRoot(state.EncodeBlockHeader(h.Header))
	n := schema.DefaultTree()
	n, _ = schema.Set(n, 0, rootLeaf(headerRoot))
	n, _ = schema.Set(n, 1, sigNode(h.Signature))
	return schema.HashTreeRoot(n)
}

// ProposerSlashing is evidence that a single proposer signed two distinct
// headers for the same slot.
type ProposerSlashing struct {
	Header1 SignedBeaconBlockHeader
	Header2 SignedBeaconBlockHeader
}

// HashTreeRoot returns p's SSZ hash tree root.
func (p ProposerSlashing) HashTreeRoot() [32]byte {
	schema := proposerSlashingSchema
	n := schema.DefaultTree()
	n, _ = schema.Set(n, 0, rootLeaf(p.Header1.HashTreeRoot()))
	n, _ = schema.Set(n, 1, rootLeaf(p.Header2.HashTreeRoot()))
	return schema.HashTreeRoot(n)
}

// AttesterSlashing is evidence that an attester's indexed attestations are
// "slashable" under the surround/double-vote rules: two indexed
// attestations with overlapping attesting indices.
type AttesterSlashing struct {
	Attestation1 attestation.IndexedAttestation
	Attestation2 attestation.IndexedAttestation
}

// HashTreeRoot returns a's SSZ hash tree root under the given committee-size
// limit (each indexed attestation's attesting-indices capacity).
func (a AttesterSlashing) HashTreeRoot(maxValidatorsPerCommittee uint64) ([32]byte, error) {
	r1, err := a.Attestation1.HashTreeRoot(maxValidatorsPerCommittee)
	if err != nil {
		return [32]byte{}, err
	}
	r2, err := a.Attestation2.HashTreeRoot(maxValidatorsPerCommittee)
	if err != nil {
		return [32]byte{}, err
	}
	schema := attesterSlashingSchema
	n := schema.DefaultTree()
	n, _ = schema.Set(n, 0, rootLeaf(r1))
	n, _ = schema.Set(n, 1, rootLeaf(r2))
	return schema.HashTreeRoot(n), nil
}

// DepositData is the deposit-contract log payload: the depositor's public
// key, withdrawal credentials, amount, and a signature over the first three
// fields proving key possession.
type DepositData struct {
	PublicKey             [48]byte
	WithdrawalCredentials [32]byte
	Amount                uint64
	Signature             [96]byte
}

// HashTreeRoot returns d's SSZ hash tree root.
func (d DepositData) HashTreeRoot() [32]byte {
	schema := depositDataSchema
	n := schema.DefaultTree()
	n, _ = schema.Set(n, 0, bytesNLeaf(d.PublicKey[:]))
	n, _ = schema.Set(n, 1, trie.NewLeaf(d.WithdrawalCredentials))
	n, _ = schema.Set(n, 2, ssz.EncodeUint64(d.Amount))
	n, _ = schema.Set(n, 3, sigNode(d.Signature))
	return schema.HashTreeRoot(n)
}

// Deposit pairs a DepositData leaf with its Merkle proof into the deposit
// contract's incremental tree (depth 32, plus one mix-in chunk for the
// deposit count, per the Eth1 deposit contract's own Merkleization).
type Deposit struct {
	Proof [33][32]byte
	Data  DepositData
}

// HashTreeRoot returns d's SSZ hash tree root.
func (d Deposit) HashTreeRoot() [32]byte {
	schema := depositSchema
	proofNode := proofVectorSchema.DefaultTree()
	for i, p := range d.Proof {
		proofNode, _ = proofVectorSchema.SetElement(proofNode, uint64(i), trie.NewLeaf(p))
	}
	n := schema.DefaultTree()
	n, _ = schema.Set(n, 0, proofNode)
	n, _ = schema.Set(n, 1, rootLeaf(d.Data.HashTreeRoot()))
	return schema.HashTreeRoot(n)
}

// VoluntaryExit signals a validator's voluntary withdrawal from the active
// set as of Epoch.
type VoluntaryExit struct {
	Epoch          primitives.Epoch
	ValidatorIndex primitives.ValidatorIndex
}

// HashTreeRoot returns v's SSZ hash tree root.
func (v VoluntaryExit) HashTreeRoot() [32]byte {
	schema := voluntaryExitSchema
	n := schema.DefaultTree()
	n, _ = schema.Set(n, 0, ssz.EncodeUint64(uint64(v.Epoch)))
	n, _ = schema.Set(n, 1, ssz.EncodeUint64(uint64(v.ValidatorIndex)))
	return schema.HashTreeRoot(n)
}

// SignedVoluntaryExit pairs a VoluntaryExit with the validator's signature
// over it.
type SignedVoluntaryExit struct {
	Exit      VoluntaryExit
	Signature [96]byte
}

// HashTreeRoot returns v's SSZ hash tree root.
func (v SignedVoluntaryExit) HashTreeRoot() [32]byte {
	schema := signedVoluntaryExitSchema
	n := schema.DefaultTree()
	n, _ = schema.Set(n, 0, rootLeaf(v.Exit.HashTreeRoot()))
	n, _ = schema.Set(n, 1, sigNode(v.Signature))
	return schema.HashTreeRoot(n)
}

// Limits bounds the variable-length body lists, sourced from
// params.BeaconChainConfig per spec §4.E/§4.H (no global singleton).
type Limits struct {
	MaxProposerSlashings      uint64
	MaxAttesterSlashings      uint64
	MaxAttestations           uint64
	MaxDeposits               uint64
	MaxVoluntaryExits         uint64
	MaxValidatorsPerCommittee uint64
}

// Body is the operation payload a beacon block carries, applied in the
// fixed order spec §4.E prescribes: proposer slashings, attester slashings,
// attestations, deposits, voluntary exits.
type Body struct {
	RandaoReveal      [96]byte
	Eth1Data          state.Eth1Data
	Graffiti          [32]byte
	ProposerSlashings []ProposerSlashing
	AttesterSlashings []AttesterSlashing
	Attestations      []attestation.Attestation
	Deposits          []Deposit
	VoluntaryExits    []SignedVoluntaryExit
}

// HashTreeRoot returns b's SSZ hash tree root under the given body limits.
func (b Body) HashTreeRoot(lim Limits) ([32]byte, error) {
	psTree, err := rootsToList(lim.MaxProposerSlashings, len(b.ProposerSlashings), func(i int) [32]byte {
		return b.ProposerSlashings[i].HashTreeRoot()
	})
	if err != nil {
		return [32]byte{}, err
	}

	var outerErr error
	asTree, err := rootsToList(lim.MaxAttesterSlashings, len(b.AttesterSlashings), func(i int) [32]byte {
		r, e := b.AttesterSlashings[i].HashTreeRoot(lim.MaxValidatorsPerCommittee)
		if e != nil {
			outerErr = e
		}
		return r
	})
	if err != nil {
		return [32]byte{}, err
	}
	if outerErr != nil {
		return [32]byte{}, outerErr
	}

	attTree, err := rootsToList(lim.MaxAttestations, len(b.Attestations), func(i int) [32]byte {
		r, e := b.Attestations[i].HashTreeRoot(lim.MaxValidatorsPerCommittee)
		if e != nil {
			outerErr = e
		}
		return r
	})
	if err != nil {
		return [32]byte{}, err
	}
	if outerErr != nil {
		return [32]byte{}, outerErr
	}

	depTree, err := rootsToList(lim.MaxDeposits, len(b.Deposits), func(i int) [32]byte {
		return b.Deposits[i].HashTreeRoot()
	})
	if err != nil {
		return [32]byte{}, err
	}

	veTree, err := rootsToList(lim.MaxVoluntaryExits, len(b.VoluntaryExits), func(i int) [32]byte {
		return b.VoluntaryExits[i].HashTreeRoot()
	})
	if err != nil {
		return [32]byte{}, err
	}

	schema := bodySchema(lim)
	n := schema.DefaultTree()
	n, _ = schema.Set(n, 0, sigNode(b.RandaoReveal))
	n, _ = schema.Set(n, 1, state.EncodeEth1Data(b.Eth1Data))
	n, _ = schema.Set(n, 2, trie.NewLeaf(b.Graffiti))
	n, _ = schema.Set(n, 3, psTree)
	n, _ = schema.Set(n, 4, asTree)
	n, _ = schema.Set(n, 5, attTree)
	n, _ = schema.Set(n, 6, depTree)
	n, _ = schema.Set(n, 7, veTree)
	return schema.HashTreeRoot(n), nil
}

// rootsToList builds a list[bytes32, limit] tree from count precomputed
// element roots, the standard way this package composes a list of
// composite elements without rebuilding each element's full subtree.
func rootsToList(limit uint64, count int, rootAt func(i int) [32]byte) (trie.Node, error) {
	list := ssz.NewList(ssz.BytesN(32), limit)
	nodes := make([]trie.Node, count)
	for i := 0; i < count; i++ {
		nodes[i] = rootLeaf(rootAt(i))
	}
	return list.FromElements(nodes)
}

func rootLeaf(r [32]byte) trie.Node { return trie.NewLeaf(r) }

func bytesNLeaf(b []byte) trie.Node {
	var chunk [32]byte
	copy(chunk[:], b)
	return trie.NewLeaf(chunk)
}

func sigNode(sig [96]byte) trie.Node {
	n, _ := attestation.SignatureSchema.Unmarshal(sig[:])
	return n
}

func bodySchema(lim Limits) *ssz.Container {
	return ssz.NewContainer([]ssz.Field{
		{Name: "randao_reveal", Schema: attestation.SignatureSchema},
		{Name: "eth1_data", Schema: state.Eth1DataSchema},
		{Name: "graffiti", Schema: ssz.BytesN(32)},
		{Name: "proposer_slashings", Schema: ssz.NewList(ssz.BytesN(32), lim.MaxProposerSlashings)},
		{Name: "attester_slashings", Schema: ssz.NewList(ssz.BytesN(32), lim.MaxAttesterSlashings)},
		{Name: "attestations", Schema: ssz.NewList(ssz.BytesN(32), lim.MaxAttestations)},
		{Name: "deposits", Schema: ssz.NewList(ssz.BytesN(32), lim.MaxDeposits)},
		{Name: "voluntary_exits", Schema: ssz.NewList(ssz.BytesN(32), lim.MaxVoluntaryExits)},
	})
}

var (
	signedHeaderSchema = ssz.NewContainer([]ssz.Field{
		{Name: "message", Schema: ssz.BytesN(32)},
		{Name: "signature", Schema: attestation.SignatureSchema},
	})
	proposerSlashingSchema = ssz.NewContainer([]ssz.Field{
		{Name: "header_1", Schema: ssz.BytesN(32)},
		{Name: "header_2", Schema: ssz.BytesN(32)},
	})
	attesterSlashingSchema = ssz.NewContainer([]ssz.Field{
		{Name: "attestation_1", Schema: ssz.BytesN(32)},
		{Name: "attestation_2", Schema: ssz.BytesN(32)},
	})
	depositDataSchema = ssz.NewContainer([]ssz.Field{
		{Name: "pubkey", Schema: ssz.BytesN(48)},
		{Name: "withdrawal_credentials", Schema: ssz.BytesN(32)},
		{Name: "amount", Schema: ssz.Uint64},
		{Name: "signature", Schema: attestation.SignatureSchema},
	})
	proofVectorSchema = ssz.NewVector(ssz.BytesN(32), 33)
	depositSchema     = ssz.NewContainer([]ssz.Field{
		{Name: "proof", Schema: proofVectorSchema},
		{Name: "data", Schema: ssz.BytesN(32)},
	})
	voluntaryExitSchema = ssz.NewContainer([]ssz.Field{
		{Name: "epoch", Schema: ssz.Uint64},
		{Name: "validator_index", Schema: ssz.Uint64},
	})
	signedVoluntaryExitSchema = ssz.NewContainer([]ssz.Field{
		{Name: "message", Schema: ssz.BytesN(32)},
		{Name: "signature", Schema: attestation.SignatureSchema},
	})
)

// Block is the unsigned beacon block envelope.
type Block struct {
	Slot          primitives.Slot
	ProposerIndex primitives.ValidatorIndex
	ParentRoot    [32]byte
	StateRoot     [32]byte
	Body          Body
}

var blockSchema = ssz.NewContainer([]ssz.Field{
	{Name: "slot", Schema: ssz.Uint64},
	{Name: "proposer_index", Schema: ssz.Uint64},
	{Name: "parent_root", Schema: ssz.BytesN(32)},
	{Name: "state_root", Schema: ssz.BytesN(32)},
	{Name: "body_root", Schema: ssz.BytesN(32)},
})

// HashTreeRoot returns blk's hash tree root, the message its proposer
// signature is verified against and the value stored as the fork-choice
// arena's block root.
func (blk Block) HashTreeRoot(lim Limits) ([32]byte, error) {
	bodyRoot, err := blk.Body.HashTreeRoot(lim)
	if err != nil {
		return [32]byte{}, err
	}
	n := blockSchema.DefaultTree()
	n, _ = blockSchema.Set(n, 0, ssz.EncodeUint64(uint64(blk.Slot)))
	n, _ = blockSchema.Set(n, 1, ssz.EncodeUint64(uint64(blk.ProposerIndex)))
	n, _ = blockSchema.Set(n, 2, trie.NewLeaf(blk.ParentRoot))
	n, _ = blockSchema.Set(n, 3, trie.NewLeaf(blk.StateRoot))
	n, _ = blockSchema.Set(n, 4, rootLeaf(bodyRoot))
	return blockSchema.HashTreeRoot(n), nil
}

// SignedBlock pairs a Block with the proposer's signature over its hash
// tree root.
type SignedBlock struct {
	Block     Block
	Signature [96]byte
}

// ToHeader compacts blk into the BeaconBlockHeader form BeaconState stores
// as LatestBlockHeader, with bodyRoot supplied by the caller (already
// computed via Block.HashTreeRoot's body pass).
func (blk Block) ToHeader(bodyRoot [32]byte) state.BeaconBlockHeader {
	return state.BeaconBlockHeader{
		Slot:          blk.Slot,
		ProposerIndex: blk.ProposerIndex,
		ParentRoot:    blk.ParentRoot,
		StateRoot:     blk.StateRoot,
		BodyRoot:      bodyRoot,
	}
}
