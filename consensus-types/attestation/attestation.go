// Package attestation defines the wire-level attestation types the
// state-transition driver and fork-choice store exchange: the vote payload
// (AttestationData), the aggregated gossip form (Attestation) and the
// expanded per-validator form (IndexedAttestation) used once committee bits
// have been resolved against a committee assignment.
package attestation

import (
	"github.com/prysmaticlabs/go-bitfield"
	"github.com/sigmachain/beacon-core/beacon-chain/state"
	"github.com/sigmachain/beacon-core/consensus-types/primitives"
	"github.com/sigmachain/beacon-core/container/trie"
	"github.com/sigmachain/beacon-core/encoding/ssz"
)

// Data is the 5-field vote payload every attestation signs over: the slot
// and committee it was produced for, the block root it attests to, and the
// source/target checkpoints that anchor it to the Casper FFG vote.
type Data struct {
	Slot            primitives.Slot
	CommitteeIndex  primitives.CommitteeIndex
	BeaconBlockRoot [32]byte
	Source          state.Checkpoint
	Target          state.Checkpoint
}

// DataSchema describes container{slot, index, beacon_block_root, source,
// target}, matching beacon-chain/state/phase0's embedded copy field for
// field (kept independent since Data is a standalone wire type, not a
// BeaconState field).
var DataSchema = ssz.NewContainer([]ssz.Field{
	{Name: "slot", Schema: ssz.Uint64},
	{Name: "index", Schema: ssz.Uint64},
	{Name: "beacon_block_root", Schema: ssz.BytesN(32)},
	{Name: "source", Schema: state.CheckpointSchema},
	{Name: "target", Schema: state.CheckpointSchema},
})

func encodeData(d Data) trie.Node {
	n := DataSchema.DefaultTree()
	n, _ = DataSchema.Set(n, 0, ssz.EncodeUint64(uint64(d.Slot)))
	n, _ = DataSchema.Set(n, 1, ssz.EncodeUint64(uint64(d.CommitteeIndex)))
	n, _ = DataSchema.Set(n, 2, trie.NewLeaf(d.BeaconBlockRoot))
	n, _ = DataSchema.Set(n, 3, state.EncodeCheckpoint(d.Source))
	n, _ = DataSchema.Set(n, 4, state.EncodeCheckpoint(d.Target))
	return n
}

// HashTreeRoot returns d's SSZ hash tree root.
func (d Data) HashTreeRoot() [32]byte {
	return DataSchema.HashTreeRoot(encodeData(d))
}

// Equal reports whether two vote payloads are identical, the check
// IsSlashableAttestationData uses to rule out a pair of identical votes.
func (d Data) Equal(o Data) bool {
	return d.Slot == o.Slot &&
		d.CommitteeIndex == o.CommitteeIndex &&
		d.BeaconBlockRoot == o.BeaconBlockRoot &&
		d.Source == o.Source &&
		d.Target == o.Target
}

// Attestation is the gossip-pool form: an aggregation bitlist over one
// committee's validators, the vote payload they attest to, and their
// aggregate BLS signature.
type Attestation struct {
	AggregationBits bitfield.Bitlist
	Data            Data
	Signature       [96]byte
}

// IndexedAttestation is the expanded form used once aggregation bits have
// been resolved against a committee assignment: the sorted attesting
// validator indices, replacing the bitlist.
type IndexedAttestation struct {
	AttestingIndices []primitives.ValidatorIndex
	Data             Data
	Signature        [96]byte
}

// AggregationBitsSchema returns the bitlist schema for a committee of size
// maxValidatorsPerCommittee, the limit spec.md ties to config.
func AggregationBitsSchema(maxValidatorsPerCommittee uint64) *ssz.Bitlist {
	return ssz.NewBitlist(maxValidatorsPerCommittee)
}

// bitsOf converts a go-bitfield Bitlist into the []bool form the ssz
// package's tree builders expect.
func bitsOf(bl bitfield.Bitlist) []bool {
	n := bl.Len()
	out := make([]bool, n)
	for i := uint64(0); i < n; i++ {
		out[i] = bl.BitAt(i)
	}
	return out
}

// SignatureSchema describes vector[uint8, 96], the packed byte-string shape
// a 96-byte BLS signature Merkleizes under.
var SignatureSchema = ssz.NewVector(ssz.Uint8, 96)

func sig96Node(sig [96]byte) trie.Node {
	n, _ := SignatureSchema.Unmarshal(sig[:])
	return n
}

// HashTreeRoot returns a's SSZ hash tree root under the given committee-size
// limit (the aggregation bitlist's declared capacity).
func (a Attestation) HashTreeRoot(maxValidatorsPerCommittee uint64) ([32]byte, error) {
	schema := ssz.NewContainer([]ssz.Field{
		{Name: "aggregation_bits", Schema: AggregationBitsSchema(maxValidatorsPerCommittee)},
		{Name: "data", Schema: DataSchema},
		{Name: "signature", Schema: SignatureSchema},
	})
	bitsNode, err := AggregationBitsSchema(maxValidatorsPerCommittee).FromBits(bitsOf(a.AggregationBits))
	if err != nil {
		return [32]byte{}, err
	}
	n := schema.DefaultTree()
	n, _ = schema.Set(n, 0, bitsNode)
	n, _ = schema.Set(n, 1, encodeData(a.Data))
	n, _ = schema.Set(n, 2, sig96Node(a.Signature))
	return schema.HashTreeRoot(n), nil
}

// SigningRoot is the message an attesting validator's BLS signature is
// verified against: the vote payload's own hash tree root (no domain
// wrapper here — domain separation is a BLS capability concern, not this
// package's).
func (a Attestation) SigningRoot() [32]byte {
	return a.Data.HashTreeRoot()
}

// HashTreeRoot returns ia's SSZ hash tree root under the given
// committee-size limit (the attesting-indices list's declared capacity).
func (ia IndexedAttestation) HashTreeRoot(maxValidatorsPerCommittee uint64) ([32]byte, error) {
	schema := ssz.NewContainer([]ssz.Field{
		{Name: "attesting_indices", Schema: ssz.NewList(ssz.Uint64, maxValidatorsPerCommittee)},
		{Name: "data", Schema: DataSchema},
		{Name: "signature", Schema: SignatureSchema},
	})
	indexNodes := make([]trie.Node, len(ia.AttestingIndices))
	for i, idx := range ia.AttestingIndices {
		indexNodes[i] = ssz.EncodeUint64(uint64(idx))
	}
	indicesTree, err := ssz.NewList(ssz.Uint64, maxValidatorsPerCommittee).FromElements(indexNodes)
	if err != nil {
		return [32]byte{}, err
	}
	n := schema.DefaultTree()
	n, _ = schema.Set(n, 0, indicesTree)
	n, _ = schema.Set(n, 1, encodeData(ia.Data))
	n, _ = schema.Set(n, 2, sig96Node(ia.Signature))
	return schema.HashTreeRoot(n), nil
}
