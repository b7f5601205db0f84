// Package phase0 implements the genesis-fork BeaconState: a tree-backed
// container over all fields named in spec.md's BeaconState description,
// addressed through encoding/ssz container/vector/list/bitvector schemas
// built from an explicit params.BeaconChainConfig rather than a global.
package phase0

import (
	schemaState "github.com/sigmachain/beacon-core/beacon-chain/state"
	"github.com/sigmachain/beacon-core/config/params"
	"github.com/sigmachain/beacon-core/encoding/ssz"
)

type fieldIndex int

const (
	genesisTime fieldIndex = iota
	genesisValidatorsRoot
	slot
	fork
	latestBlockHeader
	blockRoots
	stateRoots
	historicalRoots
	eth1Data
	eth1DataVotes
	eth1DepositIndex
	validators
	balances
	randaoMixes
	slashings
	previousEpochAttestations
	currentEpochAttestations
	justificationBits
	previousJustifiedCheckpoint
	currentJustifiedCheckpoint
	finalizedCheckpoint
	numFields
)

// AttestationDataSchema describes the 5-field vote payload an attestation
// carries: slot, committee index, beacon block root, and source/target
// checkpoints.
var AttestationDataSchema = ssz.NewContainer([]ssz.Field{
	{Name: "slot", Schema: ssz.Uint64},
	{Name: "index", Schema: ssz.Uint64},
	{Name: "beacon_block_root", Schema: ssz.BytesN(32)},
	{Name: "source", Schema: schemaState.CheckpointSchema},
	{Name: "target", Schema: schemaState.CheckpointSchema},
})

// newPendingAttestationSchema builds container{aggregation_bits, data,
// inclusion_delay, proposer_index} with an aggregation-bits limit sourced
// from cfg (bounded by one committee's worth of validators).
func newPendingAttestationSchema(cfg *params.BeaconChainConfig) *ssz.Container {
	return ssz.NewContainer([]ssz.Field{
		{Name: "aggregation_bits", Schema: ssz.NewBitlist(cfg.MaxValidatorsPerCommittee)},
		{Name: "data", Schema: AttestationDataSchema},
		{Name: "inclusion_delay", Schema: ssz.Uint64},
		{Name: "proposer_index", Schema: ssz.Uint64},
	})
}

// NewSchema builds the phase0 BeaconState container schema for cfg. List and
// vector limits come directly from cfg so mainnet and minimal presets each
// get their own correctly-shaped tree.
func NewSchema(cfg *params.BeaconChainConfig) *ssz.Container {
	pendingAttestation := newPendingAttestationSchema(cfg)
	eth1VotingPeriodLimit := cfg.SlotsPerEpoch * 64 // SLOTS_PER_ETH1_VOTING_PERIOD
	fields := make([]ssz.Field, numFields)
	fields[genesisTime] = ssz.Field{Name: "genesis_time", Schema: ssz.Uint64}
	fields[genesisValidatorsRoot] = ssz.Field{Name: "genesis_validators_root", Schema: ssz.BytesN(32)}
	fields[slot] = ssz.Field{Name: "slot", Schema: ssz.Uint64}
	fields[fork] = ssz.Field{Name: "fork", Schema: schemaState.ForkSchema}
	fields[latestBlockHeader] = ssz.Field{Name: "latest_block_header", Schema: schemaState.BeaconBlockHeaderSchema}
	fields[blockRoots] = ssz.Field{Name: "block_roots", Schema: ssz.NewVector(ssz.BytesN(32), cfg.SlotsPerHistoricalRoot)}
	fields[stateRoots] = ssz.Field{Name: "state_roots", Schema: ssz.NewVector(ssz.BytesN(32), cfg.SlotsPerHistoricalRoot)}
	fields[historicalRoots] = ssz.Field{Name: "historical_roots", Schema: ssz.NewList(ssz.BytesN(32), cfg.HistoricalRootsLimit)}
	fields[eth1Data] = ssz.Field{Name: "eth1_data", Schema: schemaState.Eth1DataSchema}
	fields[eth1DataVotes] = ssz.Field{Name: "eth1_data_votes", Schema: ssz.NewList(schemaState.Eth1DataSchema, eth1VotingPeriodLimit)}
	fields[eth1DepositIndex] = ssz.Field{Name: "eth1_deposit_index", Schema: ssz.Uint64}
	fields[validators] = ssz.Field{Name: "validators", Schema: ssz.NewList(schemaState.ValidatorSchema, cfg.ValidatorRegistryLimit)}
	fields[balances] = ssz.Field{Name: "balances", Schema: ssz.NewList(ssz.Uint64, cfg.ValidatorRegistryLimit)}
	fields[randaoMixes] = ssz.Field{Name: "randao_mixes", Schema: ssz.NewVector(ssz.BytesN(32), cfg.EpochsPerHistoricalVector)}
	fields[slashings] = ssz.Field{Name: "slashings", Schema: ssz.NewVector(ssz.Uint64, cfg.EpochsPerSlashingsVector)}
	fields[previousEpochAttestations] = ssz.Field{Name: "previous_epoch_attestations", Schema: ssz.NewList(pendingAttestation, cfg.MaxAttestations*cfg.SlotsPerEpoch)}
	fields[currentEpochAttestations] = ssz.Field{Name: "current_epoch_attestations", Schema: ssz.NewList(pendingAttestation, cfg.MaxAttestations*cfg.SlotsPerEpoch)}
	fields[justificationBits] = ssz.Field{Name: "justification_bits", Schema: ssz.NewBitvector(4)}
	fields[previousJustifiedCheckpoint] = ssz.Field{Name: "previous_justified_checkpoint", Schema: schemaState.CheckpointSchema}
	fields[currentJustifiedCheckpoint] = ssz.Field{Name: "current_justified_checkpoint", Schema: schemaState.CheckpointSchema}
	fields[finalizedCheckpoint] = ssz.Field{Name: "finalized_checkpoint", Schema: schemaState.CheckpointSchema}
	return ssz.NewContainer(fields)
}
