// Package altair implements the Altair-fork BeaconState: identical to
// phase0 except that the per-epoch attestation lists are replaced by two
// fixed-length participation-flag byte lists, per spec.md's phase0/altair
// design note.
package altair

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
	previousEpochParticipation
	currentEpochParticipation
	justificationBits
	previousJustifiedCheckpoint
	currentJustifiedCheckpoint
	finalizedCheckpoint
	numFields
)

// NewSchema builds the Altair BeaconState container schema for cfg.
func NewSchema(cfg *params.BeaconChainConfig) *ssz.Container {
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
	fields[previousEpochParticipation] = ssz.Field{Name: "previous_epoch_participation", Schema: ssz.NewList(ssz.Uint8, cfg.ValidatorRegistryLimit)}
	fields[currentEpochParticipation] = ssz.Field{Name: "current_epoch_participation", Schema: ssz.NewList(ssz.Uint8, cfg.ValidatorRegistryLimit)}
	fields[justificationBits] = ssz.Field{Name: "justification_bits", Schema: ssz.NewBitvector(4)}
	fields[previousJustifiedCheckpoint] = ssz.Field{Name: "previous_justified_checkpoint", Schema: schemaState.CheckpointSchema}
	fields[currentJustifiedCheckpoint] = ssz.Field{Name: "current_justified_checkpoint", Schema: schemaState.CheckpointSchema}
	fields[finalizedCheckpoint] = ssz.Field{Name: "finalized_checkpoint", Schema: schemaState.CheckpointSchema}
	return ssz.NewContainer(fields)
}
