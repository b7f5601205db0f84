// Package params defines the explicit spec-constant context threaded through
// state transition and SSZ schema construction, rather than a process-global
// singleton.
package params

// BeaconChainConfig holds the subset of Ethereum consensus constants needed
// by the tree, SSZ view, state and fork-choice packages. Unlike the upstream
// client this is never a package-level singleton mutated at startup: callers
// build one and pass it explicitly (see spec.md design note on SpecContext).
type BeaconChainConfig struct {
	ConfigName string

	SlotsPerEpoch              uint64
	SecondsPerSlot             uint64
	MinSeedLookahead           uint64
	ShuffleRoundCount          uint64
	MaxEffectiveBalance       uint64
	EffectiveBalanceIncrement uint64
	EjectionBalance           uint64

	ValidatorRegistryLimit    uint64
	HistoricalRootsLimit      uint64
	EpochsPerHistoricalVector uint64
	EpochsPerSlashingsVector  uint64
	SlotsPerHistoricalRoot    uint64

	MaxValidatorsPerCommittee uint64
	MaxProposerSlashings      uint64
	MaxAttesterSlashings      uint64
	MaxAttestations           uint64
	MaxDeposits               uint64
	MaxVoluntaryExits         uint64

	// MinValidatorWithdrawabilityDelay is the number of epochs between a
	// voluntary exit taking effect and the exited validator becoming
	// withdrawable.
	MinValidatorWithdrawabilityDelay uint64
	// ShardCommitteePeriod is the minimum number of epochs a validator must
	// be active before it may submit a voluntary exit.
	ShardCommitteePeriod uint64

	// StateStorageFrequency holds an "every Nth slot" full state snapshot
	// cadence (component G, spec §4.G). The beacon-chain/db/kv storage
	// adapter does not read it; it always uses its own fixed cadence of
	// 2048 slots.
	StateStorageFrequency uint64

	// ZeroHash is the all-zero 32-byte root used for genesis parent links
	// and the fork-choice anchor's parent root.
	ZeroHash [32]byte
}

// MainnetConfig returns the production Ethereum mainnet constants relevant
// to this core.
func MainnetConfig() *BeaconChainConfig {
	return &BeaconChainConfig{
		ConfigName: "mainnet",

		SlotsPerEpoch:             32,
		SecondsPerSlot:            12,
		MinSeedLookahead:          1,
		ShuffleRoundCount:         90,
		MaxEffectiveBalance:       32_000_000_000,
		EffectiveBalanceIncrement: 1_000_000_000,
		EjectionBalance:           16_000_000_000,

		ValidatorRegistryLimit:    1 << 40,
		HistoricalRootsLimit:      1 << 24,
		EpochsPerHistoricalVector: 65536,
		EpochsPerSlashingsVector:  8192,
		SlotsPerHistoricalRoot:    8192,

		MaxValidatorsPerCommittee: 2048,
		MaxProposerSlashings:      16,
		MaxAttesterSlashings:      2,
		MaxAttestations:           128,
		MaxDeposits:               16,
		MaxVoluntaryExits:         16,

		MinValidatorWithdrawabilityDelay: 256,
		ShardCommitteePeriod:             256,

		StateStorageFrequency: 2048,
	}
}

// MinimalConfig returns the scaled-down constants used by spec tests and
// local development networks.
func MinimalConfig() *BeaconChainConfig {
	cfg := MainnetConfig()
	cfg.ConfigName = "minimal"
	cfg.SlotsPerEpoch = 8
	cfg.MaxEffectiveBalance = 32_000_000_000
	cfg.EjectionBalance = 16_000_000_000
	cfg.EpochsPerHistoricalVector = 64
	cfg.EpochsPerSlashingsVector = 64
	cfg.SlotsPerHistoricalRoot = 64
	cfg.StateStorageFrequency = 8
	cfg.MinValidatorWithdrawabilityDelay = 16
	cfg.ShardCommitteePeriod = 16
	return cfg
}

// SlotToEpoch converts a slot to its containing epoch under this config.
func (c *BeaconChainConfig) SlotToEpoch(slot uint64) uint64 {
	return slot / c.SlotsPerEpoch
}

// EpochStartSlot returns the first slot of epoch.
func (c *BeaconChainConfig) EpochStartSlot(epoch uint64) uint64 {
	return epoch * c.SlotsPerEpoch
}
