package params

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlotToEpoch(t *testing.T) {
	cfg := MinimalConfig()
	require.Equal(t, uint64(0), cfg.SlotToEpoch(0))
	require.Equal(t, uint64(0), cfg.SlotToEpoch(cfg.SlotsPerEpoch-1))
	require.Equal(t, uint64(1), cfg.SlotToEpoch(cfg.SlotsPerEpoch))
}

func TestEpochStartSlot(t *testing.T) {
	cfg := MainnetConfig()
	require.Equal(t, uint64(0), cfg.EpochStartSlot(0))
	require.Equal(t, cfg.SlotsPerEpoch, cfg.EpochStartSlot(1))
}

func TestMinimalDiffersFromMainnet(t *testing.T) {
	require.NotEqual(t, MainnetConfig().SlotsPerEpoch, MinimalConfig().SlotsPerEpoch)
}
