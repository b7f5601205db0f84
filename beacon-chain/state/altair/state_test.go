package altair

import (
	"testing"

	beaconstate "github.com/sigmachain/beacon-core/beacon-chain/state"
	"github.com/sigmachain/beacon-core/config/params"
	"github.com/sigmachain/beacon-core/consensus-types/primitives"
	"github.com/stretchr/testify/require"
)

func testGenesis(t *testing.T) *State {
	t.Helper()
	cfg := params.MinimalConfig()
	s, err := NewGenesis(cfg, 1_606_824_000, [32]byte{1, 2, 3}, beaconstate.Eth1Data{
		DepositRoot:  [32]byte{4},
		DepositCount: 9,
		BlockHash:    [32]byte{5},
	})
	require.NoError(t, err)
	return s
}

func TestNewGenesis_FieldsRoundTrip(t *testing.T) {
	s := testGenesis(t)

	require.Equal(t, uint64(1_606_824_000), s.GenesisTime())
	require.Equal(t, [32]byte{1, 2, 3}, s.GenesisValidatorsRoot())
	require.Equal(t, primitives.Slot(0), s.Slot())
	require.Equal(t, 0, s.NumValidators())
	require.Empty(t, s.PreviousEpochParticipation())
	require.Empty(t, s.CurrentEpochParticipation())
}

func TestState_AppendValidator_GrowsParticipationListsInLockstep(t *testing.T) {
	s := testGenesis(t)

	require.NoError(t, s.AppendValidator(&beaconstate.Validator{PublicKey: [48]byte{1}, EffectiveBalance: 32_000_000_000}))
	require.NoError(t, s.AppendValidator(&beaconstate.Validator{PublicKey: [48]byte{2}, EffectiveBalance: 31_000_000_000}))

	require.Equal(t, 2, s.NumValidators())
	require.Equal(t, []byte{0, 0}, s.PreviousEpochParticipation())
	require.Equal(t, []byte{0, 0}, s.CurrentEpochParticipation())
}

func TestState_ParticipationFlags_IndexedRoundTrip(t *testing.T) {
	s := testGenesis(t)
	require.NoError(t, s.AppendValidator(&beaconstate.Validator{PublicKey: [48]byte{1}}))
	require.NoError(t, s.AppendValidator(&beaconstate.Validator{PublicKey: [48]byte{2}}))

	require.NoError(t, s.SetCurrentEpochParticipationAtIndex(primitives.ValidatorIndex(1), 0b111))
	flags, err := s.CurrentEpochParticipationAtIndex(primitives.ValidatorIndex(1))
	require.NoError(t, err)
	require.Equal(t, byte(0b111), flags)
	require.Equal(t, []byte{0, 0b111}, s.CurrentEpochParticipation())

	require.NoError(t, s.SetPreviousEpochParticipationAtIndex(primitives.ValidatorIndex(0), 0b1))
	prevFlags, err := s.PreviousEpochParticipationAtIndex(primitives.ValidatorIndex(0))
	require.NoError(t, err)
	require.Equal(t, byte(0b1), prevFlags)
}

func TestState_Balances_AndValidatorLookup(t *testing.T) {
	s := testGenesis(t)
	require.NoError(t, s.AppendValidator(&beaconstate.Validator{PublicKey: [48]byte{9}, EffectiveBalance: 1}))
	require.NoError(t, s.AppendBalance(123))

	bal, err := s.BalanceAtIndex(primitives.ValidatorIndex(0))
	require.NoError(t, err)
	require.Equal(t, uint64(123), bal)

	idx, ok := s.ValidatorIndexByPubkey([48]byte{9})
	require.True(t, ok)
	require.Equal(t, primitives.ValidatorIndex(0), idx)
}

func TestState_HashTreeRoot_ChangesOnParticipationMutation(t *testing.T) {
	s := testGenesis(t)
	require.NoError(t, s.AppendValidator(&beaconstate.Validator{PublicKey: [48]byte{1}}))

	r1, err := s.HashTreeRoot()
	require.NoError(t, err)

	require.NoError(t, s.SetCurrentEpochParticipationAtIndex(primitives.ValidatorIndex(0), 0b11))
	r2, err := s.HashTreeRoot()
	require.NoError(t, err)

	require.NotEqual(t, r1, r2)
}

func TestState_CopyIsolatesParticipationMutations(t *testing.T) {
	s := testGenesis(t)
	require.NoError(t, s.AppendValidator(&beaconstate.Validator{PublicKey: [48]byte{1}}))

	c := s.Copy().(*State)
	require.NoError(t, c.SetCurrentEpochParticipationAtIndex(primitives.ValidatorIndex(0), 0b111))

	require.Equal(t, byte(0), s.CurrentEpochParticipation()[0])
	require.Equal(t, byte(0b111), c.CurrentEpochParticipation()[0])
}

func TestUpdate_AppliesMutatorToCopy(t *testing.T) {
	s := testGenesis(t)
	next, err := Update(s, func(st *State) error {
		return st.SetSlot(primitives.Slot(5))
	})
	require.NoError(t, err)
	require.Equal(t, primitives.Slot(0), s.Slot())
	require.Equal(t, primitives.Slot(5), next.Slot())
}

func TestInitialize_RebuildsValidatorIndex(t *testing.T) {
	s := testGenesis(t)
	require.NoError(t, s.AppendValidator(&beaconstate.Validator{PublicKey: [48]byte{3}}))

	reinitialized, err := Initialize(s.cfg, s.tree)
	require.NoError(t, err)

	idx, ok := reinitialized.ValidatorIndexByPubkey([48]byte{3})
	require.True(t, ok)
	require.Equal(t, primitives.ValidatorIndex(0), idx)
}
