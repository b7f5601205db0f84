package blocks

import (
	"testing"

	beaconstate "github.com/sigmachain/beacon-core/beacon-chain/state"
	"github.com/sigmachain/beacon-core/config/params"
	consensusblocks "github.com/sigmachain/beacon-core/consensus-types/blocks"
	"github.com/sigmachain/beacon-core/crypto/hash"
	"github.com/stretchr/testify/require"
)

func validDeposit(t *testing.T, st beaconstate.BeaconState, pubkeyByte byte, amount uint64) consensusblocks.Deposit {
	t.Helper()
	data := consensusblocks.DepositData{Amount: amount}
	data.PublicKey[0] = pubkeyByte
	leaf := data.HashTreeRoot()

	var branch [33][32]byte
	root := leaf
	for i := 0; i < depositContractTreeDepth+1; i++ {
		root = hash.HashPair(root, branch[i])
	}
	require.NoError(t, st.SetEth1Data(beaconstate.Eth1Data{DepositRoot: root}))
	return consensusblocks.Deposit{Proof: branch, Data: data}
}

func TestProcessDeposits_AddsNewValidator(t *testing.T) {
	st := testState(t, 0)
	cfg := params.MinimalConfig()
	dep := validDeposit(t, st, 7, 32_000_000_000)

	require.NoError(t, ProcessDeposits(st, cfg, []consensusblocks.Deposit{dep}))
	require.Equal(t, 1, st.NumValidators())
	bal, err := st.BalanceAtIndex(0)
	require.NoError(t, err)
	require.Equal(t, uint64(32_000_000_000), bal)
}

func TestProcessDeposits_CreditsExistingValidator(t *testing.T) {
	st := testState(t, 1)
	cfg := params.MinimalConfig()
	v, err := st.ValidatorAtIndex(0)
	require.NoError(t, err)
	v.PublicKey[0] = 7
	require.NoError(t, st.UpdateValidatorAtIndex(0, v))

	dep := validDeposit(t, st, 7, 1_000_000_000)
	require.NoError(t, ProcessDeposits(st, cfg, []consensusblocks.Deposit{dep}))
	require.Equal(t, 1, st.NumValidators())
	bal, err := st.BalanceAtIndex(0)
	require.NoError(t, err)
	require.Equal(t, cfg.MaxEffectiveBalance+1_000_000_000, bal)
}

func TestProcessDeposits_RejectsBadBranch(t *testing.T) {
	st := testState(t, 0)
	cfg := params.MinimalConfig()
	dep := validDeposit(t, st, 7, 1)
	dep.Proof[0][0] = 0xff

	err := ProcessDeposits(st, cfg, []consensusblocks.Deposit{dep})
	require.ErrorIs(t, err, ErrDepositMerkleBranchInvalid)
}
