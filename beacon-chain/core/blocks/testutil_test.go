package blocks

import (
	"testing"

	beaconstate "github.com/sigmachain/beacon-core/beacon-chain/state"
	"github.com/sigmachain/beacon-core/beacon-chain/state/phase0"
	"github.com/sigmachain/beacon-core/config/params"
	"github.com/sigmachain/beacon-core/crypto/bls"
	"github.com/stretchr/testify/require"
)

// stubVerifier is a crypto/bls.Verifier that always returns ok, letting
// operation-application tests exercise state mutation without real BLS
// key material.
type stubVerifier struct{ ok bool }

func (s stubVerifier) VerifyCompressed(bls.PublicKey, []byte, bls.Signature) bool { return s.ok }
func (s stubVerifier) FastAggregateVerify([]bls.PublicKey, [32]byte, bls.Signature) bool {
	return s.ok
}

func testState(t *testing.T, numValidators int) beaconstate.BeaconState {
	t.Helper()
	cfg := params.MinimalConfig()
	s, err := phase0.NewGenesis(cfg, 0, [32]byte{}, beaconstate.Eth1Data{})
	require.NoError(t, err)
	for i := 0; i < numValidators; i++ {
		v := &beaconstate.Validator{
			EffectiveBalance: cfg.MaxEffectiveBalance,
			ExitEpoch:        farFutureEpoch,
			WithdrawableEpoch: farFutureEpoch,
		}
		v.PublicKey[0] = byte(i + 1)
		require.NoError(t, s.AppendValidator(v))
		require.NoError(t, s.AppendBalance(cfg.MaxEffectiveBalance))
	}
	return s
}
