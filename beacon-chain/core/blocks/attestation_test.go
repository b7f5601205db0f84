package blocks

import (
	"testing"

	"github.com/prysmaticlabs/go-bitfield"
	"github.com/sigmachain/beacon-core/config/params"
	"github.com/sigmachain/beacon-core/consensus-types/attestation"
	"github.com/sigmachain/beacon-core/consensus-types/primitives"
	"github.com/stretchr/testify/require"
)

func testAttestation(slot primitives.Slot, numValidators int) attestation.Attestation {
	bits := bitfield.NewBitlist(uint64(numValidators))
	for i := 0; i < numValidators; i++ {
		bits.SetBitAt(uint64(i), true)
	}
	return attestation.Attestation{
		AggregationBits: bits,
		Data:            attestation.Data{Slot: slot},
	}
}

func TestProcessAttestations_AcceptsInWindow(t *testing.T) {
	st := testState(t, 3)
	require.NoError(t, st.SetSlot(1))
	cfg := params.MinimalConfig()

	err := ProcessAttestations(st, stubVerifier{ok: true}, cfg, []attestation.Attestation{testAttestation(1, 3)})
	require.NoError(t, err)
}

func TestProcessAttestations_RejectsOutOfWindow(t *testing.T) {
	st := testState(t, 3)
	cfg := params.MinimalConfig()
	require.NoError(t, st.SetSlot(primitives.Slot(cfg.SlotsPerEpoch+2)))

	err := ProcessAttestations(st, stubVerifier{ok: true}, cfg, []attestation.Attestation{testAttestation(0, 3)})
	require.ErrorIs(t, err, ErrAttestationSlotOutOfRange)
}

func TestProcessAttestations_RejectsBadSignature(t *testing.T) {
	st := testState(t, 3)
	require.NoError(t, st.SetSlot(1))
	cfg := params.MinimalConfig()

	err := ProcessAttestations(st, stubVerifier{ok: false}, cfg, []attestation.Attestation{testAttestation(1, 3)})
	require.ErrorIs(t, err, ErrAttestationSignatureInvalid)
}
