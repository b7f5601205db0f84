package blocks

import (
	"testing"

	beaconstate "github.com/sigmachain/beacon-core/beacon-chain/state"
	"github.com/sigmachain/beacon-core/config/params"
	"github.com/sigmachain/beacon-core/consensus-types/attestation"
	consensusblocks "github.com/sigmachain/beacon-core/consensus-types/blocks"
	"github.com/sigmachain/beacon-core/consensus-types/primitives"
	"github.com/stretchr/testify/require"
)

func doubleVoteSlashing() consensusblocks.AttesterSlashing {
	source := beaconstate.Checkpoint{Epoch: 0}
	target := beaconstate.Checkpoint{Epoch: 1}
	return consensusblocks.AttesterSlashing{
		Attestation1: attestation.IndexedAttestation{
			AttestingIndices: []primitives.ValidatorIndex{0, 1},
			Data:             attestation.Data{Slot: 1, Source: source, Target: target},
		},
		Attestation2: attestation.IndexedAttestation{
			AttestingIndices: []primitives.ValidatorIndex{1, 2},
			Data:             attestation.Data{Slot: 1, Source: source, Target: target, BeaconBlockRoot: [32]byte{9}},
		},
	}
}

func TestIsSlashableAttestationData_DoubleVote(t *testing.T) {
	as := doubleVoteSlashing()
	require.True(t, IsSlashableAttestationData(as.Attestation1.Data, as.Attestation2.Data))
}

func TestIsSlashableAttestationData_IdenticalNotSlashable(t *testing.T) {
	as := doubleVoteSlashing()
	require.False(t, IsSlashableAttestationData(as.Attestation1.Data, as.Attestation1.Data))
}

func TestProcessAttesterSlashings_SlashesIntersection(t *testing.T) {
	st := testState(t, 3)
	cfg := params.MinimalConfig()
	err := ProcessAttesterSlashings(st, stubVerifier{ok: true}, cfg, 0, []consensusblocks.AttesterSlashing{doubleVoteSlashing()})
	require.NoError(t, err)

	v1, err := st.ValidatorAtIndexReadOnly(1)
	require.NoError(t, err)
	require.True(t, v1.Slashed())

	v0, err := st.ValidatorAtIndexReadOnly(0)
	require.NoError(t, err)
	require.False(t, v0.Slashed())
}

func TestProcessAttesterSlashings_RejectsNonSlashablePair(t *testing.T) {
	st := testState(t, 2)
	cfg := params.MinimalConfig()
	as := doubleVoteSlashing()
	as.Attestation2.Data = as.Attestation1.Data
	err := ProcessAttesterSlashings(st, stubVerifier{ok: true}, cfg, 0, []consensusblocks.AttesterSlashing{as})
	require.ErrorIs(t, err, ErrAttestationsNotSlashable)
}
