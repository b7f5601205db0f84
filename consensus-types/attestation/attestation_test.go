package attestation

import (
	"testing"

	"github.com/prysmaticlabs/go-bitfield"
	"github.com/sigmachain/beacon-core/beacon-chain/state"
	"github.com/sigmachain/beacon-core/consensus-types/primitives"
	"github.com/stretchr/testify/require"
)

func TestData_Equal(t *testing.T) {
	a := Data{Slot: 1, CommitteeIndex: 2, BeaconBlockRoot: [32]byte{1}}
	b := a
	require.True(t, a.Equal(b))

	b.Slot = 2
	require.False(t, a.Equal(b))
}

func TestData_HashTreeRoot_Deterministic(t *testing.T) {
	d := Data{
		Slot:            5,
		CommitteeIndex:  1,
		BeaconBlockRoot: [32]byte{9},
		Source:          state.Checkpoint{Epoch: 1, Root: [32]byte{1}},
		Target:          state.Checkpoint{Epoch: 2, Root: [32]byte{2}},
	}
	r1 := d.HashTreeRoot()
	r2 := d.HashTreeRoot()
	require.Equal(t, r1, r2)

	d.Slot = 6
	require.NotEqual(t, r1, d.HashTreeRoot())
}

func TestAttestation_HashTreeRoot(t *testing.T) {
	bits := bitfield.NewBitlist(64)
	bits.SetBitAt(0, true)
	bits.SetBitAt(3, true)

	a := Attestation{
		AggregationBits: bits,
		Data:            Data{Slot: 1, CommitteeIndex: 0},
		Signature:       [96]byte{1, 2, 3},
	}
	root, err := a.HashTreeRoot(64)
	require.NoError(t, err)
	require.NotEqual(t, [32]byte{}, root)

	// Changing the signature must change the root.
	a2 := a
	a2.Signature[0] = 0xff
	root2, err := a2.HashTreeRoot(64)
	require.NoError(t, err)
	require.NotEqual(t, root, root2)
}

func TestAttestation_SigningRoot(t *testing.T) {
	a := Attestation{Data: Data{Slot: 1}}
	require.Equal(t, a.Data.HashTreeRoot(), a.SigningRoot())
}

func TestIndexedAttestation_Fields(t *testing.T) {
	ia := IndexedAttestation{
		AttestingIndices: []primitives.ValidatorIndex{3, 1, 2},
		Data:             Data{Slot: 7},
	}
	require.Len(t, ia.AttestingIndices, 3)
}
