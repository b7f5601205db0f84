package bls

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandKey_SignAndVerify(t *testing.T) {
	sk, err := RandKey()
	require.NoError(t, err)

	pk := sk.PublicKey()
	msg := []byte("attestation data root")
	sig := sk.Sign(msg)

	v := NewVerifier()
	require.True(t, v.VerifyCompressed(pk, msg, sig))
	require.False(t, v.VerifyCompressed(pk, []byte("different message"), sig))
}

func TestSecretKeyFromBytes_RoundTrip(t *testing.T) {
	sk, err := RandKey()
	require.NoError(t, err)

	raw := sk.Marshal()
	require.Len(t, raw, secretKeyLength)

	sk2, err := SecretKeyFromBytes(raw)
	require.NoError(t, err)
	require.Equal(t, sk.PublicKey().Marshal(), sk2.PublicKey().Marshal())
}

func TestSecretKeyFromBytes_RejectsZeroAndBadLength(t *testing.T) {
	_, err := SecretKeyFromBytes(make([]byte, secretKeyLength))
	require.ErrorIs(t, err, ErrZeroKey)

	_, err = SecretKeyFromBytes(make([]byte, secretKeyLength-1))
	require.Error(t, err)
}

func TestPublicKeyFromBytes_RoundTrip(t *testing.T) {
	sk, err := RandKey()
	require.NoError(t, err)

	b := sk.PublicKey().Marshal()
	pk, err := PublicKeyFromBytes(b)
	require.NoError(t, err)
	require.True(t, pk.Equal(sk.PublicKey()))
}

func TestSignatureFromBytes_RoundTrip(t *testing.T) {
	sk, err := RandKey()
	require.NoError(t, err)
	msg := []byte("block root")
	sig := sk.Sign(msg)

	b := sig.Marshal()
	sig2, err := SignatureFromBytes(b)
	require.NoError(t, err)

	v := NewVerifier()
	require.True(t, v.VerifyCompressed(sk.PublicKey(), msg, sig2))
}

func TestFastAggregateVerify(t *testing.T) {
	msg := [32]byte{1, 2, 3}
	var pubKeys []PublicKey
	var sigs []Signature
	for i := 0; i < 8; i++ {
		sk, err := RandKey()
		require.NoError(t, err)
		pubKeys = append(pubKeys, sk.PublicKey())
		sigs = append(sigs, sk.Sign(msg[:]))
	}

	raw := make([][]byte, len(sigs))
	for i, s := range sigs {
		raw[i] = s.Marshal()
	}
	agg, err := aggregateSignatures(raw)
	require.NoError(t, err)

	v := NewVerifier()
	require.True(t, v.FastAggregateVerify(pubKeys, msg, agg))

	otherSk, err := RandKey()
	require.NoError(t, err)
	require.False(t, v.FastAggregateVerify(append(pubKeys, otherSk.PublicKey()), msg, agg))
}
