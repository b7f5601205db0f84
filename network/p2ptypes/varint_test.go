package p2ptypes

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLEB128_RoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 300, 16384, 1 << 32, ^uint64(0)}
	for _, v := range cases {
		enc := EncodeLEB128(v)
		require.LessOrEqual(t, len(enc), maxVarintLen)
		got, err := DecodeLEB128(bufio.NewReader(bytes.NewReader(enc)))
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestLEB128_SingleByteForSmallValues(t *testing.T) {
	require.Equal(t, []byte{0x00}, EncodeLEB128(0))
	require.Equal(t, []byte{0x7f}, EncodeLEB128(127))
	require.Equal(t, []byte{0x80, 0x01}, EncodeLEB128(128))
}

func TestLEB128_RejectsOverlongSequence(t *testing.T) {
	overlong := bytes.Repeat([]byte{0x80}, maxVarintLen+1)
	_, err := DecodeLEB128(bufio.NewReader(bytes.NewReader(overlong)))
	require.ErrorIs(t, err, ErrVarintTooLong)
}

func TestLEB128_TruncatedInputReturnsError(t *testing.T) {
	_, err := DecodeLEB128(bufio.NewReader(bytes.NewReader([]byte{0x80})))
	require.Error(t, err)
}
