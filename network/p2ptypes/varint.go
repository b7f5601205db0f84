package p2ptypes

import (
	"io"

	"github.com/pkg/errors"
)

// maxVarintLen bounds a unsigned-LEB128-encoded uint64 at 10 bytes (7 bits
// of payload per byte, ceil(64/7) = 10), matching the length-prefix cap on
// every chunked RPC response.
const maxVarintLen = 10

// ErrVarintTooLong is returned when a length prefix exceeds maxVarintLen
// bytes without terminating, which can only happen against a malformed or
// hostile peer.
var ErrVarintTooLong = errors.New("p2ptypes: varint exceeds 10 bytes")

// EncodeLEB128 writes v as an unsigned LEB128 varint, used to prefix every
// SSZ-encoded chunk payload with its length.
func EncodeLEB128(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

// DecodeLEB128 reads an unsigned LEB128 varint from r, rejecting anything
// longer than maxVarintLen bytes.
func DecodeLEB128(r io.ByteReader) (uint64, error) {
	var result uint64
	var shift uint
	for i := 0; i < maxVarintLen; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, ErrVarintTooLong
}
