package ssz

import (
	"encoding/binary"

	"github.com/sigmachain/beacon-core/container/trie"
)

// marshalSequence implements the standard SSZ fixed/variable split shared by
// Container and composite Vector/List: fixed-size elements are encoded
// inline; variable-size elements are replaced by a 4-byte offset into a
// trailing variable region holding their encodings in order.
func marshalSequence(schemas []Schema, nodes []trie.Node) ([]byte, error) {
	fixedLen := 0
	for _, s := range schemas {
		if size, fixed := s.FixedSize(); fixed {
			fixedLen += size
		} else {
			fixedLen += 4
		}
	}

	fixedPart := make([]byte, 0, fixedLen)
	var variablePart []byte

	for i, s := range schemas {
		enc, err := s.Marshal(nodes[i])
		if err != nil {
			return nil, err
		}
		if _, fixed := s.FixedSize(); fixed {
			fixedPart = append(fixedPart, enc...)
			continue
		}
		offset := uint32(fixedLen + len(variablePart))
		var offBuf [4]byte
		binary.LittleEndian.PutUint32(offBuf[:], offset)
		fixedPart = append(fixedPart, offBuf[:]...)
		variablePart = append(variablePart, enc...)
	}

	return append(fixedPart, variablePart...), nil
}

// unmarshalSequence is the inverse of marshalSequence: it validates that
// offsets are monotonically non-decreasing, within bounds, and that the
// first offset equals the fixed-prefix length.
func unmarshalSequence(schemas []Schema, data []byte) ([]trie.Node, error) {
	fixedLen := 0
	for _, s := range schemas {
		if size, fixed := s.FixedSize(); fixed {
			fixedLen += size
		} else {
			fixedLen += 4
		}
	}
	if len(data) < fixedLen {
		return nil, ErrMalformedSSZ
	}

	nodes := make([]trie.Node, len(schemas))
	var offsets []int
	var variableIdx []int

	cursor := 0
	for i, s := range schemas {
		if size, fixed := s.FixedSize(); fixed {
			n, err := s.Unmarshal(data[cursor : cursor+size])
			if err != nil {
				return nil, err
			}
			nodes[i] = n
			cursor += size
			continue
		}
		if cursor+4 > len(data) {
			return nil, ErrMalformedSSZ
		}
		off := int(binary.LittleEndian.Uint32(data[cursor : cursor+4]))
		offsets = append(offsets, off)
		variableIdx = append(variableIdx, i)
		cursor += 4
	}

	if len(offsets) == 0 {
		return nodes, nil
	}
	if offsets[0] != fixedLen {
		return nil, ErrMalformedSSZ
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return nil, ErrMalformedSSZ
		}
	}
	for _, off := range offsets {
		if off < 0 || off > len(data) {
			return nil, ErrMalformedSSZ
		}
	}

	for i, idx := range variableIdx {
		start := offsets[i]
		end := len(data)
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		n, err := schemas[idx].Unmarshal(data[start:end])
		if err != nil {
			return nil, err
		}
		nodes[idx] = n
	}
	return nodes, nil
}
