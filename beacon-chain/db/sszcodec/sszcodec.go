// Package sszcodec wires beacon-chain/db/kv's injected BlockCodec and
// StateCodec interfaces to the actual SSZ container schemas built in
// consensus-types/blocks and beacon-chain/state/{phase0,altair}. It is kept
// separate from package kv so the storage adapter stays agnostic to which
// fork's concrete BeaconState type a caller is running.
package sszcodec

import (
	"bytes"
	"encoding/gob"

	"github.com/pkg/errors"

	beaconstate "github.com/sigmachain/beacon-core/beacon-chain/state"
	"github.com/sigmachain/beacon-core/beacon-chain/state/altair"
	"github.com/sigmachain/beacon-core/beacon-chain/state/phase0"
	"github.com/sigmachain/beacon-core/config/params"
	"github.com/sigmachain/beacon-core/consensus-types/blocks"
)

// versionTag marks which fork's schema a persisted state blob was encoded
// with, so Decode knows which schema to unmarshal it against.
type versionTag byte

const (
	versionPhase0 versionTag = iota
	versionAltair
)

// BlockCodec encodes/decodes SignedBlock with encoding/gob. SignedBlock is a
// plain, non-recursive value type (Block, Body and their operation lists),
// so there's no SSZ container schema to reuse the way state has one kept
// in each fork's own package; gob round-trips it directly without needing
// one written out field-by-field here.
type BlockCodec struct{}

// EncodeBlock implements kv.BlockCodec.
func (BlockCodec) EncodeBlock(signed blocks.SignedBlock) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(signed); err != nil {
		return nil, errors.Wrap(err, "gob encode block")
	}
	return buf.Bytes(), nil
}

// DecodeBlock implements kv.BlockCodec.
func (BlockCodec) DecodeBlock(data []byte) (blocks.SignedBlock, error) {
	var signed blocks.SignedBlock
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&signed); err != nil {
		return blocks.SignedBlock{}, errors.Wrap(err, "gob decode block")
	}
	return signed, nil
}

// StateCodec encodes/decodes a BeaconState through its own fork's SSZ
// container schema (phase0.State.MarshalSSZ / altair.State.MarshalSSZ),
// prefixed with a one-byte version tag so Decode knows which schema to
// rebuild the tree against.
type StateCodec struct {
	Cfg *params.BeaconChainConfig
}

// EncodeState implements kv.StateCodec.
func (c StateCodec) EncodeState(state beaconstate.BeaconState) ([]byte, error) {
	var tag versionTag
	var body []byte
	var err error

	switch st := state.(type) {
	case *phase0.State:
		tag = versionPhase0
		body, err = st.MarshalSSZ()
	case *altair.State:
		tag = versionAltair
		body, err = st.MarshalSSZ()
	default:
		return nil, errors.Errorf("sszcodec: unsupported BeaconState implementation %T", state)
	}
	if err != nil {
		return nil, errors.Wrap(err, "marshal state")
	}
	return append([]byte{byte(tag)}, body...), nil
}

// DecodeState implements kv.StateCodec.
func (c StateCodec) DecodeState(data []byte) (beaconstate.BeaconState, error) {
	if len(data) < 1 {
		return nil, errors.New("sszcodec: empty state encoding")
	}
	tag, body := versionTag(data[0]), data[1:]
	switch tag {
	case versionPhase0:
		return phase0.UnmarshalSSZSeed(c.Cfg, body)
	case versionAltair:
		return altair.UnmarshalSSZSeed(c.Cfg, body)
	default:
		return nil, errors.Errorf("sszcodec: unknown state version tag %d", tag)
	}
}
