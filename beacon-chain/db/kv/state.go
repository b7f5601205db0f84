package kv

import (
	"context"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	beaconstate "github.com/sigmachain/beacon-core/beacon-chain/state"
)

// SaveState records state under root. The full value is only archived to
// statesBucket every stateStorageFrequency slots; every other slot still
// gets a stateSummaryBucket entry (root -> slot) so the gap can be closed
// later by replaying from the nearest archived ancestor.
func (s *Store) SaveState(_ context.Context, root [32]byte, state beaconstate.BeaconState) error {
	slot := uint64(state.Slot())

	return s.update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(stateSummaryBucket).Put(root[:], slotKey(slot)); err != nil {
			return err
		}
		if err := tx.Bucket(stateRootsBySlotBucket).Put(slotKey(slot), root[:]); err != nil {
			return err
		}
		if err := tx.Bucket(slotsByStateRootBucket).Put(root[:], slotKey(slot)); err != nil {
			return err
		}
		if slot%stateStorageFrequency != 0 {
			return nil
		}
		enc, err := s.stateCodec.EncodeState(state)
		if err != nil {
			return errors.Wrap(err, "failed to encode state")
		}
		return tx.Bucket(statesBucket).Put(root[:], enc)
	})
}

// State returns the full archived state at root. ok is false both when
// root is entirely unknown and when root is known only as a summary (its
// slot fell between archive points) — callers needing an unarchived
// state must replay it themselves from the nearest archived ancestor.
func (s *Store) State(_ context.Context, root [32]byte) (state beaconstate.BeaconState, ok bool, err error) {
	err = s.view(func(tx *bolt.Tx) error {
		enc := tx.Bucket(statesBucket).Get(root[:])
		if enc == nil {
			return nil
		}
		decoded, derr := s.stateCodec.DecodeState(enc)
		if derr != nil {
			return errors.Wrap(derr, "failed to decode state")
		}
		state = decoded
		ok = true
		return nil
	})
	return state, ok, err
}

// HasState reports whether root has a full archived state in statesBucket.
func (s *Store) HasState(_ context.Context, root [32]byte) (bool, error) {
	var has bool
	err := s.view(func(tx *bolt.Tx) error {
		has = tx.Bucket(statesBucket).Get(root[:]) != nil
		return nil
	})
	return has, err
}

// HasStateSummary reports whether root is known at all, archived or not.
func (s *Store) HasStateSummary(_ context.Context, root [32]byte) (bool, error) {
	var has bool
	err := s.view(func(tx *bolt.Tx) error {
		has = tx.Bucket(stateSummaryBucket).Get(root[:]) != nil
		return nil
	})
	return has, err
}

// StateSummarySlot returns the slot recorded for root in stateSummaryBucket,
// regardless of whether its full state was archived.
func (s *Store) StateSummarySlot(_ context.Context, root [32]byte) (slot uint64, ok bool, err error) {
	err = s.view(func(tx *bolt.Tx) error {
		raw := tx.Bucket(stateSummaryBucket).Get(root[:])
		if raw == nil {
			return nil
		}
		slot = decodeSlotKey(raw)
		ok = true
		return nil
	})
	return slot, ok, err
}

// StateRootAtSlot returns the state root indexed at slot, and ok is false
// if no state was summarized at that slot.
func (s *Store) StateRootAtSlot(_ context.Context, slot uint64) (root [32]byte, ok bool, err error) {
	err = s.view(func(tx *bolt.Tx) error {
		raw := tx.Bucket(stateRootsBySlotBucket).Get(slotKey(slot))
		if raw == nil {
			return nil
		}
		copy(root[:], raw)
		ok = true
		return nil
	})
	return root, ok, err
}

// HighestArchivedStateRoot returns the archived state root at or below
// slot with the greatest slot number, for replay-forward reconstruction of
// an unarchived state. ok is false if no archived state exists at or
// below slot.
func (s *Store) HighestArchivedStateRoot(_ context.Context, slot uint64) (root [32]byte, ok bool, err error) {
	err = s.view(func(tx *bolt.Tx) error {
		// statesBucket is keyed by root, not slot, so walk
		// stateRootsBySlotBucket downward from slot looking for an entry
		// whose root has a full archive.
		cur := tx.Bucket(stateRootsBySlotBucket).Cursor()
		k, v := cur.Seek(slotKey(slot))
		if k == nil {
			k, v = cur.Last()
		}
		for ; k != nil; k, v = cur.Prev() {
			if decodeSlotKey(k) > slot {
				continue
			}
			var candidate [32]byte
			copy(candidate[:], v)
			if tx.Bucket(statesBucket).Get(candidate[:]) != nil {
				root = candidate
				ok = true
				return nil
			}
		}
		return nil
	})
	return root, ok, err
}
