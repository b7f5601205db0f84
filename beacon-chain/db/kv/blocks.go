package kv

import (
	"context"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/sigmachain/beacon-core/consensus-types/blocks"
)

// SaveBlock persists signed under root, indexing it by slot in both
// directions (slot -> root and root -> slot) in the same bbolt
// transaction, so a crash mid-write never leaves the block stored without
// its indices or vice versa.
func (s *Store) SaveBlock(_ context.Context, root [32]byte, signed blocks.SignedBlock) error {
	enc, err := s.blockCodec.EncodeBlock(signed)
	if err != nil {
		return errors.Wrap(err, "failed to encode block")
	}
	slot := uint64(signed.Block.Slot)

	return s.update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(blocksBucket).Put(root[:], enc); err != nil {
			return err
		}
		if err := tx.Bucket(blockRootsBySlotBucket).Put(slotKey(slot), root[:]); err != nil {
			return err
		}
		return tx.Bucket(slotsByBlockRootBucket).Put(root[:], slotKey(slot))
	})
}

// Block returns the signed block stored under root, and ok is false if no
// block is stored there.
func (s *Store) Block(_ context.Context, root [32]byte) (signed blocks.SignedBlock, ok bool, err error) {
	err = s.view(func(tx *bolt.Tx) error {
		enc := tx.Bucket(blocksBucket).Get(root[:])
		if enc == nil {
			return nil
		}
		decoded, derr := s.blockCodec.DecodeBlock(enc)
		if derr != nil {
			return errors.Wrap(derr, "failed to decode block")
		}
		signed = decoded
		ok = true
		return nil
	})
	return signed, ok, err
}

// HasBlock reports whether a block is stored under root.
func (s *Store) HasBlock(_ context.Context, root [32]byte) (bool, error) {
	var has bool
	err := s.view(func(tx *bolt.Tx) error {
		has = tx.Bucket(blocksBucket).Get(root[:]) != nil
		return nil
	})
	return has, err
}

// BlockRootAtSlot returns the block root stored at slot, and ok is false if
// no block was indexed at that slot.
func (s *Store) BlockRootAtSlot(_ context.Context, slot uint64) (root [32]byte, ok bool, err error) {
	err = s.view(func(tx *bolt.Tx) error {
		raw := tx.Bucket(blockRootsBySlotBucket).Get(slotKey(slot))
		if raw == nil {
			return nil
		}
		copy(root[:], raw)
		ok = true
		return nil
	})
	return root, ok, err
}

// SlotByBlockRoot returns the slot a block root was indexed at, and ok is
// false if root is unknown.
func (s *Store) SlotByBlockRoot(_ context.Context, root [32]byte) (slot uint64, ok bool, err error) {
	err = s.view(func(tx *bolt.Tx) error {
		raw := tx.Bucket(slotsByBlockRootBucket).Get(root[:])
		if raw == nil {
			return nil
		}
		slot = decodeSlotKey(raw)
		ok = true
		return nil
	})
	return slot, ok, err
}

// DeleteBlock removes root's block and its slot indices in a single
// transaction.
func (s *Store) DeleteBlock(_ context.Context, root [32]byte) error {
	return s.update(func(tx *bolt.Tx) error {
		raw := tx.Bucket(slotsByBlockRootBucket).Get(root[:])
		if raw != nil {
			if err := tx.Bucket(blockRootsBySlotBucket).Delete(raw); err != nil {
				return err
			}
		}
		if err := tx.Bucket(slotsByBlockRootBucket).Delete(root[:]); err != nil {
			return err
		}
		return tx.Bucket(blocksBucket).Delete(root[:])
	})
}

// SaveHeadBlockRoot records root as the current head block.
func (s *Store) SaveHeadBlockRoot(_ context.Context, root [32]byte) error {
	return s.update(func(tx *bolt.Tx) error {
		return tx.Bucket(chainMetadataBucket).Put(headBlockRootKey, root[:])
	})
}

// HeadBlockRoot returns the last root saved by SaveHeadBlockRoot, and ok is
// false if none has ever been saved.
func (s *Store) HeadBlockRoot(_ context.Context) (root [32]byte, ok bool, err error) {
	err = s.view(func(tx *bolt.Tx) error {
		raw := tx.Bucket(chainMetadataBucket).Get(headBlockRootKey)
		if raw == nil {
			return nil
		}
		copy(root[:], raw)
		ok = true
		return nil
	})
	return root, ok, err
}

// SaveGenesisBlockRoot records root as the genesis block.
func (s *Store) SaveGenesisBlockRoot(_ context.Context, root [32]byte) error {
	return s.update(func(tx *bolt.Tx) error {
		return tx.Bucket(chainMetadataBucket).Put(genesisBlockRootKey, root[:])
	})
}

// GenesisBlockRoot returns the root saved by SaveGenesisBlockRoot, and ok
// is false if none has ever been saved.
func (s *Store) GenesisBlockRoot(_ context.Context) (root [32]byte, ok bool, err error) {
	err = s.view(func(tx *bolt.Tx) error {
		raw := tx.Bucket(chainMetadataBucket).Get(genesisBlockRootKey)
		if raw == nil {
			return nil
		}
		copy(root[:], raw)
		ok = true
		return nil
	})
	return root, ok, err
}
