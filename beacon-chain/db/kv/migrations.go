package kv

import (
	"encoding/binary"

	bolt "go.etcd.io/bbolt"
)

// migration mutates the database from one schema version to the next;
// migrations[i] upgrades a database at version i to version i+1.
type migration func(tx *bolt.Tx) error

// migrations holds every schema upgrade in ascending order. Appending a new
// migration bumps the current schema version by one; existing entries must
// never be edited or reordered once released, since a live database may be
// sitting at any prior version.
var migrations = []migration{
	// version 0 -> 1: no-op placeholder for the store's initial schema,
	// kept so the version counter starts at a real migration rather than
	// an implicit "no migrations have ever run" zero state.
	func(tx *bolt.Tx) error { return nil },
}

// runMigrations reads the database's current schema version from
// chainMetadataBucket and applies every migration from that point forward,
// persisting the new version after each step so a crash mid-migration
// resumes where it left off rather than re-running completed steps.
func runMigrations(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(chainMetadataBucket)
		version := 0
		if raw := bucket.Get(schemaVersionKey); raw != nil {
			version = int(binary.BigEndian.Uint64(raw))
		}

		for version < len(migrations) {
			if err := migrations[version](tx); err != nil {
				return err
			}
			version++
			buf := make([]byte, 8)
			binary.BigEndian.PutUint64(buf, uint64(version))
			if err := bucket.Put(schemaVersionKey, buf); err != nil {
				return err
			}
		}
		return nil
	})
}
