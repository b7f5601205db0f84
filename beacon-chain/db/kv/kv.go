// Package kv is the bbolt-backed storage adapter (component G): blocks and
// states keyed by root, slot indices in both directions, and a
// state-storage-frequency policy that keeps every block but archives a
// full BeaconState only every stateStorageFrequency slots (every slot's
// state is still summarized by root -> slot in stateSummaryBucket, so a
// skipped slot's state can be rebuilt by replaying forward from the last
// archived ancestor).
package kv

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	prombolt "github.com/prysmaticlabs/prombbolt"
	bolt "go.etcd.io/bbolt"
)

// DatabaseFileName is the bbolt file this store opens under its data
// directory.
const DatabaseFileName = "beaconchain.db"

// databaseFilePermissions restricts the db file to owner read/write, matching
// the sensitivity of consensus state on disk.
const databaseFilePermissions = 0600

// boltOpenTimeout bounds how long Open waits for another process to
// release its lock on the same file before giving up.
const boltOpenTimeout = time.Second

// stateStorageFrequency is how many slots apart a full BeaconState is
// archived to statesBucket; every slot in between is still summarized by
// root -> slot in stateSummaryBucket.
const stateStorageFrequency = 2048

// Store is a bbolt-backed implementation of the block/state storage
// adapter. The zero value is not usable; construct with NewKVStore.
type Store struct {
	db           *bolt.DB
	databasePath string
	mu           sync.Mutex
	blockCodec   BlockCodec
	stateCodec   StateCodec
}

// NewKVStore opens (creating if necessary) a bbolt database at dirPath,
// ensures every bucket this store uses exists, runs any pending schema
// migrations, and registers a Prometheus collector for the underlying
// bbolt file.
func NewKVStore(dirPath string, blockCodec BlockCodec, stateCodec StateCodec) (*Store, error) {
	if err := os.MkdirAll(dirPath, 0700); err != nil {
		return nil, errors.Wrap(err, "failed to create database directory")
	}

	datafile := filepath.Join(dirPath, DatabaseFileName)
	db, err := bolt.Open(datafile, databaseFilePermissions, &bolt.Options{Timeout: boltOpenTimeout})
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errors.New("cannot obtain database lock, database may be in use by another process")
		}
		return nil, err
	}

	store := &Store{
		db:           db,
		databasePath: dirPath,
		blockCodec:   blockCodec,
		stateCodec:   stateCodec,
	}

	if err := store.db.Update(func(tx *bolt.Tx) error {
		return createBuckets(tx, allBuckets...)
	}); err != nil {
		return nil, err
	}

	if err := runMigrations(store.db); err != nil {
		return nil, err
	}

	if err := prometheus.Register(createBoltCollector(store.db)); err != nil {
		return nil, errors.Wrap(err, "failed to register boltdb collector")
	}

	return store, nil
}

// Close releases the underlying bbolt file and unregisters its collector.
func (s *Store) Close() error {
	prometheus.Unregister(createBoltCollector(s.db))
	return s.db.Close()
}

// DatabasePath returns the directory this store writes its file under.
func (s *Store) DatabasePath() string {
	return s.databasePath
}

func (s *Store) update(fn func(tx *bolt.Tx) error) error {
	return s.db.Update(fn)
}

func (s *Store) view(fn func(tx *bolt.Tx) error) error {
	return s.db.View(fn)
}

func createBuckets(tx *bolt.Tx, buckets ...[]byte) error {
	for _, bucket := range buckets {
		if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
			return err
		}
	}
	return nil
}

func createBoltCollector(db *bolt.DB) prometheus.Collector {
	return prombolt.New("beaconDB", db)
}
