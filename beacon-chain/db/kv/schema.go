package kv

import "encoding/binary"

// Buckets holding the hot/finalized column families this store exposes:
// blocks and states keyed by their root, plus the secondary slot indices
// that let a caller look either direction (root -> slot, slot -> root)
// without decoding every value in a bucket.
var (
	blocksBucket           = []byte("blocks")
	statesBucket           = []byte("states")
	stateSummaryBucket     = []byte("state-summaries") // root -> slot, for every known state whether or not its full value is archived
	blockRootsBySlotBucket = []byte("block-roots-by-slot")
	stateRootsBySlotBucket = []byte("state-roots-by-slot")
	slotsByBlockRootBucket = []byte("slots-by-block-root")
	slotsByStateRootBucket = []byte("slots-by-state-root")
	chainMetadataBucket    = []byte("chain-metadata")

	headBlockRootKey    = []byte("head-block-root")
	genesisBlockRootKey = []byte("genesis-block-root")
	schemaVersionKey    = []byte("schema-version")
)

var allBuckets = [][]byte{
	blocksBucket,
	statesBucket,
	stateSummaryBucket,
	blockRootsBySlotBucket,
	stateRootsBySlotBucket,
	slotsByBlockRootBucket,
	slotsByStateRootBucket,
	chainMetadataBucket,
}

// slotKey big-endian encodes slot so bolt's lexicographic key ordering
// matches numeric order, letting range scans (e.g. "every block root from
// slot A to slot B") use a plain cursor walk.
func slotKey(slot uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, slot)
	return buf
}

func decodeSlotKey(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}
