package trie

import "github.com/sigmachain/beacon-core/crypto/hash"

// maxZeroHashDepth bounds the precomputed zero-hash table. 64 covers every
// schema depth this repo ever constructs (a List[byte, 2^63] is absurd).
const maxZeroHashDepth = 64

// ZeroHashes[d] is the hash_tree_root of an all-zero subtree of depth d.
// ZeroHashes[0] is the 32 zero bytes leaf; ZeroHashes[d+1] =
// sha256(ZeroHashes[d] || ZeroHashes[d]). Grounded on the zero-hash
// recurrence in prysmaticlabs-geth-sharding/shared/trieutil/sparse_merkle.go.
var ZeroHashes = computeZeroHashes()

func computeZeroHashes() [][32]byte {
	table := make([][32]byte, maxZeroHashDepth+1)
	for d := 1; d <= maxZeroHashDepth; d++ {
		table[d] = hash.HashPair(table[d-1], table[d-1])
	}
	return table
}
