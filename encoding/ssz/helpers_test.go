package ssz

import "github.com/sigmachain/beacon-core/crypto/hash"

func sha256Sum(data []byte) [32]byte {
	return hash.Hash(data)
}
