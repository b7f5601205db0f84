// Package p2ptypes defines the Eth2 RPC wire messages a transport
// implementation (libp2p, out of this core's scope) would marshal:
// status/handshake and block-range/block-root request messages, plus the
// chunk-framing status byte and unsigned-LEB128 length-prefix codec every
// response stream uses.
package p2ptypes

import (
	"github.com/sigmachain/beacon-core/consensus-types/primitives"
)

// Status is exchanged on connection to agree on a common chain view before
// any sync request is issued.
type Status struct {
	ForkDigest     [4]byte
	FinalizedRoot  [32]byte
	FinalizedEpoch primitives.Epoch
	HeadRoot       [32]byte
	HeadSlot       primitives.Slot
}

// GoodbyeCode names why a peer is being disconnected.
type GoodbyeCode uint64

const (
	GoodbyeCodeClientShutdown    GoodbyeCode = 1
	GoodbyeCodeIrrelevantNetwork GoodbyeCode = 2
	GoodbyeCodeFaultError        GoodbyeCode = 3
)

// Goodbye carries the reason a peer is being disconnected.
type Goodbye struct {
	Reason GoodbyeCode
}

// BlocksByRangeRequest asks for up to Count blocks starting at StartSlot,
// stepping by Step slots between each (Step == 1 requests every slot).
type BlocksByRangeRequest struct {
	StartSlot primitives.Slot
	Count     uint64
	Step      uint64
}

// BlocksByRootRequest asks for the blocks named by Roots directly, used to
// fetch specific blocks (e.g. to resolve an unknown parent) rather than a
// contiguous range.
type BlocksByRootRequest struct {
	Roots [][32]byte
}

// Ping carries a peer's own sequence number, answered with the
// responder's Ping as a liveness/metadata-freshness check.
type Ping uint64

// MetaData advertises a peer's current ENR sequence number and subscribed
// attestation subnets.
type MetaData struct {
	SeqNumber uint64
	Attnets   [8]byte
}

// ResponseCode is the single status byte prefixing every chunk in a
// streamed RPC response.
type ResponseCode uint8

const (
	ResponseCodeSuccess             ResponseCode = 0
	ResponseCodeInvalidRequest      ResponseCode = 1
	ResponseCodeServerError         ResponseCode = 2
	ResponseCodeResourceUnavailable ResponseCode = 3
)
