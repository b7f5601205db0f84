// Package bls wraps the BLS12-381 signature scheme behind small opaque
// interfaces so the state-transition driver never touches the curve
// library directly; the production implementation is backed by
// github.com/supranational/blst, the teacher's own BLS backend.
package bls

import "errors"

// ErrZeroKey is returned when a secret or public key is the all-zero value.
var ErrZeroKey = errors.New("bls: key is zero")

// domainSeparationTag is the ciphersuite string blst mixes into every hash-
// to-curve call; it must match on both the signing and verifying side.
var domainSeparationTag = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_")

// SecretKey is a BLS12-381 private key.
type SecretKey interface {
	PublicKey() PublicKey
	Sign(msg []byte) Signature
	Marshal() []byte
}

// PublicKey is a BLS12-381 public key (G1 point, min-pubkey-size variant).
type PublicKey interface {
	Marshal() []byte
	Equal(other PublicKey) bool
}

// Signature is a BLS12-381 signature (G2 point).
type Signature interface {
	Marshal() []byte
}

// Verifier is the capability the state-transition driver depends on; it
// never sees a concrete curve type, only this interface, so block/
// attestation processing can be tested against a stub that always
// accepts or always rejects.
type Verifier interface {
	// VerifyCompressed verifies a single signature over msg under pubKey.
	VerifyCompressed(pubKey PublicKey, msg []byte, sig Signature) bool
	// FastAggregateVerify verifies an aggregate signature where every
	// public key signed the identical msg (the attestation-aggregation
	// case).
	FastAggregateVerify(pubKeys []PublicKey, msg [32]byte, sig Signature) bool
}
