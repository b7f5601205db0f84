package bls

import (
	"crypto/rand"
	"fmt"

	"github.com/pkg/errors"
	blst "github.com/supranational/blst/bindings/go"
)

type blstPublicKey = blst.P1Affine
type blstSignature = blst.P2Affine

const secretKeyLength = 32

type secretKey struct {
	p *blst.SecretKey
}

// RandKey generates a new private key using system randomness.
func RandKey() (SecretKey, error) {
	var ikm [32]byte
	if _, err := rand.Read(ikm[:]); err != nil {
		return nil, err
	}
	k := &secretKey{p: blst.KeyGen(ikm[:])}
	raw := k.Marshal()
	if isZero(raw) {
		return nil, ErrZeroKey
	}
	return k, nil
}

// SecretKeyFromBytes deserializes a 32-byte secret key.
func SecretKeyFromBytes(b []byte) (SecretKey, error) {
	if len(b) != secretKeyLength {
		return nil, fmt.Errorf("bls: secret key must be %d bytes", secretKeyLength)
	}
	if isZero(b) {
		return nil, ErrZeroKey
	}
	p := new(blst.SecretKey).Deserialize(b)
	if p == nil {
		return nil, errors.New("bls: could not deserialize secret key")
	}
	return &secretKey{p: p}, nil
}

func (s *secretKey) PublicKey() PublicKey {
	return &publicKey{p: new(blstPublicKey).From(s.p)}
}

func (s *secretKey) Sign(msg []byte) Signature {
	sig := new(blstSignature).Sign(s.p, msg, domainSeparationTag)
	return &signature{s: sig}
}

func (s *secretKey) Marshal() []byte {
	b := s.p.Serialize()
	if len(b) < secretKeyLength {
		pad := make([]byte, secretKeyLength-len(b))
		b = append(pad, b...)
	}
	return b
}

type publicKey struct {
	p *blstPublicKey
}

// PublicKeyFromBytes deserializes a compressed G1 public key.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	p := new(blstPublicKey).Uncompress(b)
	if p == nil {
		return nil, errors.New("bls: could not uncompress public key")
	}
	if !p.KeyValidate() {
		return nil, errors.New("bls: invalid public key")
	}
	return &publicKey{p: p}, nil
}

func (p *publicKey) Marshal() []byte { return p.p.Compress() }

func (p *publicKey) Equal(other PublicKey) bool {
	o, ok := other.(*publicKey)
	if !ok {
		return false
	}
	return string(p.Marshal()) == string(o.Marshal())
}

type signature struct {
	s *blstSignature
}

// SignatureFromBytes deserializes a compressed G2 signature.
func SignatureFromBytes(b []byte) (Signature, error) {
	s := new(blstSignature).Uncompress(b)
	if s == nil {
		return nil, errors.New("bls: could not uncompress signature")
	}
	return &signature{s: s}, nil
}

func (s *signature) Marshal() []byte { return s.s.Compress() }

// AggregateSignatures combines compressed signatures into a single
// aggregate signature, as required before FastAggregateVerify.
func AggregateSignatures(sigs [][]byte) (Signature, error) {
	return aggregateSignatures(sigs)
}

func aggregateSignatures(sigs [][]byte) (Signature, error) {
	if len(sigs) == 0 {
		return nil, errors.New("bls: no signatures to aggregate")
	}
	agg := new(blst.P2Aggregate)
	if !agg.AggregateCompressed(sigs, true) {
		return nil, errors.New("bls: could not aggregate signatures")
	}
	return &signature{s: agg.ToAffine()}, nil
}

// blstVerifier is the production Verifier, backed by blst's pairing checks.
type blstVerifier struct{}

// NewVerifier returns the blst-backed Verifier.
func NewVerifier() Verifier { return blstVerifier{} }

func (blstVerifier) VerifyCompressed(pubKey PublicKey, msg []byte, sig Signature) bool {
	pk, ok := pubKey.(*publicKey)
	if !ok {
		return false
	}
	sg, ok := sig.(*signature)
	if !ok {
		return false
	}
	return sg.s.Verify(true, pk.p, true, msg, domainSeparationTag)
}

func (blstVerifier) FastAggregateVerify(pubKeys []PublicKey, msg [32]byte, sig Signature) bool {
	if len(pubKeys) == 0 {
		return false
	}
	sg, ok := sig.(*signature)
	if !ok {
		return false
	}
	pts := make([]*blstPublicKey, len(pubKeys))
	for i, pk := range pubKeys {
		p, ok := pk.(*publicKey)
		if !ok {
			return false
		}
		pts[i] = p.p
	}
	return sg.s.FastAggregateVerify(true, pts, msg[:], domainSeparationTag)
}

func isZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
