package fndsa

import (
	sha3 "golang.org/x/crypto/sha3"
)

// ExpandedSignature is a signature decoded and combined with the message
// and public key it is checked against: it holds the decoded s2, the
// challenge c = H(salt || msg), and the product t = s2*h. Both
// [FastVerify] and [VerifyExpanded] work from it, so that a signature
// costs a single convolution no matter how many checks are run.
//
// An ExpandedSignature is immutable after construction and may be shared
// by concurrent readers without locking.
type ExpandedSignature struct {
	params *Params

	// Decoded s2.
	s2 []int16

	// Squared norm of s2.
	s2_norm uint64

	// Challenge c and product t = s2*h, "ext" representation.
	c []uint16
	t []uint16

	// Binding to the message and key used at construction.
	msg_digest     [32]byte
	pk_fingerprint [64]byte
}

// NewExpandedSignature decodes the signature and precomputes everything
// both verification tiers need. The only possible error is a
// *DecodeError for a malformed signature; no validity judgment is made
// here (an expanded signature may well be invalid). The result depends
// only on (msg, sig, pk).
func NewExpandedSignature(msg []byte, sig *Signature, pk *PublicKey) (*ExpandedSignature, error) {
	p := pk.params
	logn := p.LogN
	if len(sig.Salt) != SaltSize {
		return nil, malformed("signature", "invalid salt length")
	}
	s2, err := DecodeS2(p, sig.S2)
	if err != nil {
		return nil, err
	}

	es := &ExpandedSignature{
		params:         p,
		s2:             s2,
		s2_norm:        signed_poly_sqnorm(logn, s2),
		c:              make([]uint16, p.N),
		t:              make([]uint16, p.N),
		msg_digest:     sha3.Sum256(msg),
		pk_fingerprint: pk.fingerprint,
	}

	// t <- s2*h
	mqpoly_signed_to_int(logn, s2, es.t)
	mqpoly_int_to_ntt(logn, es.t)
	mqpoly_mul_ntt(logn, es.t, pk.h_ntt)
	mqpoly_ntt_to_int(logn, es.t)
	mqpoly_int_to_ext(logn, es.t)

	// c <- H(salt || msg)
	hash_to_point(logn, sig.Salt, msg, es.c)
	return es, nil
}

// Params returns the parameter set of the expanded signature.
func (es *ExpandedSignature) Params() *Params {
	return es.params
}

// S2 returns a copy of the decoded s2.
func (es *ExpandedSignature) S2() []int16 {
	return append([]int16(nil), es.s2...)
}

// Challenge returns a copy of the challenge polynomial c.
func (es *ExpandedSignature) Challenge() []uint16 {
	return append([]uint16(nil), es.c...)
}

// Product returns a copy of t = s2*h mod (X^n+1) mod q.
func (es *ExpandedSignature) Product() []uint16 {
	return append([]uint16(nil), es.t...)
}

// Check whether the expanded signature was built for this message and
// this key.
func (es *ExpandedSignature) binds(msg []byte, pk *PublicKey) bool {
	if pk.params != es.params || pk.fingerprint != es.pk_fingerprint {
		return false
	}
	return sha3.Sum256(msg) == es.msg_digest
}

// Centered value of s1[i] = c[i] - t[i] mod q.
func (es *ExpandedSignature) s1_at(i int) int32 {
	d := uint32(es.c[i]) - uint32(es.t[i])
	d += q & -(d >> 31)
	return mq_center(d)
}
