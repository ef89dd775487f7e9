package fndsa

import (
	sha3 "golang.org/x/crypto/sha3"
)

// PublicKey is a verifying key: the polynomial h with coefficients in
// [0,q-1]. A PublicKey is immutable once constructed and may be shared
// by any number of concurrent verifications.
type PublicKey struct {
	params *Params

	// h in "ext" representation.
	h []uint16

	// h in "ntt" representation, so that each verification saves one
	// forward transform.
	h_ntt []uint16

	// SHAKE256 of the encoded key, used to bind expanded signatures to
	// the key they were computed with.
	fingerprint [64]byte
}

// NewPublicKey builds a public key from the coefficients of h. The slice
// must contain exactly p.N values, all lower than q; it is copied.
func NewPublicKey(p *Params, h []uint16) (*PublicKey, error) {
	if len(h) != p.N {
		return nil, malformed("public key", "wrong number of coefficients")
	}
	for _, x := range h {
		if x >= q {
			return nil, malformed("public key", "coefficient out of range")
		}
	}
	pk := &PublicKey{
		params: p,
		h:      append([]uint16(nil), h...),
	}
	pk.init()
	return pk, nil
}

// DecodePublicKey decodes an encoded public key (header byte 0x00+logn,
// then 14 bits per coefficient). The header must match the parameter set.
func DecodePublicKey(p *Params, b []byte) (*PublicKey, error) {
	if len(b) != p.PublicKeySize() {
		return nil, malformed("public key", "invalid length")
	}
	if b[0] != byte(0x00+p.LogN) {
		return nil, malformed("public key", "invalid header")
	}
	h := make([]uint16, p.N)
	if _, err := modq_decode(p.LogN, b[1:], h); err != nil {
		return nil, err
	}
	pk := &PublicKey{
		params: p,
		h:      h,
	}
	pk.init()
	return pk, nil
}

func (pk *PublicKey) init() {
	logn := pk.params.LogN
	pk.h_ntt = append([]uint16(nil), pk.h...)
	mqpoly_ext_to_int(logn, pk.h_ntt)
	mqpoly_int_to_ntt(logn, pk.h_ntt)
	pk.fingerprint = hash_verifying_key(pk.Encode())
}

// Params returns the parameter set of this key.
func (pk *PublicKey) Params() *Params {
	return pk.params
}

// Coefficients returns a copy of h.
func (pk *PublicKey) Coefficients() []uint16 {
	return append([]uint16(nil), pk.h...)
}

// Encode returns the encoded public key.
func (pk *PublicKey) Encode() []byte {
	p := pk.params
	b := make([]byte, p.PublicKeySize())
	b[0] = byte(0x00 + p.LogN)
	modq_encode(p.LogN, pk.h, b[1:])
	return b
}

// Equal reports whether two public keys are identical.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	return other != nil && pk.params == other.params &&
		pk.fingerprint == other.fingerprint
}

// Hash the provided verifying (public) key into 64 bytes, using SHAKE256.
func hash_verifying_key(vkey []byte) [64]byte {
	sh := sha3.NewShake256()
	sh.Write(vkey)
	var d [64]byte
	sh.Read(d[:])
	return d
}
