// Package falcon1024 wraps package fndsa for the Falcon-1024 parameter set,
// with degree-specific types: a Falcon-1024 key or signature cannot be
// mixed with Falcon-512 values.
package falcon1024

import (
	"github.com/benjivesterby/go-fn-dsa-fverify/fndsa"
)

const (
	// N is the degree.
	N = 1024

	// PublicKeySize is the size of an encoded public key, in bytes.
	PublicKeySize = 1793

	// MaxSignatureSize is the size of a padded encoded signature, in
	// bytes.
	MaxSignatureSize = 1280
)

// Params is the underlying parameter set.
var Params = fndsa.Falcon1024

// PublicKey is a Falcon-1024 verifying key.
type PublicKey struct {
	inner *fndsa.PublicKey
}

// Signature is a Falcon-1024 signature.
type Signature struct {
	inner *fndsa.Signature
}

// ExpandedSignature is a Falcon-1024 signature expanded against a message
// and a public key (see [fndsa.ExpandedSignature]).
type ExpandedSignature struct {
	inner *fndsa.ExpandedSignature
}

// NewPublicKey builds a public key from the coefficients of h, all
// lower than q.
func NewPublicKey(h *[N]uint16) (*PublicKey, error) {
	pk, err := fndsa.NewPublicKey(Params, h[:])
	if err != nil {
		return nil, err
	}
	return &PublicKey{pk}, nil
}

// DecodePublicKey decodes a public key of PublicKeySize bytes.
func DecodePublicKey(b []byte) (*PublicKey, error) {
	pk, err := fndsa.DecodePublicKey(Params, b)
	if err != nil {
		return nil, err
	}
	return &PublicKey{pk}, nil
}

// Encode returns the encoded public key.
func (pk *PublicKey) Encode() []byte {
	return pk.inner.Encode()
}

// Unwrap returns the underlying key.
func (pk *PublicKey) Unwrap() *fndsa.PublicKey {
	return pk.inner
}

// DecodeSignature decodes a signature, padded or not.
func DecodeSignature(b []byte) (*Signature, error) {
	sig, err := fndsa.DecodeSignature(Params, b)
	if err != nil {
		return nil, err
	}
	return &Signature{sig}, nil
}

// Encode returns the encoded signature.
func (sig *Signature) Encode() []byte {
	return sig.inner.Encode(Params)
}

// Unwrap returns the underlying signature.
func (sig *Signature) Unwrap() *fndsa.Signature {
	return sig.inner
}

// NewExpandedSignature decodes and expands sig for msg and pk.
func NewExpandedSignature(msg []byte, sig *Signature, pk *PublicKey) (*ExpandedSignature, error) {
	es, err := fndsa.NewExpandedSignature(msg, sig.inner, pk.inner)
	if err != nil {
		return nil, err
	}
	return &ExpandedSignature{es}, nil
}

// Verify runs the full verification of sig on msg. See [fndsa.Verify].
func Verify(msg []byte, sig *Signature, pk *PublicKey) (bool, error) {
	return fndsa.Verify(msg, sig.inner, pk.inner)
}

// VerifyExpanded is [fndsa.VerifyExpanded].
func VerifyExpanded(msg []byte, es *ExpandedSignature, pk *PublicKey) bool {
	return fndsa.VerifyExpanded(msg, es.inner, pk.inner)
}

// FastVerify is [fndsa.FastVerify]; indices must be in [0,N).
func FastVerify(msg []byte, es *ExpandedSignature, pk *PublicKey, indices []int) bool {
	return fndsa.FastVerify(msg, es.inner, pk.inner, indices)
}

// FastFullVerify is [fndsa.FastFullVerify]; indices must be in [0,N).
func FastFullVerify(msg []byte, es *ExpandedSignature, pk *PublicKey, indices []int) bool {
	return fndsa.FastFullVerify(msg, es.inner, pk.inner, indices)
}

// HashToPoint hashes a message and a salt into the challenge polynomial.
func HashToPoint(msg []byte, salt []byte) (c [N]uint16) {
	copy(c[:], fndsa.HashToPoint(Params, msg, salt))
	return
}

// Convolve returns a*b mod (X^N+1) mod q. All coefficients must be lower
// than q.
func Convolve(a *[N]uint16, b *[N]uint16) (c [N]uint16) {
	copy(c[:], Params.Convolve(a[:], b[:]))
	return
}
