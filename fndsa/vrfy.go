package fndsa

import (
	"github.com/bits-and-blooms/bitset"
)

// Verify a signature.
//
//	- msg is the signed message
//	- sig is the signature to verify
//	- pk is the verifying key (public)
//
// The signature is decoded and expanded, then checked with
// [VerifyExpanded]. If the signature cannot be decoded, false is
// returned along with a *DecodeError; a nil error with a false result
// means the signature is well-formed but not valid.
func Verify(msg []byte, sig *Signature, pk *PublicKey) (bool, error) {
	es, err := NewExpandedSignature(msg, sig, pk)
	if err != nil {
		return false, err
	}
	return VerifyExpanded(msg, es, pk), nil
}

// VerifyExpanded verifies an expanded signature: with s1 = c - s2*h,
// the signature is valid if and only if ||s1||^2 + ||s2||^2 <= Beta2
// (coefficients of s1 taken as centered integers). False is returned if
// es was built for another message or another key.
func VerifyExpanded(msg []byte, es *ExpandedSignature, pk *PublicKey) bool {
	return es.binds(msg, pk) && es.full_check()
}

// FastVerify checks a subset of the coefficients of s1 = c - s2*h,
// given by indices (positions in [0,n), repetitions allowed; it panics
// on an out-of-range index). It returns false as soon as the checked
// coefficients alone exceed the norm budget left by s2, i.e. when
//
//	s1[i]^2 > Beta2 - ||s2||^2
//
// for one index i, or when the sum of s1[i]^2 over the distinct indices
// exceeds that same budget. Both conditions are implied by the full
// norm check, so a valid signature always passes: FastVerify has no
// false negatives, but it may accept an invalid signature, which is
// why a true result must be confirmed with [VerifyExpanded] (see
// [FastFullVerify]).
//
// For an invalid signature the s1 coefficients are close to uniform
// modulo q, and a handful of indices is enough to reject with high
// probability; the caller should draw the indices afresh for each call
// (see [IndexSampler]).
func FastVerify(msg []byte, es *ExpandedSignature, pk *PublicKey, indices []int) bool {
	return es.binds(msg, pk) && es.fast_check(indices)
}

// FastFullVerify runs [FastVerify] and, only if it passes,
// [VerifyExpanded]. Its result is always equal to that of
// VerifyExpanded; the fast check only avoids the full norm computation
// on signatures it already rejects. The binding of es to msg and pk is
// checked once.
func FastFullVerify(msg []byte, es *ExpandedSignature, pk *PublicKey, indices []int) bool {
	valid, _ := TieredVerify(msg, es, pk, indices)
	return valid
}

// TieredVerify makes the same decision as [FastFullVerify], and also
// reports whether the rejection (if any) came from the fast check. A
// binding mismatch counts as a fast rejection.
func TieredVerify(msg []byte, es *ExpandedSignature, pk *PublicKey, indices []int) (valid bool, fastRejected bool) {
	if !es.binds(msg, pk) || !es.fast_check(indices) {
		return false, true
	}
	return es.full_check(), false
}

// Norm budget left for s1 by s2; ok is false if s2 alone exceeds the
// bound.
func (es *ExpandedSignature) budget() (b uint64, ok bool) {
	p := es.params
	if es.s2_norm > p.Beta2 {
		return 0, false
	}
	return p.Beta2 - es.s2_norm, true
}

func (es *ExpandedSignature) full_check() bool {
	budget, ok := es.budget()
	if !ok {
		return false
	}
	norm1 := uint64(0)
	for i := 0; i < es.params.N; i++ {
		x := int64(es.s1_at(i))
		norm1 += uint64(x * x)
	}
	return norm1 <= budget
}

func (es *ExpandedSignature) fast_check(indices []int) bool {
	budget, ok := es.budget()
	if !ok {
		return false
	}
	n := es.params.N
	if len(indices) == 1 {
		i := indices[0]
		if i < 0 || i >= n {
			panic("fndsa: fast verification index out of range")
		}
		x := int64(es.s1_at(i))
		return uint64(x*x) <= budget
	}

	// One bit per coefficient, n <= 1024.
	var words [16]uint64
	seen := bitset.From(words[:(n+63)>>6])
	sum := uint64(0)
	for _, i := range indices {
		if i < 0 || i >= n {
			panic("fndsa: fast verification index out of range")
		}
		x := int64(es.s1_at(i))
		x2 := uint64(x * x)
		if x2 > budget {
			return false
		}
		if seen.Test(uint(i)) {
			continue
		}
		seen.Set(uint(i))
		sum += x2
		if sum > budget {
			return false
		}
	}
	return true
}
