package fndsa

import (
	sha3 "golang.org/x/crypto/sha3"
)

// A PRNG based on four parallel SHAKE256 instances, with interleaved
// outputs.
//
// In general this is not better than a single SHAKE256, but it can yield
// some speed-ups when used with SIMD opcodes that can run the four
// SHAKE instances at the same time (e.g. AVX2 on x86 systems).
type shake256x4 struct {
	state [4]sha3.ShakeHash
	buf   [4 * 136]byte
	ptr   int
}

// Create a new SHAKE256x4 instance, initialized with the provided seed.
func newSHAKE256x4(seed []byte) *shake256x4 {
	r := new(shake256x4)
	for i := 0; i < 4; i++ {
		var tmp [1]byte
		tmp[0] = byte(i)
		r.state[i] = sha3.NewShake256()
		r.state[i].Write(seed)
		r.state[i].Write(tmp[:])
	}
	r.ptr = len(r.buf)
	return r
}

// Get next 16-bit value from a SHAKE256x4 instance.
func (r *shake256x4) next_u16() uint16 {
	ptr := r.ptr
	if ptr >= (len(r.buf) - 1) {
		r.refill()
		ptr = 0
	}
	r.ptr = ptr + 2
	return uint16(r.buf[ptr]) + (uint16(r.buf[ptr+1]) << 8)
}

// Refill a SHAKE256x4 instance.
func (r *shake256x4) refill() {
	var tmp [136]byte
	for i := 0; i < 4; i++ {
		r.state[i].Read(tmp[:])
		for j := 0; j < 17; j++ {
			u := (i << 3) + (j << 5)
			v := j << 3
			copy(r.buf[u:u+8], tmp[v:v+8])
		}
	}
	r.ptr = 0
}

// IndexSampler produces the coefficient positions checked by
// [FastVerify]. It is deterministic for a given seed, so that tests can
// reproduce exact index subsets; callers should nevertheless draw a
// fresh subset for every verification rather than reuse one.
//
// An IndexSampler is not safe for concurrent use; give each worker its
// own (see [IndexSampler.Fork]).
type IndexSampler struct {
	seed  []byte
	pc    *shake256x4
	forks uint32
}

// NewIndexSampler creates a sampler from an explicit seed. The seed
// should contain enough entropy (e.g. 32 bytes from crypto/rand) when
// the sampler is used against adversarial input.
func NewIndexSampler(seed []byte) *IndexSampler {
	return &IndexSampler{
		seed: append([]byte(nil), seed...),
		pc:   newSHAKE256x4(seed),
	}
}

// Sample returns k indices, uniformly and independently drawn in [0,n).
// n must be a power of two between 1 and 65536. Indices may repeat.
func (s *IndexSampler) Sample(n int, k int) []int {
	return s.SampleInto(make([]int, k), n)
}

// SampleInto fills dst with indices drawn uniformly in [0,n) and
// returns it. n must be a power of two between 1 and 65536.
func (s *IndexSampler) SampleInto(dst []int, n int) []int {
	if n <= 0 || n > 65536 || (n&(n-1)) != 0 {
		panic("fndsa: index range must be a power of two up to 65536")
	}
	mask := uint16(n - 1)
	for i := range dst {
		// n divides 65536, so masking introduces no bias.
		dst[i] = int(s.pc.next_u16() & mask)
	}
	return dst
}

// Fork derives a new, independent sampler. The i-th fork of a sampler
// depends only on the parent seed and i, not on how many indices were
// drawn from the parent.
func (s *IndexSampler) Fork() *IndexSampler {
	s.forks++
	seed := make([]byte, 0, len(s.seed)+5)
	seed = append(seed, s.seed...)
	seed = append(seed, 0xFF,
		byte(s.forks), byte(s.forks>>8), byte(s.forks>>16), byte(s.forks>>24))
	return NewIndexSampler(seed)
}
