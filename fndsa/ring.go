package fndsa

// Exported ring operations. All polynomials are in "ext" representation
// (coefficients in [0,q-1]) and have exactly p.N coefficients; inputs
// are not modified.

// Convolve returns a*b mod (X^n+1) mod q, computed with the NTT.
func (p *Params) Convolve(a []uint16, b []uint16) []uint16 {
	p.check_poly(a)
	p.check_poly(b)
	logn := p.LogN
	t1 := append([]uint16(nil), a...)
	t2 := append([]uint16(nil), b...)
	mqpoly_ext_to_int(logn, t1)
	mqpoly_int_to_ntt(logn, t1)
	mqpoly_ext_to_int(logn, t2)
	mqpoly_int_to_ntt(logn, t2)
	mqpoly_mul_ntt(logn, t1, t2)
	mqpoly_ntt_to_int(logn, t1)
	mqpoly_int_to_ext(logn, t1)
	return t1
}

// ConvolveSchoolbook returns a*b mod (X^n+1) mod q, computed with the
// quadratic schoolbook method. It is meant as a reference for Convolve,
// with which it agrees on every coefficient.
func (p *Params) ConvolveSchoolbook(a []uint16, b []uint16) []uint16 {
	p.check_poly(a)
	p.check_poly(b)
	n := p.N
	c := make([]uint16, n)
	for i := 0; i < n; i++ {
		s := uint64(0)
		for j := 0; j <= i; j++ {
			s += uint64(uint32(a[j]) * uint32(b[i-j]))
		}
		// Wrapped terms are negated; adding q^2 - x keeps the sum
		// non-negative.
		for j := i + 1; j < n; j++ {
			s += uint64((q * q) - uint32(a[j])*uint32(b[i+n-j]))
		}
		c[i] = uint16(s % q)
	}
	return c
}

// Divide returns a/b mod (X^n+1) mod q. The second return value is false
// if b is not invertible, in which case the first one is nil.
func (p *Params) Divide(a []uint16, b []uint16) ([]uint16, bool) {
	p.check_poly(a)
	p.check_poly(b)
	logn := p.LogN
	t1 := append([]uint16(nil), a...)
	t2 := append([]uint16(nil), b...)
	mqpoly_ext_to_int(logn, t1)
	mqpoly_int_to_ntt(logn, t1)
	mqpoly_ext_to_int(logn, t2)
	mqpoly_int_to_ntt(logn, t2)
	if !mqpoly_div_ntt(logn, t1, t2) {
		return nil, false
	}
	mqpoly_ntt_to_int(logn, t1)
	mqpoly_int_to_ext(logn, t1)
	return t1, true
}

// Reduce maps a signed polynomial to its "ext" representation (each
// coefficient reduced into [0,q-1]).
func (p *Params) Reduce(s []int16) []uint16 {
	if len(s) != p.N {
		panic("fndsa: polynomial has the wrong degree")
	}
	d := make([]uint16, p.N)
	for i, x := range s {
		v := int32(x) % q
		if v < 0 {
			v += q
		}
		d[i] = uint16(v)
	}
	return d
}

func (p *Params) check_poly(a []uint16) {
	if len(a) != p.N {
		panic("fndsa: polynomial has the wrong degree")
	}
	for _, x := range a {
		if x >= q {
			panic("fndsa: polynomial coefficient out of range")
		}
	}
}
