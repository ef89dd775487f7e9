package fndsa

// Computations modulo q = 12289.
//
// Values are kept in Montgomery representation with R = 2^32: x is
// represented by x*R mod q. Representatives are in the [1,q] range
// (value q stands for zero), which makes the constant-time corrections
// below a single conditional addition.
//
// Three polynomial representations are used:
//
//	"ext"   plain coefficients in [0,q-1] (external format, as decoded)
//	"int"   Montgomery representation, coefficients in [1,q]
//	"ntt"   NTT of an "int" polynomial (also Montgomery, in [1,q])

const q = 12289

// -1/q mod 2^32
const q1i = 4143984639

// 2^64 mod q (R^2, used to convert into Montgomery representation)
const r2 = 5664

// 2^32 mod q (Montgomery representation of 1)
const r1 = 10952

// Primitive 2048-th root of unity modulo q; its 1024-th power is -1, so
// it can be used for the negacyclic NTT for all degrees up to 1024.
const mq_psi = 1945

// Addition modulo q (inputs and output in [1,q]).
func mq_add(x, y uint32) uint32 {
	z := x + y - q
	z += q & -((z - 1) >> 31)
	return z
}

// Subtraction modulo q (inputs and output in [1,q]).
func mq_sub(x, y uint32) uint32 {
	z := x - y
	z += q & -((z - 1) >> 31)
	return z
}

// Halving modulo q (input and output in [1,q]).
func mq_half(x uint32) uint32 {
	return (x + (q & -(x & 1))) >> 1
}

// Montgomery multiplication: returns x*y/2^32 mod q, in [1,q]. Inputs
// must be in [1,q] (or, more generally, x*y < 2^32).
func mq_mmul(x, y uint32) uint32 {
	z := uint64(x) * uint64(y)
	m := uint32(z) * q1i
	w := uint32((z + uint64(m)*q) >> 32)
	w += q & -((w - 1) >> 31)
	return w
}

// Division modulo q: returns x/y mod q (both in [1,q], plain values, not
// Montgomery-adjusted: mq_mmul(r2, mq_mmul(mq_div(x, y), y)) == x). If
// y is zero (i.e. y == q) then q (zero) is returned.
func mq_div(x, y uint32) uint32 {
	// Convert y to Montgomery, then raise it to q-2 = 12287 =
	// 0b10111111111111 with a square-and-multiply chain; the result is
	// 1/y in Montgomery representation.
	ym := mq_mmul(y, r2)
	e := uint32(r1)
	for i := 13; i >= 0; i-- {
		e = mq_mmul(e, e)
		if ((12287 >> uint(i)) & 1) != 0 {
			e = mq_mmul(e, ym)
		}
	}
	return mq_mmul(x, e)
}

// NTT twiddle tables: mq_gm[k] = psi^rev(k) and mq_igm[k] = psi^(-rev(k)),
// both in Montgomery representation, for k = 0..1023, with rev() the
// 10-bit bit-reversal. For a degree n = 2^logn < 1024, the first n
// entries are exactly the twiddles of the degree-n transform.
var mq_gm, mq_igm = mq_make_tables()

func mq_make_tables() (gm [1024]uint16, igm [1024]uint16) {
	// Plain (non-Montgomery) powers of psi and of 1/psi.
	var pw, ipw [1024]uint32
	psi_inv := mq_pow_plain(mq_psi, 2047)
	pw[0] = 1
	ipw[0] = 1
	for i := 1; i < 1024; i++ {
		pw[i] = (pw[i-1] * mq_psi) % q
		ipw[i] = (ipw[i-1] * psi_inv) % q
	}
	for k := 0; k < 1024; k++ {
		r := bit_rev10(k)
		gm[k] = uint16((pw[r] << 16) % q * (1 << 16) % q)
		igm[k] = uint16((ipw[r] << 16) % q * (1 << 16) % q)
	}
	return
}

// x^e mod q, plain integers (only used for table construction).
func mq_pow_plain(x uint32, e uint32) uint32 {
	r := uint32(1)
	x %= q
	for e > 0 {
		if (e & 1) != 0 {
			r = (r * x) % q
		}
		x = (x * x) % q
		e >>= 1
	}
	return r
}

func bit_rev10(k int) int {
	r := 0
	for i := 0; i < 10; i++ {
		r = (r << 1) | ((k >> uint(i)) & 1)
	}
	return r
}

// Convert a polynomial from "ext" to "int" representation, in place.
func mqpoly_ext_to_int(logn uint, a []uint16) {
	n := 1 << logn
	for i := 0; i < n; i++ {
		x := uint32(a[i])
		x += q & -((x - 1) >> 31)
		a[i] = uint16(mq_mmul(x, r2))
	}
}

// Convert a polynomial from "int" to "ext" representation, in place.
func mqpoly_int_to_ext(logn uint, a []uint16) {
	n := 1 << logn
	for i := 0; i < n; i++ {
		x := mq_mmul(uint32(a[i]), 1)
		x &= -((x - q) >> 31)
		a[i] = uint16(x)
	}
}

// Convert a signed polynomial (coefficients supposedly in [-q,+q]) into
// "int" representation.
func mqpoly_signed_to_int(logn uint, s []int16, d []uint16) {
	n := 1 << logn
	for i := 0; i < n; i++ {
		x := uint32(int32(s[i]))
		x += q & -(x >> 31)
		x += q & -((x - 1) >> 31)
		d[i] = uint16(mq_mmul(x, r2))
	}
}

// Forward NTT, in place ("int" -> "ntt").
func mqpoly_int_to_ntt(logn uint, a []uint16) {
	n := 1 << logn
	t := n
	for m := 1; m < n; m <<= 1 {
		ht := t >> 1
		j1 := 0
		for i := 0; i < m; i++ {
			s := uint32(mq_gm[m+i])
			for j := j1; j < j1+ht; j++ {
				u := uint32(a[j])
				v := mq_mmul(uint32(a[j+ht]), s)
				a[j] = uint16(mq_add(u, v))
				a[j+ht] = uint16(mq_sub(u, v))
			}
			j1 += t
		}
		t = ht
	}
}

// Inverse NTT, in place ("ntt" -> "int").
func mqpoly_ntt_to_int(logn uint, a []uint16) {
	n := 1 << logn
	t := 1
	for m := n; m > 1; m >>= 1 {
		hm := m >> 1
		dt := t << 1
		j1 := 0
		for i := 0; i < hm; i++ {
			s := uint32(mq_igm[hm+i])
			for j := j1; j < j1+t; j++ {
				u := uint32(a[j])
				v := uint32(a[j+t])
				a[j] = uint16(mq_add(u, v))
				a[j+t] = uint16(mq_mmul(mq_sub(u, v), s))
			}
			j1 += dt
		}
		t = dt
	}

	// Divide by n: ni = R/n (Montgomery representation of 1/n).
	ni := uint32(r1)
	for m := n; m > 1; m >>= 1 {
		ni = mq_half(ni)
	}
	for i := 0; i < n; i++ {
		a[i] = uint16(mq_mmul(uint32(a[i]), ni))
	}
}

// Multiply polynomial a by polynomial b; both must be in "ntt"
// representation. Result is written into a.
func mqpoly_mul_ntt(logn uint, a []uint16, b []uint16) {
	n := 1 << logn
	for i := 0; i < n; i++ {
		a[i] = uint16(mq_mmul(uint32(a[i]), uint32(b[i])))
	}
}

// Divide polynomial a by polynomial b; both must be in "ntt"
// representation. Result is written into a. If b is not invertible then
// false is returned (and the contents of a are unspecified).
func mqpoly_div_ntt(logn uint, a []uint16, b []uint16) bool {
	n := 1 << logn
	r := uint32(0xFFFFFFFF)
	for i := 0; i < n; i++ {
		y := uint32(b[i])
		r &= y - q
		a[i] = uint16(mq_mmul(mq_div(uint32(a[i]), y), r2))
	}
	return (r >> 31) != 0
}

// Get the centered representative (in [-q/2,+q/2]) of a value in [0,q-1].
func mq_center(x uint32) int32 {
	return int32(x) - int32(q&-(((q>>1)-x)>>31))
}

// Squared norm of a signed polynomial.
func signed_poly_sqnorm(logn uint, s []int16) uint64 {
	n := 1 << logn
	r := uint64(0)
	for i := 0; i < n; i++ {
		x := int64(s[i])
		r += uint64(x * x)
	}
	return r
}
