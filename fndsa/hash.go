package fndsa

import (
	sha3 "golang.org/x/crypto/sha3"
)

// Hash the message into a polynomial.
//
//	logn     degree
//	salt     signature salt (nonce), normally 40 bytes
//	msg      message
//	c        output slice
//
// The hash is SHAKE256(salt || msg); 16-bit big-endian chunks of its
// output are read, values of 5*q = 61445 and above are discarded, others
// are reduced modulo q. The output polynomial is in "ext" representation
// (values in [0,q-1]).
func hash_to_point(logn uint, salt []byte, msg []byte, c []uint16) {
	n := 1 << logn
	sh := sha3.NewShake256()
	sh.Write(salt)
	sh.Write(msg)

	// Squeeze in chunks; the expected number of 16-bit draws is about
	// 1.07*n, and a chunk of 2*n bytes is almost always sufficient.
	var buf [256]byte
	ptr := len(buf)
	i := 0
	for i < n {
		if ptr == len(buf) {
			sh.Read(buf[:])
			ptr = 0
		}
		w := (uint32(buf[ptr]) << 8) | uint32(buf[ptr+1])
		ptr += 2
		if w < 5*q {
			for w >= q {
				w -= q
			}
			c[i] = uint16(w)
			i++
		}
	}
}

// HashToPoint derives the challenge polynomial c from a message and a
// salt. The output has p.N coefficients in [0,q-1]; it depends only on
// (salt, msg).
func HashToPoint(p *Params, msg []byte, salt []byte) []uint16 {
	c := make([]uint16, p.N)
	hash_to_point(p.LogN, salt, msg, c)
	return c
}
