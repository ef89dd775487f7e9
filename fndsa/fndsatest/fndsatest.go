// Package fndsatest synthesizes verification instances for tests and
// benchmarks of package fndsa.
//
// Signing needs the secret NTRU basis, which is out of scope here.
// Instead, [Forge] picks the signature first and solves for the key: it
// samples a salt and two short polynomials s1 and s2 with the same
// Gaussian width a real signer produces, then sets h = (c - s1)/s2, with
// c the hash of the message. The resulting (message, signature, key)
// triple satisfies s1 + s2*h = c exactly like a genuine signature, so
// it exercises verification faithfully. A key obtained this way is only
// good for the one message it was forged for.
package fndsatest

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/benjivesterby/go-fn-dsa-fverify/fndsa"
	"github.com/pkg/errors"
	sha3 "golang.org/x/crypto/sha3"
)

// Sigma returns the standard deviation of the signature coefficients for
// a parameter set.
func Sigma(p *fndsa.Params) float64 {
	if p.LogN == 10 {
		return 168.388571447
	}
	return 165.736617183
}

// NewReader returns a deterministic random source: the SHAKE256 output
// stream for the provided seed.
func NewReader(seed []byte) io.Reader {
	sh := sha3.NewShake256()
	sh.Write(seed)
	return sh
}

// Forge returns a public key and a signature on msg that is valid for
// that key. rng provides all randomness.
func Forge(p *fndsa.Params, msg []byte, rng io.Reader) (*fndsa.PublicKey, *fndsa.Signature, error) {
	sigma := Sigma(p)
	s1 := make([]int16, p.N)
	s2 := make([]int16, p.N)
	for {
		salt := make([]byte, fndsa.SaltSize)
		if _, err := io.ReadFull(rng, salt); err != nil {
			return nil, nil, errors.Wrap(err, "reading salt")
		}
		if err := sampleGaussian(rng, sigma, s1); err != nil {
			return nil, nil, err
		}
		if err := sampleGaussian(rng, sigma, s2); err != nil {
			return nil, nil, err
		}
		if sqnorm(s1)+sqnorm(s2) > p.Beta2 {
			continue
		}
		pk, sig, err := ForgeWith(p, msg, salt, s1, s2)
		if err != nil {
			// s2 is not encodable within the signature size, or is not
			// invertible; a real signer restarts as well.
			continue
		}
		return pk, sig, nil
	}
}

// ForgeWith is like [Forge] but with caller-chosen salt and halves: it
// returns the key h = (c - s1)/s2 and the signature (salt, s2). The norm
// of (s1,s2) is not checked, so that signatures just outside the
// acceptance bound can be built. An error is returned if s2 cannot be
// encoded or is not invertible modulo X^n+1 and q.
func ForgeWith(p *fndsa.Params, msg []byte, salt []byte, s1 []int16, s2 []int16) (*fndsa.PublicKey, *fndsa.Signature, error) {
	enc, err := fndsa.EncodeS2(p, s2)
	if err != nil {
		return nil, nil, err
	}
	c := fndsa.HashToPoint(p, msg, salt)
	r1 := p.Reduce(s1)
	for i := range c {
		c[i] = uint16((uint32(c[i]) + fndsa.Modulus - uint32(r1[i])) % fndsa.Modulus)
	}
	h, ok := p.Divide(c, p.Reduce(s2))
	if !ok {
		return nil, nil, errors.New("s2 is not invertible")
	}
	pk, err := fndsa.NewPublicKey(p, h)
	if err != nil {
		return nil, nil, err
	}
	sig := &fndsa.Signature{
		Salt: append([]byte(nil), salt...),
		S2:   enc,
	}
	return pk, sig, nil
}

// Item is one element of a synthesized stream.
type Item struct {
	// Valid tells whether Signature is valid for Message under
	// PublicKey.
	Valid     bool
	Message   []byte
	Signature *fndsa.Signature
	PublicKey *fndsa.PublicKey
}

// GenerateStream synthesizes numValid valid items followed by numInvalid
// invalid ones (optionally shuffled). Messages are 32 random bytes.
// An invalid item carries a signature forged under one key and the
// public key of an unrelated key pair, as if signed with the wrong key.
func GenerateStream(p *fndsa.Params, rng io.Reader, numValid, numInvalid int, shuffle bool) ([]Item, error) {
	items := make([]Item, 0, numValid+numInvalid)
	for i := 0; i < numValid+numInvalid; i++ {
		msg := make([]byte, 32)
		if _, err := io.ReadFull(rng, msg); err != nil {
			return nil, errors.Wrap(err, "reading message")
		}
		pk, sig, err := Forge(p, msg, rng)
		if err != nil {
			return nil, errors.WithMessagef(err, "forging item %d", i)
		}
		valid := i < numValid
		if !valid {
			other := make([]byte, 32)
			if _, err := io.ReadFull(rng, other); err != nil {
				return nil, errors.Wrap(err, "reading message")
			}
			if pk, _, err = Forge(p, other, rng); err != nil {
				return nil, errors.WithMessagef(err, "forging wrong key for item %d", i)
			}
		}
		items = append(items, Item{
			Valid:     valid,
			Message:   msg,
			Signature: sig,
			PublicKey: pk,
		})
	}
	if shuffle {
		// Fisher-Yates, driven by rng.
		for i := len(items) - 1; i > 0; i-- {
			j, err := uniform(rng, uint64(i+1))
			if err != nil {
				return nil, err
			}
			items[i], items[j] = items[j], items[i]
		}
	}
	return items, nil
}

// Fill s with rounded samples of a centered Gaussian (Box-Muller).
func sampleGaussian(rng io.Reader, sigma float64, s []int16) error {
	var buf [16]byte
	for i := 0; i < len(s); i += 2 {
		if _, err := io.ReadFull(rng, buf[:]); err != nil {
			return errors.Wrap(err, "sampling Gaussian")
		}
		u1 := (float64(binary.LittleEndian.Uint64(buf[0:8])>>11) + 1) / (1 << 53)
		u2 := float64(binary.LittleEndian.Uint64(buf[8:16])>>11) / (1 << 53)
		r := sigma * math.Sqrt(-2*math.Log(u1))
		s[i] = clamp(math.Round(r * math.Cos(2*math.Pi*u2)))
		if i+1 < len(s) {
			s[i+1] = clamp(math.Round(r * math.Sin(2*math.Pi*u2)))
		}
	}
	return nil
}

// Values outside the encodable range are clamped just beyond it, so
// that the encoder rejects them and the sample is drawn again.
func clamp(x float64) int16 {
	if x > fndsa.MaxCoefficient+1 {
		return fndsa.MaxCoefficient + 1
	}
	if x < -(fndsa.MaxCoefficient + 1) {
		return -(fndsa.MaxCoefficient + 1)
	}
	return int16(x)
}

// Uniform integer in [0,n), by rejection.
func uniform(rng io.Reader, n uint64) (int, error) {
	var buf [8]byte
	limit := math.MaxUint64 - (math.MaxUint64 % n)
	for {
		if _, err := io.ReadFull(rng, buf[:]); err != nil {
			return 0, errors.Wrap(err, "sampling index")
		}
		v := binary.LittleEndian.Uint64(buf[:])
		if v < limit {
			return int(v % n), nil
		}
	}
}

func sqnorm(s []int16) uint64 {
	r := uint64(0)
	for _, x := range s {
		r += uint64(int64(x) * int64(x))
	}
	return r
}

// Corrupt returns a copy of b with one bit flipped, the bit position
// being given by pos (reduced modulo the bit length of b).
func Corrupt(b []byte, pos uint) []byte {
	d := append([]byte(nil), b...)
	if len(d) == 0 {
		return d
	}
	pos %= uint(len(d)) * 8
	d[pos>>3] ^= byte(1) << (pos & 7)
	return d
}
