package fndsa

// Params describes one parameter set. The two standard sets are
// [Falcon512] and [Falcon1024]; all functions of this package are
// written once against a *Params value.
type Params struct {
	// Name of the parameter set ("Falcon-512" or "Falcon-1024").
	Name string

	// LogN is the logarithm of the degree (9 or 10).
	LogN uint

	// N is the degree (ring dimension), equal to 2^LogN.
	N int

	// Beta2 is the acceptance bound on the squared norm of (s1,s2):
	// a signature is valid if and only if ||s1||^2 + ||s2||^2 <= Beta2.
	Beta2 uint64
}

// Falcon512 is the standard parameter set for degree 512.
var Falcon512 = &Params{
	Name:  "Falcon-512",
	LogN:  9,
	N:     512,
	Beta2: 34034726,
}

// Falcon1024 is the standard parameter set for degree 1024.
var Falcon1024 = &Params{
	Name:  "Falcon-1024",
	LogN:  10,
	N:     1024,
	Beta2: 70265242,
}

// Modulus is the fixed prime modulus q = 12289 shared by both parameter
// sets.
const Modulus = q

// SaltSize is the length, in bytes, of the per-signature random salt
// (nonce).
const SaltSize = 40

// MaxCoefficient is the largest absolute value a coefficient of s2 may
// have in the compressed encoding.
const MaxCoefficient = 2047

// ParamsForLogN returns the standard parameter set for the provided
// logarithmic degree, or nil if logn is neither 9 nor 10.
func ParamsForLogN(logn uint) *Params {
	switch logn {
	case 9:
		return Falcon512
	case 10:
		return Falcon1024
	default:
		return nil
	}
}

// PublicKeySize returns the size of an encoded public key, in bytes.
func (p *Params) PublicKeySize() int {
	return 1 + (7 << (p.LogN - 2))
}

// MaxSignatureSize returns the maximum size of an encoded signature, in
// bytes (header, salt and padded compressed s2).
func (p *Params) MaxSignatureSize() int {
	logn := p.LogN
	return 44 + 3*(256>>(10-logn)) + 2*(128>>(10-logn)) +
		3*(64>>(10-logn)) + 2*(16>>(10-logn)) -
		2*(2>>(10-logn)) - 8*(1>>(10-logn))
}

// String implements fmt.Stringer.
func (p *Params) String() string {
	return p.Name
}
