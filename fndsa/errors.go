package fndsa

import (
	"errors"
)

// ErrMalformed is matched (with errors.Is) by every decoding failure:
// truncated input, out-of-range coefficient, invalid header, or
// non-zero padding.
var ErrMalformed = errors.New("fndsa: malformed encoding")

// DecodeError reports a malformed encoding of a signature or public key.
// A DecodeError is a format violation, which is distinct from a
// well-formed signature that fails verification.
type DecodeError struct {
	// What was being decoded ("signature", "s2", "public key").
	Object string

	// Reason describes the violation.
	Reason string
}

func (e *DecodeError) Error() string {
	return "fndsa: malformed " + e.Object + ": " + e.Reason
}

// Unwrap makes errors.Is(err, ErrMalformed) succeed.
func (e *DecodeError) Unwrap() error {
	return ErrMalformed
}

func malformed(object string, reason string) error {
	return &DecodeError{Object: object, Reason: reason}
}
