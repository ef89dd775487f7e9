package fndsa

// Signature is a signature as produced by the signer: the random salt
// and the compressed encoding of s2. Signatures are treated as immutable
// values; nothing in this package modifies them.
type Signature struct {
	// Salt is the per-signature nonce (SaltSize bytes).
	Salt []byte

	// S2 is the compressed encoding of s2 (see DecodeS2). It may be
	// zero-padded.
	S2 []byte
}

// DecodeSignature splits an encoded signature (header byte 0x30+logn,
// salt, compressed s2) into its parts. The compressed part is not
// decoded here; it is decoded when the signature is expanded. The
// returned Signature does not share memory with b.
func DecodeSignature(p *Params, b []byte) (*Signature, error) {
	if len(b) < 1+SaltSize+1 {
		return nil, malformed("signature", "truncated input")
	}
	if len(b) > p.MaxSignatureSize() {
		return nil, malformed("signature", "oversized input")
	}
	if b[0] != byte(0x30+p.LogN) {
		return nil, malformed("signature", "invalid header")
	}
	sig := &Signature{
		Salt: append([]byte(nil), b[1:1+SaltSize]...),
		S2:   append([]byte(nil), b[1+SaltSize:]...),
	}
	return sig, nil
}

// Encode returns the encoded signature for parameter set p.
func (sig *Signature) Encode(p *Params) []byte {
	b := make([]byte, 0, 1+len(sig.Salt)+len(sig.S2))
	b = append(b, byte(0x30+p.LogN))
	b = append(b, sig.Salt...)
	b = append(b, sig.S2...)
	return b
}

// Pad returns a copy of the signature whose compressed part is padded
// with zeros to the fixed size used by FN-DSA. The padded signature
// decodes to the same s2. If the compressed part is already too long,
// the signature is returned unchanged.
func (sig *Signature) Pad(p *Params) *Signature {
	size := p.MaxSignatureSize() - 1 - SaltSize
	if len(sig.S2) >= size {
		return sig
	}
	s2 := make([]byte, size)
	copy(s2, sig.S2)
	return &Signature{
		Salt: append([]byte(nil), sig.Salt...),
		S2:   s2,
	}
}
