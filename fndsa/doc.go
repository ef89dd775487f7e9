// This package implements verification of Falcon / FN-DSA signatures,
// with a tiered verifier meant for high-throughput streams.
//
// Key pairs and signatures are characterized by a degree, 512 or 1024,
// each with its own parameter set ([Falcon512], [Falcon1024]). All
// functions are written once against a *[Params] value; the falcon512
// and falcon1024 packages wrap them with degree-specific types.
//
// A public key holds a polynomial h modulo q = 12289. A signature
// consists of a 40-byte salt and the compressed encoding of a short
// polynomial s2; with c the hash of the message and salt into a
// polynomial ([HashToPoint]), the implicit first half of the signature
// is s1 = c - s2*h mod X^n+1 mod q. The signature is valid if (s1,s2)
// is short enough: ||s1||^2 + ||s2||^2 <= Beta2.
//
// Verification can be done in a single call with [Verify]. For streams
// of signatures, the work is split:
//
//   - [NewExpandedSignature] decodes the signature and computes the
//     challenge c and the product s2*h (one NTT-based convolution). This
//     is the only step that can fail, with a *[DecodeError], if the
//     signature encoding is malformed.
//
//   - [FastVerify] checks only a few coefficients of s1, chosen by the
//     caller (ideally at random for each call, see [IndexSampler]). It
//     never rejects a valid signature, and rejects most invalid ones.
//
//   - [VerifyExpanded] performs the full norm check, and is
//     authoritative.
//
//   - [FastFullVerify] combines both: the full check is skipped when the
//     fast check already fails. It always returns the same result as
//     VerifyExpanded.
//
// Key generation and signing are not implemented here. Nothing in this
// package uses global mutable state or ambient randomness; an
// ExpandedSignature and a PublicKey are immutable and may be shared
// across goroutines.
//
// WARNING: this implementation is not hardened against side-channel
// attacks (timing may depend on the signature and key values).
package fndsa
