// Package platform defines the asymmetric cryptography capability whisper
// builds on, and its default RSA implementation.
//
// Keys are opaque handles. A handle is bound to one usage: public keys may
// only encrypt and private keys may only decrypt. The fixed parameters for
// the whole system are RSA-OAEP with a 2048-bit modulus, public exponent
// 65537 and SHA-256 as the OAEP hash (DefaultParams).
//
// GenerateKey returns a Material, a tagged variant that is either a Single
// key or a Pair. Callers switch on the concrete type instead of probing for
// fields.
package platform
