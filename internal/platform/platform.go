package platform

import (
	"context"
	"crypto"
)

// Usage is the single operation a key handle may be used for.
type Usage int

const (
	UsageEncrypt Usage = iota + 1
	UsageDecrypt
)

func (u Usage) String() string {
	switch u {
	case UsageEncrypt:
		return "encrypt"
	case UsageDecrypt:
		return "decrypt"
	default:
		return "unknown"
	}
}

// Format is a binary key encoding.
type Format string

const (
	// FormatPKCS8 is the DER encoding of a private key.
	FormatPKCS8 Format = "pkcs8"
	// FormatSPKI is the DER encoding of a public key.
	FormatSPKI Format = "spki"
)

// Params are the algorithm parameters of a key.
type Params struct {
	Name           string
	ModulusBits    int
	PublicExponent int
	Hash           crypto.Hash
}

// DefaultParams are used for every key in the system.
var DefaultParams = Params{
	Name:           "RSA-OAEP",
	ModulusBits:    2048,
	PublicExponent: 65537,
	Hash:           crypto.SHA256,
}

// Key is an opaque key handle.
type Key interface {
	Usage() Usage
	Params() Params
}

// Material is either a Single key or a Pair.
type Material interface {
	material()
}

// Single holds one key, as produced by algorithms without a key pair.
type Single struct {
	Key Key
}

// Pair holds the two halves of an asymmetric key pair.
type Pair struct {
	Public  Key
	Private Key
}

func (Single) material() {}
func (Pair) material()   {}

// Provider is the cryptographic capability consumed by the key pair manager
// and the cipher service.
type Provider interface {
	GenerateKey(ctx context.Context, params Params) (Material, error)
	ImportKey(ctx context.Context, format Format, der []byte, params Params, usage Usage) (Key, error)
	ExportKey(ctx context.Context, format Format, key Key) ([]byte, error)
	Digest(ctx context.Context, hash crypto.Hash, data []byte) ([]byte, error)
	Encrypt(ctx context.Context, key Key, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, key Key, ciphertext []byte) ([]byte, error)
}

// MaxPlaintextSize is the largest message RSA-OAEP can encrypt with the given
// modulus size and hash: k - 2*hLen - 2.
func MaxPlaintextSize(params Params) int {
	return params.ModulusBits/8 - 2*params.Hash.Size() - 2
}
