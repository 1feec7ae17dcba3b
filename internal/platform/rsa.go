package platform

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	_ "crypto/sha256"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
)

var (
	errWrongUsage   = errors.New("key is not usable for this operation")
	errForeignKey   = errors.New("key was not created by this provider")
	errUnsupported  = errors.New("unsupported key format")
	errNotRSA       = errors.New("not an RSA key")
	errUnsupportedE = errors.New("unsupported public exponent")
)

type rsaKey struct {
	usage   Usage
	params  Params
	public  *rsa.PublicKey
	private *rsa.PrivateKey
}

func (k *rsaKey) Usage() Usage   { return k.usage }
func (k *rsaKey) Params() Params { return k.params }

// PublicKey returns the underlying public key.
func (k *rsaKey) PublicKey() crypto.PublicKey { return k.public }

// RSAProvider implements Provider with crypto/rsa.
type RSAProvider struct {
	// Random defaults to crypto/rand.Reader.
	Random io.Reader
}

// NewRSAProvider returns a provider backed by crypto/rand.
func NewRSAProvider() *RSAProvider {
	return &RSAProvider{Random: rand.Reader}
}

func (p *RSAProvider) random() io.Reader {
	if p.Random != nil {
		return p.Random
	}
	return rand.Reader
}

// GenerateKey generates an RSA key pair. Generation cannot be interrupted; if
// ctx is cancelled first the result is discarded.
func (p *RSAProvider) GenerateKey(ctx context.Context, params Params) (Material, error) {
	if params.PublicExponent != 65537 {
		return nil, fmt.Errorf("%w: %d", errUnsupportedE, params.PublicExponent)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		key *rsa.PrivateKey
		err error
	}
	done := make(chan result, 1)
	go func() {
		key, err := rsa.GenerateKey(p.random(), params.ModulusBits)
		done <- result{key, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		return Pair{
			Public:  &rsaKey{usage: UsageEncrypt, params: params, public: &r.key.PublicKey},
			Private: &rsaKey{usage: UsageDecrypt, params: params, public: &r.key.PublicKey, private: r.key},
		}, nil
	}
}

func (p *RSAProvider) ImportKey(ctx context.Context, format Format, der []byte, params Params, usage Usage) (Key, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch format {
	case FormatPKCS8:
		if usage != UsageDecrypt {
			return nil, fmt.Errorf("%w: pkcs8 keys can only decrypt", errWrongUsage)
		}
		parsed, err := x509.ParsePKCS8PrivateKey(der)
		if err != nil {
			return nil, err
		}
		priv, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, errNotRSA
		}
		return &rsaKey{usage: usage, params: paramsFor(params, &priv.PublicKey), public: &priv.PublicKey, private: priv}, nil

	case FormatSPKI:
		if usage != UsageEncrypt {
			return nil, fmt.Errorf("%w: spki keys can only encrypt", errWrongUsage)
		}
		parsed, err := x509.ParsePKIXPublicKey(der)
		if err != nil {
			return nil, err
		}
		pub, ok := parsed.(*rsa.PublicKey)
		if !ok {
			return nil, errNotRSA
		}
		return &rsaKey{usage: usage, params: paramsFor(params, pub), public: pub}, nil

	default:
		return nil, fmt.Errorf("%w: %s", errUnsupported, format)
	}
}

func (p *RSAProvider) ExportKey(ctx context.Context, format Format, key Key) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k, ok := key.(*rsaKey)
	if !ok {
		return nil, errForeignKey
	}

	switch format {
	case FormatPKCS8:
		if k.private == nil {
			return nil, fmt.Errorf("%w: public key cannot be exported as pkcs8", errWrongUsage)
		}
		return x509.MarshalPKCS8PrivateKey(k.private)
	case FormatSPKI:
		if k.private != nil {
			return nil, fmt.Errorf("%w: private key cannot be exported as spki", errWrongUsage)
		}
		return x509.MarshalPKIXPublicKey(k.public)
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupported, format)
	}
}

func (p *RSAProvider) Digest(ctx context.Context, hash crypto.Hash, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !hash.Available() {
		return nil, fmt.Errorf("hash %v is not available", hash)
	}
	h := hash.New()
	h.Write(data)
	return h.Sum(nil), nil
}

func (p *RSAProvider) Encrypt(ctx context.Context, key Key, plaintext []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k, ok := key.(*rsaKey)
	if !ok {
		return nil, errForeignKey
	}
	if k.usage != UsageEncrypt {
		return nil, errWrongUsage
	}
	return rsa.EncryptOAEP(k.params.Hash.New(), p.random(), k.public, plaintext, nil)
}

func (p *RSAProvider) Decrypt(ctx context.Context, key Key, ciphertext []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k, ok := key.(*rsaKey)
	if !ok {
		return nil, errForeignKey
	}
	if k.usage != UsageDecrypt {
		return nil, errWrongUsage
	}
	return rsa.DecryptOAEP(k.params.Hash.New(), p.random(), k.private, ciphertext, nil)
}

// PublicKeyOf returns the crypto.PublicKey behind a handle created by
// RSAProvider, for either half of a pair.
func PublicKeyOf(key Key) (crypto.PublicKey, bool) {
	k, ok := key.(*rsaKey)
	if !ok || k.public == nil {
		return nil, false
	}
	return k.public, true
}

// paramsFor keeps the requested algorithm and hash but records the actual
// modulus size and exponent of an imported key.
func paramsFor(params Params, pub *rsa.PublicKey) Params {
	params.ModulusBits = pub.N.BitLen()
	params.PublicExponent = pub.E
	return params
}
