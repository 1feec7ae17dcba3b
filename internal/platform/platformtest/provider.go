// Package platformtest provides a recording, fault-injecting platform.Provider
// for tests.
package platformtest

import (
	"context"
	"crypto"
	"sync"
	"testing"

	"github.com/PolarWolf314/whisper/internal/platform"
)

// Operation names used as keys for Calls and Fail.
const (
	OpGenerate = "generate"
	OpImport   = "import"
	OpExport   = "export"
	OpDigest   = "digest"
	OpEncrypt  = "encrypt"
	OpDecrypt  = "decrypt"
)

// Provider wraps a real provider, counts calls and can fail or delay them.
type Provider struct {
	Inner platform.Provider

	// Generated, when set, is returned by GenerateKey instead of a fresh key.
	Generated platform.Material

	// BeforeDecrypt runs before every Decrypt with the raw ciphertext.
	BeforeDecrypt func(ciphertext []byte)

	mu    sync.Mutex
	calls map[string]int
	fail  map[string]error
}

// New returns a Provider around a fresh RSAProvider.
func New() *Provider {
	return &Provider{
		Inner: platform.NewRSAProvider(),
		calls: make(map[string]int),
		fail:  make(map[string]error),
	}
}

// Fail makes every following call of op return err. A nil err clears it.
func (p *Provider) Fail(op string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err == nil {
		delete(p.fail, op)
		return
	}
	p.fail[op] = err
}

// Calls returns how often op was called.
func (p *Provider) Calls(op string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[op]
}

func (p *Provider) record(op string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls[op]++
	return p.fail[op]
}

func (p *Provider) GenerateKey(ctx context.Context, params platform.Params) (platform.Material, error) {
	if err := p.record(OpGenerate); err != nil {
		return nil, err
	}
	if p.Generated != nil {
		return p.Generated, nil
	}
	return p.Inner.GenerateKey(ctx, params)
}

func (p *Provider) ImportKey(ctx context.Context, format platform.Format, der []byte, params platform.Params, usage platform.Usage) (platform.Key, error) {
	if err := p.record(OpImport); err != nil {
		return nil, err
	}
	return p.Inner.ImportKey(ctx, format, der, params, usage)
}

func (p *Provider) ExportKey(ctx context.Context, format platform.Format, key platform.Key) ([]byte, error) {
	if err := p.record(OpExport); err != nil {
		return nil, err
	}
	return p.Inner.ExportKey(ctx, format, key)
}

func (p *Provider) Digest(ctx context.Context, hash crypto.Hash, data []byte) ([]byte, error) {
	if err := p.record(OpDigest); err != nil {
		return nil, err
	}
	return p.Inner.Digest(ctx, hash, data)
}

func (p *Provider) Encrypt(ctx context.Context, key platform.Key, plaintext []byte) ([]byte, error) {
	if err := p.record(OpEncrypt); err != nil {
		return nil, err
	}
	return p.Inner.Encrypt(ctx, key, plaintext)
}

func (p *Provider) Decrypt(ctx context.Context, key platform.Key, ciphertext []byte) ([]byte, error) {
	if err := p.record(OpDecrypt); err != nil {
		return nil, err
	}
	if p.BeforeDecrypt != nil {
		p.BeforeDecrypt(ciphertext)
	}
	return p.Inner.Decrypt(ctx, key, ciphertext)
}

var (
	pairsOnce sync.Once
	pairs     [2]platform.Pair
	pairsErr  error
)

// Pairs returns two distinct 2048-bit key pairs, generated once per test binary.
func Pairs(t testing.TB) (platform.Pair, platform.Pair) {
	t.Helper()
	pairsOnce.Do(func() {
		provider := platform.NewRSAProvider()
		for i := range pairs {
			material, err := provider.GenerateKey(context.Background(), platform.DefaultParams)
			if err != nil {
				pairsErr = err
				return
			}
			pairs[i] = material.(platform.Pair)
		}
	})
	if pairsErr != nil {
		t.Fatalf("failed to generate test key pairs: %v", pairsErr)
	}
	return pairs[0], pairs[1]
}
