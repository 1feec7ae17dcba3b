package platform

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generatePair(t *testing.T) Pair {
	t.Helper()
	material, err := NewRSAProvider().GenerateKey(context.Background(), DefaultParams)
	require.NoError(t, err)
	pair, ok := material.(Pair)
	require.True(t, ok, "expected a Pair, got %T", material)
	return pair
}

func TestGenerateKey_DefaultParams(t *testing.T) {
	pair := generatePair(t)

	assert.Equal(t, UsageEncrypt, pair.Public.Usage())
	assert.Equal(t, UsageDecrypt, pair.Private.Usage())
	assert.Equal(t, 2048, pair.Public.Params().ModulusBits)
	assert.Equal(t, 65537, pair.Public.Params().PublicExponent)
	assert.Equal(t, crypto.SHA256, pair.Private.Params().Hash)
}

func TestGenerateKey_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRSAProvider().GenerateKey(ctx, DefaultParams)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateKey_RejectsExponent(t *testing.T) {
	params := DefaultParams
	params.PublicExponent = 3
	_, err := NewRSAProvider().GenerateKey(context.Background(), params)
	assert.Error(t, err)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := NewRSAProvider()
	pair := generatePair(t)

	privDER, err := p.ExportKey(ctx, FormatPKCS8, pair.Private)
	require.NoError(t, err)
	pubDER, err := p.ExportKey(ctx, FormatSPKI, pair.Public)
	require.NoError(t, err)

	priv, err := p.ImportKey(ctx, FormatPKCS8, privDER, DefaultParams, UsageDecrypt)
	require.NoError(t, err)
	pub, err := p.ImportKey(ctx, FormatSPKI, pubDER, DefaultParams, UsageEncrypt)
	require.NoError(t, err)

	again, err := p.ExportKey(ctx, FormatPKCS8, priv)
	require.NoError(t, err)
	assert.Equal(t, privDER, again)

	ciphertext, err := p.Encrypt(ctx, pub, []byte("hello"))
	require.NoError(t, err)
	plaintext, err := p.Decrypt(ctx, pair.Private, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(plaintext))
}

func TestImportKey_Rejections(t *testing.T) {
	ctx := context.Background()
	p := NewRSAProvider()
	pair := generatePair(t)

	privDER, err := p.ExportKey(ctx, FormatPKCS8, pair.Private)
	require.NoError(t, err)
	pubDER, err := p.ExportKey(ctx, FormatSPKI, pair.Public)
	require.NoError(t, err)

	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	ecDER, err := x509.MarshalPKCS8PrivateKey(ecKey)
	require.NoError(t, err)

	t.Run("WrongUsage", func(t *testing.T) {
		_, err := p.ImportKey(ctx, FormatPKCS8, privDER, DefaultParams, UsageEncrypt)
		assert.Error(t, err)
		_, err = p.ImportKey(ctx, FormatSPKI, pubDER, DefaultParams, UsageDecrypt)
		assert.Error(t, err)
	})

	t.Run("SwappedFormats", func(t *testing.T) {
		_, err := p.ImportKey(ctx, FormatPKCS8, pubDER, DefaultParams, UsageDecrypt)
		assert.Error(t, err)
		_, err = p.ImportKey(ctx, FormatSPKI, privDER, DefaultParams, UsageEncrypt)
		assert.Error(t, err)
	})

	t.Run("NotRSA", func(t *testing.T) {
		_, err := p.ImportKey(ctx, FormatPKCS8, ecDER, DefaultParams, UsageDecrypt)
		assert.ErrorIs(t, err, errNotRSA)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := p.ImportKey(ctx, FormatSPKI, []byte("garbage"), DefaultParams, UsageEncrypt)
		assert.Error(t, err)
	})
}

func TestUsageIsEnforced(t *testing.T) {
	ctx := context.Background()
	p := NewRSAProvider()
	pair := generatePair(t)

	_, err := p.Encrypt(ctx, pair.Private, []byte("x"))
	assert.ErrorIs(t, err, errWrongUsage)

	_, err = p.Decrypt(ctx, pair.Public, make([]byte, 256))
	assert.ErrorIs(t, err, errWrongUsage)

	_, err = p.ExportKey(ctx, FormatSPKI, pair.Private)
	assert.Error(t, err)
}

func TestDigest(t *testing.T) {
	got, err := NewRSAProvider().Digest(context.Background(), crypto.SHA256, []byte("abc"))
	require.NoError(t, err)
	want := sha256.Sum256([]byte("abc"))
	assert.Equal(t, want[:], got)
}

func TestMaxPlaintextSize(t *testing.T) {
	assert.Equal(t, 190, MaxPlaintextSize(DefaultParams))

	pair := generatePair(t)
	p := NewRSAProvider()
	_, err := p.Encrypt(context.Background(), pair.Public, make([]byte, 190))
	assert.NoError(t, err)
	_, err = p.Encrypt(context.Background(), pair.Public, make([]byte, 191))
	assert.ErrorIs(t, err, rsa.ErrMessageTooLong)
}

func TestPublicKeyOf(t *testing.T) {
	pair := generatePair(t)

	pub, ok := PublicKeyOf(pair.Public)
	require.True(t, ok)
	fromPrivate, ok := PublicKeyOf(pair.Private)
	require.True(t, ok)
	assert.True(t, pub.(*rsa.PublicKey).Equal(fromPrivate))
}
