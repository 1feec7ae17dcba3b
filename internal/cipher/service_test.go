package cipher

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	kerrors "github.com/PolarWolf314/whisper/internal/errors"
	"github.com/PolarWolf314/whisper/internal/platform/platformtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	pair, _ := platformtest.Pairs(t)
	svc := NewService(platformtest.New())
	ctx := context.Background()

	messages := []string{
		"a",
		"hello, world",
		"ünïcödé 🔐 text",
		strings.Repeat("x", MaxPlaintextSize),
		strings.Repeat("é", MaxPlaintextSize/2),
	}

	for _, msg := range messages {
		ciphertext, err := svc.Encrypt(ctx, msg, pair.Public)
		require.NoError(t, err)

		_, err = base64.StdEncoding.DecodeString(ciphertext)
		require.NoError(t, err, "ciphertext must be standard base64")

		plaintext, err := svc.Decrypt(ctx, ciphertext, pair.Private)
		require.NoError(t, err)
		assert.Equal(t, msg, plaintext)
	}
}

func TestEncrypt_PayloadTooLarge(t *testing.T) {
	pair, _ := platformtest.Pairs(t)
	provider := platformtest.New()
	svc := NewService(provider)

	assert.Equal(t, 190, MaxPlaintextSize)

	_, err := svc.Encrypt(context.Background(), strings.Repeat("x", 191), pair.Public)
	assert.ErrorIs(t, err, kerrors.ErrPayloadTooLarge)

	// 96 two-byte runes are 192 bytes.
	_, err = svc.Encrypt(context.Background(), strings.Repeat("é", 96), pair.Public)
	assert.ErrorIs(t, err, kerrors.ErrPayloadTooLarge)

	assert.Equal(t, 0, provider.Calls(platformtest.OpEncrypt))
}

func TestEncrypt_WithPrivateKeyFails(t *testing.T) {
	pair, _ := platformtest.Pairs(t)
	svc := NewService(platformtest.New())

	_, err := svc.Encrypt(context.Background(), "hi", pair.Private)
	assert.ErrorIs(t, err, kerrors.ErrEncryption)

	_, err = svc.Encrypt(context.Background(), "hi", nil)
	assert.ErrorIs(t, err, kerrors.ErrNotReady)
}

func TestDecrypt_EmptyInput(t *testing.T) {
	pair, _ := platformtest.Pairs(t)
	provider := platformtest.New()
	svc := NewService(provider)

	plaintext, err := svc.Decrypt(context.Background(), "", pair.Private)
	assert.NoError(t, err)
	assert.Equal(t, "", plaintext)
	assert.Equal(t, 0, provider.Calls(platformtest.OpDecrypt))
}

func TestDecrypt_InvalidInputs(t *testing.T) {
	pairA, pairB := platformtest.Pairs(t)
	provider := platformtest.New()
	svc := NewService(provider)
	ctx := context.Background()

	forB, err := svc.Encrypt(ctx, "for someone else", pairB.Public)
	require.NoError(t, err)

	valid, err := svc.Encrypt(ctx, "tamper with me", pairA.Public)
	require.NoError(t, err)
	raw, _ := base64.StdEncoding.DecodeString(valid)
	raw[len(raw)/2] ^= 0xFF
	tampered := base64.StdEncoding.EncodeToString(raw)

	testCases := []struct {
		name  string
		input string
	}{
		{"NotBase64", "not-valid-base64!!"},
		{"ShortCiphertext", base64.StdEncoding.EncodeToString([]byte("short"))},
		{"OtherKey", forB},
		{"Tampered", tampered},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			plaintext, err := svc.Decrypt(ctx, tc.input, pairA.Private)
			assert.ErrorIs(t, err, kerrors.ErrDecryption)
			assert.Equal(t, "", plaintext)
		})
	}
}

func TestDecrypt_AcceptsWrappedCiphertext(t *testing.T) {
	pair, _ := platformtest.Pairs(t)
	svc := NewService(platformtest.New())
	ctx := context.Background()

	ciphertext, err := svc.Encrypt(ctx, "wrapped", pair.Public)
	require.NoError(t, err)
	wrapped := "  " + ciphertext[:100] + "\n" + ciphertext[100:] + "\n"

	plaintext, err := svc.Decrypt(ctx, wrapped, pair.Private)
	require.NoError(t, err)
	assert.Equal(t, "wrapped", plaintext)
}

func TestDecrypt_NoKey(t *testing.T) {
	svc := NewService(platformtest.New())
	_, err := svc.Decrypt(context.Background(), "AAAA", nil)
	assert.ErrorIs(t, err, kerrors.ErrNotReady)
}
