package cipher

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	kerrors "github.com/PolarWolf314/whisper/internal/errors"
	"github.com/PolarWolf314/whisper/internal/platform"
)

// MaxPlaintextSize is the largest UTF-8 message, in bytes, Encrypt accepts.
var MaxPlaintextSize = platform.MaxPlaintextSize(platform.DefaultParams)

// Service performs OAEP encryption and decryption through a platform provider.
type Service struct {
	provider platform.Provider
}

// NewService returns a Service using provider.
func NewService(provider platform.Provider) *Service {
	return &Service{provider: provider}
}

// Decrypt decodes cipherBase64 and decrypts it with privateKey. An empty
// input yields an empty plaintext without calling the provider.
func (s *Service) Decrypt(ctx context.Context, cipherBase64 string, privateKey platform.Key) (string, error) {
	if cipherBase64 == "" {
		return "", nil
	}
	if privateKey == nil {
		return "", kerrors.ErrNotReady
	}

	ciphertext, err := base64.StdEncoding.DecodeString(compact(cipherBase64))
	if err != nil {
		return "", kerrors.ErrDecryption
	}

	plaintext, err := s.provider.Decrypt(ctx, privateKey, ciphertext)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", kerrors.ErrDecryption
	}
	if !utf8.Valid(plaintext) {
		return "", kerrors.ErrDecryption
	}

	return string(plaintext), nil
}

// Encrypt encrypts the UTF-8 bytes of plaintext with publicKey and returns
// the base64 ciphertext.
func (s *Service) Encrypt(ctx context.Context, plaintext string, publicKey platform.Key) (string, error) {
	if publicKey == nil {
		return "", kerrors.ErrNotReady
	}

	limit := MaxPlaintextSize
	if params := publicKey.Params(); params.ModulusBits > 0 && params.Hash.Available() {
		limit = platform.MaxPlaintextSize(params)
	}
	if n := len(plaintext); n > limit {
		return "", fmt.Errorf("%w: %d bytes, at most %d allowed", kerrors.ErrPayloadTooLarge, n, limit)
	}

	ciphertext, err := s.provider.Encrypt(ctx, publicKey, []byte(plaintext))
	if err != nil {
		return "", fmt.Errorf("%w: %v", kerrors.ErrEncryption, err)
	}

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// compact removes the whitespace a pasted or wrapped ciphertext may carry.
func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}
