package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/whisper/internal/audit"
	kerrors "github.com/PolarWolf314/whisper/internal/errors"
	"github.com/PolarWolf314/whisper/internal/keycodec"
	"github.com/PolarWolf314/whisper/internal/platform"
)

// EncryptOptions configures the encrypt workflow.
type EncryptOptions struct {
	Plaintext string

	// RecipientPEM holds a PUBLIC KEY block to encrypt for. When empty the
	// active public key is used.
	RecipientPEM string
}

// EncryptResult contains the outcome of an encrypt operation.
type EncryptResult struct {
	// Ciphertext is standard base64.
	Ciphertext string

	// RecipientFingerprint is the emoji fingerprint of the public key used.
	RecipientFingerprint string
}

// Encrypt encrypts a message for a recipient public key.
//
// Returns ErrNotReady if no recipient is given and no key pair is active,
// ErrKeyImport if the recipient key cannot be read, or ErrPayloadTooLarge if
// the message exceeds the OAEP capacity of the key.
func Encrypt(ctx context.Context, env *Env, opts EncryptOptions) (*EncryptResult, error) {
	result, err := encrypt(ctx, env, opts)

	entry := audit.Result(audit.OpEncrypt, err)
	entry.Bytes = len(opts.Plaintext)
	if result != nil {
		entry.Fingerprint = result.RecipientFingerprint
	}
	audit.Log(entry)

	return result, err
}

func encrypt(ctx context.Context, env *Env, opts EncryptOptions) (*EncryptResult, error) {
	var (
		key         platform.Key
		recipientFP string
	)

	if opts.RecipientPEM == "" {
		kp, ok := env.Manager.Active()
		if !ok {
			return nil, kerrors.ErrNotReady
		}
		key = kp.Public
		recipientFP = env.Manager.Snapshot().PublicFingerprint
	} else {
		var err error
		key, recipientFP, err = importRecipient(ctx, env, opts.RecipientPEM)
		if err != nil {
			return nil, err
		}
	}

	ciphertext, err := env.Cipher.Encrypt(ctx, opts.Plaintext, key)
	if err != nil {
		return nil, err
	}

	return &EncryptResult{Ciphertext: ciphertext, RecipientFingerprint: recipientFP}, nil
}

// importRecipient reads the PUBLIC KEY block from text. The fingerprint is
// taken over the re-encoded block so it matches what the key's owner sees.
func importRecipient(ctx context.Context, env *Env, text string) (platform.Key, string, error) {
	der, err := keycodec.Decode(text, keycodec.LabelPublic)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", kerrors.ErrKeyImport, err)
	}

	key, err := env.Provider.ImportKey(ctx, platform.FormatSPKI, der, platform.DefaultParams, platform.UsageEncrypt)
	if err != nil {
		return nil, "", fmt.Errorf("%w: public key: %v", kerrors.ErrKeyImport, err)
	}

	recipientFP, err := env.Manager.Fingerprint(ctx, keycodec.Encode(der, keycodec.LabelPublic))
	if err != nil {
		return nil, "", err
	}

	return key, recipientFP, nil
}

// DecryptOptions configures the decrypt workflow.
type DecryptOptions struct {
	// Ciphertext is standard base64. Whitespace is ignored.
	Ciphertext string
}

// DecryptResult contains the outcome of a decrypt operation.
type DecryptResult struct {
	Plaintext string
}

// Decrypt decrypts a base64 ciphertext with the active private key. An empty
// ciphertext decrypts to an empty plaintext.
//
// Returns ErrNotReady if no key pair is active, or ErrDecryption for any
// input the active key cannot decrypt.
func Decrypt(ctx context.Context, env *Env, opts DecryptOptions) (*DecryptResult, error) {
	if opts.Ciphertext == "" {
		return &DecryptResult{}, nil
	}

	kp, ok := env.Manager.Active()
	if !ok {
		audit.Log(audit.Result(audit.OpDecrypt, kerrors.ErrNotReady))
		return nil, kerrors.ErrNotReady
	}

	plaintext, err := env.Cipher.Decrypt(ctx, opts.Ciphertext, kp.Private)

	entry := audit.Result(audit.OpDecrypt, err)
	entry.KeyID = env.KeyID()
	entry.Bytes = len(plaintext)
	audit.Log(entry)

	if err != nil {
		return nil, err
	}
	return &DecryptResult{Plaintext: plaintext}, nil
}
