// Package fingerprint renders key fingerprints for humans to compare.
//
// The primary form maps each byte of a SHA-256 digest to a pictographic
// codepoint, producing 32 symbols that are quicker to eyeball than hex.
package fingerprint

import (
	"crypto"
	"crypto/sha256"
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"
)

// Length is the number of symbols in a fingerprint.
const Length = sha256.Size

// Symbol ranges. Each byte value falls into exactly one bracket.
const (
	plantsStart  = 0x1F340 // 0..80    🍀 to 🎐
	animalsStart = 0x1F400 // 81..144  🐀 to 🐿
	peopleStart  = 0x1F464 // 145..176 👤 to 💃
	placesStart  = 0x1F5FB // 177..255 🗻 to 🙉
)

// Symbol returns the codepoint for a single digest byte.
func Symbol(v byte) rune {
	switch {
	case v <= 80:
		return rune(v) + plantsStart
	case v <= 144:
		return rune(v) - 81 + animalsStart
	case v <= 176:
		return rune(v) - 145 + peopleStart
	default:
		return rune(v) - 177 + placesStart
	}
}

// Encode maps every byte of digest to its symbol.
func Encode(digest []byte) string {
	var sb strings.Builder
	sb.Grow(len(digest) * 4)
	for _, v := range digest {
		sb.WriteRune(Symbol(v))
	}
	return sb.String()
}

// Compute returns the fingerprint of a PEM string: the symbol encoding of the
// SHA-256 digest of its bytes. keypair.Manager.Fingerprint yields the same
// value with the digest taken by a platform provider.
func Compute(pemText string) string {
	digest := sha256.Sum256([]byte(pemText))
	return Encode(digest[:])
}

// SSH returns the OpenSSH "SHA256:..." fingerprint of a public key.
func SSH(pub crypto.PublicKey) (string, error) {
	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("failed to convert public key to ssh format: %w", err)
	}
	return ssh.FingerprintSHA256(sshPub), nil
}

// AuthorizedKey returns the public key as a single authorized_keys line.
func AuthorizedKey(pub crypto.PublicKey, comment string) (string, error) {
	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("failed to convert public key to ssh format: %w", err)
	}
	line := strings.TrimSuffix(string(ssh.MarshalAuthorizedKey(sshPub)), "\n")
	if comment != "" {
		line += " " + comment
	}
	return line, nil
}
