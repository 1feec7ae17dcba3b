package keycodec

import (
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/whisper/internal/errors"
)

// BytesToBinaryString maps each byte to the rune with the same value (0-255).
// It exists to interoperate with tools that treat binary key material as a
// "binary string"; it must not be used for arbitrary Unicode text.
func BytesToBinaryString(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 2)
	for _, v := range b {
		sb.WriteRune(rune(v))
	}
	return sb.String()
}

// BinaryStringToBytes reverses BytesToBinaryString. Runes above 255 are rejected.
func BinaryStringToBytes(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i, r := range s {
		if r > 0xFF {
			return nil, fmt.Errorf("%w: rune %U at offset %d is not a byte value", kerrors.ErrPemParse, r, i)
		}
		out = append(out, byte(r))
	}
	return out, nil
}
