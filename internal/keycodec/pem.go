package keycodec

import (
	"encoding/base64"
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/whisper/internal/errors"
)

const (
	// LabelPrivate marks a PKCS#8 private key.
	LabelPrivate = "PRIVATE KEY"

	// LabelPublic marks an SPKI public key.
	LabelPublic = "PUBLIC KEY"
)

// Block is a single PEM block.
type Block struct {
	Label string
	Body  string
}

// String renders the block in its textual form.
func (b Block) String() string {
	return Header(b.Label) + "\n" + b.Body + "\n" + Footer(b.Label)
}

// Bytes decodes the base64 body.
func (b Block) Bytes() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(b.Body), ""))
	if err != nil {
		return nil, fmt.Errorf("%w: %s body: %v", kerrors.ErrPemParse, b.Label, err)
	}
	return raw, nil
}

// Header returns the BEGIN marker for label.
func Header(label string) string {
	return "-----BEGIN " + label + "-----"
}

// Footer returns the END marker for label.
func Footer(label string) string {
	return "-----END " + label + "-----"
}

// Encode base64-encodes raw and wraps it with the header and footer for label.
func Encode(raw []byte, label string) string {
	return Block{Label: label, Body: base64.StdEncoding.EncodeToString(raw)}.String()
}

// Decode returns the bytes of the single block labelled label in pemText.
func Decode(pemText, label string) ([]byte, error) {
	block, err := Extract(pemText, label)
	if err != nil {
		return nil, err
	}
	return block.Bytes()
}

// Extract locates the block labelled label in text. The text may hold other
// blocks, but exactly one with this label.
func Extract(text, label string) (Block, error) {
	header, footer := Header(label), Footer(label)

	start := strings.Index(text, header)
	if start < 0 {
		return Block{}, fmt.Errorf("%w: missing %q", kerrors.ErrPemParse, header)
	}
	bodyStart := start + len(header)

	end := strings.Index(text[bodyStart:], footer)
	if end < 0 {
		if strings.Contains(text[:start], footer) {
			return Block{}, fmt.Errorf("%w: %q appears before %q", kerrors.ErrPemParse, footer, header)
		}
		return Block{}, fmt.Errorf("%w: missing %q", kerrors.ErrPemParse, footer)
	}
	bodyEnd := bodyStart + end

	body := text[bodyStart:bodyEnd]
	if strings.Contains(body, "-----") {
		return Block{}, fmt.Errorf("%w: %s block is not terminated before the next marker", kerrors.ErrPemParse, label)
	}

	rest := text[bodyEnd+len(footer):]
	if strings.Contains(rest, header) {
		return Block{}, fmt.Errorf("%w: more than one %s block", kerrors.ErrPemParse, label)
	}

	return Block{Label: label, Body: strings.TrimSpace(body)}, nil
}

// Blocks splits text into its PEM blocks in order of appearance.
// Text outside blocks is ignored.
func Blocks(text string) ([]Block, error) {
	var blocks []Block
	const begin = "-----BEGIN "

	for {
		start := strings.Index(text, begin)
		if start < 0 {
			return blocks, nil
		}
		labelEnd := strings.Index(text[start+len(begin):], "-----")
		if labelEnd < 0 {
			return nil, fmt.Errorf("%w: unterminated BEGIN marker", kerrors.ErrPemParse)
		}
		label := text[start+len(begin) : start+len(begin)+labelEnd]

		header, footer := Header(label), Footer(label)
		bodyStart := start + len(header)
		end := strings.Index(text[bodyStart:], footer)
		if end < 0 {
			return nil, fmt.Errorf("%w: missing %q", kerrors.ErrPemParse, footer)
		}
		body := text[bodyStart : bodyStart+end]
		if strings.Contains(body, "-----") {
			return nil, fmt.Errorf("%w: %s block is not terminated before the next marker", kerrors.ErrPemParse, label)
		}

		blocks = append(blocks, Block{Label: label, Body: strings.TrimSpace(body)})
		text = text[bodyStart+end+len(footer):]
	}
}
