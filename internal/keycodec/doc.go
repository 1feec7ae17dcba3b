// Package keycodec converts raw key bytes to and from PEM text blocks.
//
// A block has the exact form
//
//	-----BEGIN {label}-----
//	{base64 body}
//	-----END {label}-----
//
// with the whole DER encoding on a single unwrapped base64 line. Two labels are
// used: LabelPrivate (PKCS#8) and LabelPublic (SPKI).
//
// Decoding is strict: a missing header, a missing footer, a footer that precedes
// its header, a label that occurs twice, or a body that is not valid base64 all
// return errors.ErrPemParse instead of yielding truncated bytes.
package keycodec
