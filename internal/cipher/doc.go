// Package cipher encrypts and decrypts short text messages with RSA-OAEP.
//
// A ciphertext travels as standard base64 of the raw OAEP output, with no
// header or algorithm tag: both parties already agree on RSA-OAEP, SHA-256
// and a 2048-bit modulus.
//
// Every decrypt failure (malformed base64, a ciphertext for another key, an
// OAEP integrity failure, a plaintext that is not UTF-8) is reported as the
// single errors.ErrDecryption. No partial plaintext is ever returned.
//
// Session runs decrypts for a changing input, such as a prompt or a watched
// file. Each submission gets a sequence number and only the result of the
// latest submission is applied, whatever order the decrypts finish in. A
// decrypt cut short by its context leaves the view pending.
package cipher
