package errors

import "errors"

// Key errors indicate a key pair could not be produced, parsed or used.
var (
	// ErrPemParse indicates a PEM block is missing, misordered, duplicated or has a bad body.
	ErrPemParse = errors.New("malformed PEM block")

	// ErrKeyImport indicates key material was rejected for the expected key type or algorithm.
	ErrKeyImport = errors.New("failed to import key")

	// ErrKeyGenerate indicates the platform could not generate a key pair.
	ErrKeyGenerate = errors.New("failed to generate key pair")

	// ErrKeyExport indicates a key could not be exported to its textual form.
	ErrKeyExport = errors.New("failed to export key")

	// ErrNotReady indicates no key pair is active yet.
	ErrNotReady = errors.New("no key pair is loaded")
)

// Cryptographic errors indicate failures during encryption or decryption.
var (
	// ErrDecryption indicates the ciphertext is not valid input for the active key.
	// Malformed base64, a foreign key and an OAEP integrity failure are not distinguished.
	ErrDecryption = errors.New("invalid input or key")

	// ErrEncryption indicates the platform failed to encrypt the message.
	ErrEncryption = errors.New("failed to encrypt message")

	// ErrPayloadTooLarge indicates the plaintext exceeds the RSA-OAEP capacity.
	ErrPayloadTooLarge = errors.New("message too long for RSA-OAEP")
)

// Store errors indicate failures of the persisted key/value store.
var (
	// ErrStorePersist indicates the store could not be written to disk.
	ErrStorePersist = errors.New("failed to persist store")

	// ErrStoreCorrupted indicates the store file exists but cannot be decoded.
	ErrStoreCorrupted = errors.New("store is corrupted")
)

// File errors indicate issues with reading or writing user files.
var (
	// ErrFileNotFound indicates a specific file could not be located.
	ErrFileNotFound = errors.New("file not found")

	// ErrOutputExists indicates the output file already exists and would be overwritten.
	ErrOutputExists = errors.New("output file already exists")

	// ErrUnsupportedFormat indicates an export or output format whisper does not write.
	ErrUnsupportedFormat = errors.New("unsupported format")
)
