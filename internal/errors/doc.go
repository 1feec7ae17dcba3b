// Package errors provides typed error values for whisper.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - Key errors: parsing, importing, generating and exporting keys (ErrPemParse, ErrKeyImport)
//   - Crypto errors: encryption/decryption failures (ErrDecryption, ErrPayloadTooLarge)
//   - Store errors: persistence failures (ErrStorePersist, ErrStoreCorrupted)
//   - File errors: file system issues (ErrFileNotFound, ErrOutputExists)
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("%w: private key: %v", kerrors.ErrKeyImport, err)
//
// Handle errors in the CLI layer:
//
//	_, err := workflows.Import(ctx, opts)
//	if errors.Is(err, kerrors.ErrPemParse) {
//	    // Show user-friendly message
//	}
package errors
