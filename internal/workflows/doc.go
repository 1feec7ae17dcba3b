// Package workflows provides high-level orchestration for whisper commands.
//
// Workflows coordinate the key pair manager, the cipher service, the store,
// key metadata and the audit log to implement complete user-facing features.
// Each workflow handles a single command's business logic, independent of CLI
// concerns like flag parsing, spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Opens an Env and calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Loading configuration and the persisted key pair
//   - Validating prerequisites (a ready key pair, readable input files)
//   - Performing the core operation
//   - Recording audit trail entries and key metadata
//
// # Available Workflows
//
//   - Open: builds an Env and silently restores the persisted key pair
//   - Generate, Import: replace the active key pair
//   - Show, Public, Export: describe or save the active key pair
//   - Encrypt, Decrypt: one-shot RSA-OAEP operations
//   - Watch: re-decrypts a file whenever it changes
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching:
//
//	result, err := workflows.Decrypt(ctx, env, opts)
//	if errors.Is(err, kerrors.ErrNotReady) {
//	    // Suggest whisper keys generate
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// Key generation in particular can take a noticeable moment and honors
// cancellation.
package workflows
