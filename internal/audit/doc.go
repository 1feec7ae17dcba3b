// Package audit records key lifecycle and cipher operations.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) in the
// data directory:
//
//	$XDG_DATA_HOME/whisper/audit.jsonl
//
// Each entry contains:
//   - A random entry ID and a UTC timestamp with microseconds
//   - The operation (generate, import, load, export, encrypt, decrypt)
//   - Whether it succeeded, and the error text when it did not
//   - Operation-specific details (key ID, fingerprint, export path)
//
// Plaintext and key material are never written to the log.
//
// # Usage
//
//	entry := audit.Result(audit.OpExport, err)
//	entry.OutputPath = path
//	audit.Log(entry)
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk full,
// etc.), the operation continues without error. SetEnabled(false) turns it
// off, which is what [audit] enabled = false in config.toml does.
package audit
