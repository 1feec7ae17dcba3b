// Package utils provides shared utility functions for whisper.
//
// # Filesystem Utilities
//
//   - ReadFile: reads a file, mapping a missing one to ErrFileNotFound
//   - WriteFile: writes a file, refusing to overwrite unless forced
//
// # String Utilities
//
//   - FormatPaths: formats file paths for human-readable output
//   - Abbreviate: shortens long values for log lines
//   - Wrap: breaks long ciphertexts into fixed-width lines
//
// # I/O Utilities
//
//   - ReadStdin: reads all data from standard input
//   - ReadArg: returns a positional argument or falls back to stdin
//
// # Terminal Utilities
//
//   - IsTerminal, IsOutputTerminal: terminal detection for stdin and stdout
//   - TerminalWidth: width of stdout for wrapping
package utils
