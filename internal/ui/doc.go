// Package ui provides semantic text formatting for CLI output.
//
// This package defines formatters for different types of content (code,
// paths, errors, fingerprints) that render appropriately based on terminal
// capabilities. When colors are available, content is colorized. When
// NO_COLOR is set or the terminal doesn't support colors, text-based
// decorations (backticks, quotes) are used instead.
//
// # Semantic Formatters
//
//	ui.Code.Sprint("whisper keys generate")   // Commands and code
//	ui.Path.Sprint("KeyPair.txt")              // File paths
//	ui.Success.Sprint("✓")                     // Success indicators
//	ui.Error.Sprint("✗")                       // Error indicators
//	ui.Warning.Sprint("⚠")                     // Warnings
//	ui.Info.Sprint("→")                        // Informational hints
//	ui.Highlight.Sprint(keyID)                 // User values
//	ui.Muted.Sprint("optional")                // De-emphasized text
//	ui.Fingerprint.Sprint(fp)                  // Emoji fingerprints
//
// # Structured Output
//
// Render writes a value as indented JSON or YAML for --output json|yaml.
package ui
