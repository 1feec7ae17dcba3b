package cmd

import (
	"github.com/spf13/cobra"
)

// KeysCmd is the top-level command for the key pair lifecycle.
var KeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Generate, import and inspect your key pair",
	Long: `Manages the single RSA-OAEP key pair whisper decrypts with.

The key pair is stored in your data directory and loaded automatically by
every command. Generating or importing a key pair replaces the current one.

Examples:
  # Create a new key pair
  whisper keys generate

  # Restore a key pair saved with 'whisper keys export'
  whisper keys import KeyPair.txt

  # Print your public key so others can encrypt for you
  whisper keys public`,
}

func init() {
	addLoggingFlags(KeysCmd)

	KeysCmd.AddCommand(keysGenerateCmd)
	KeysCmd.AddCommand(keysImportCmd)
	KeysCmd.AddCommand(keysShowCmd)
	KeysCmd.AddCommand(keysPublicCmd)
	KeysCmd.AddCommand(keysExportCmd)
}

// resetKeysState resets the keys subcommands' global state for testing.
func resetKeysState() {
	resetKeysShowState()
	resetKeysPublicState()
	resetKeysExportState()
}
