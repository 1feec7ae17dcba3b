package cmd

import (
	"github.com/spf13/cobra"
)

// ConfigCmd is the top-level config command.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage whisper configuration",
	Long: `Provides commands for managing whisper's config.toml.

Examples:
  # Write a config.toml with the defaults
  whisper config init

  # Keep the key store somewhere else and default to JSON output
  whisper config init --store ~/vault/whisper.json --format json --force

  # Show the effective configuration and paths
  whisper config show`,
}

func init() {
	addLoggingFlags(ConfigCmd)

	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}

// resetConfigState resets all config command global variables to their default values for testing.
func resetConfigState() {
	resetConfigInitState()
	resetConfigShowState()
}
