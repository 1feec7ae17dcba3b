package cmd

import (
	"os"

	"github.com/PolarWolf314/whisper/internal/configs"
	"github.com/PolarWolf314/whisper/internal/ui"
	"github.com/PolarWolf314/whisper/internal/utils"

	"github.com/spf13/cobra"
)

var (
	configInitStore      string
	configInitFormat     string
	configInitExportName string
	configInitNoAudit    bool
	configInitForce      bool
)

func init() {
	configInitCmd.Flags().StringVar(&configInitStore, "store", "", "path of the key store file")
	configInitCmd.Flags().StringVar(&configInitFormat, "format", "", "default output format: text, json or yaml")
	configInitCmd.Flags().StringVar(&configInitExportName, "export-name", "", "default file name for keys export")
	configInitCmd.Flags().BoolVar(&configInitNoAudit, "no-audit", false, "disable the audit log")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config.toml")
}

// resetConfigInitState resets the config init command's global state for testing.
func resetConfigInitState() {
	configInitStore = ""
	configInitFormat = ""
	configInitExportName = ""
	configInitNoAudit = false
	configInitForce = false
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config.toml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config init command")
		spinner, cleanup := startSpinner("Writing configuration...")
		defer cleanup()

		configPath := configs.UserSettings.ConfigFile()
		if _, err := os.Stat(configPath); err == nil && !configInitForce {
			Logger.Debugf("Config already exists at %s", configPath)
			spinner.FinalMSG = ui.Warning.Sprint("⚠") + " " + ui.Path.Sprint(configPath) + " already exists\n" +
				ui.Info.Sprint("→") + " Use " + ui.Flag.Sprint("--force") + " to overwrite it"
			return nil
		}

		config := configs.DefaultConfig()
		if configInitStore != "" {
			config.Store.Path = configInitStore
		}
		if configInitFormat != "" {
			config.Output.Format = configInitFormat
		}
		if configInitExportName != "" {
			config.Keys.ExportName = configInitExportName
		}
		config.Audit.Enabled = !configInitNoAudit

		if err := configs.SaveConfig(config); err != nil {
			Logger.Errorf("Failed to save config: %v", err)
			spinner.FinalMSG = ui.Error.Sprint("✗") + " " + err.Error()
			return nil
		}

		Logger.Infof("Config written to %s", configPath)
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Configuration written to:" +
			utils.FormatPaths([]string{configPath})
		return nil
	},
}
