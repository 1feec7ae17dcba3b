package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/PolarWolf314/whisper/internal/configs"
	"github.com/PolarWolf314/whisper/internal/ui"

	"github.com/spf13/cobra"
)

var configShowOutput string

func init() {
	configShowCmd.Flags().StringVarP(&configShowOutput, "output", "o", "", "output format: text, json or yaml")
}

// resetConfigShowState resets the config show command's global state for testing.
func resetConfigShowState() {
	configShowOutput = ""
}

type configView struct {
	ConfigFile string `json:"config_file" yaml:"config_file"`
	DataDir    string `json:"data_dir" yaml:"data_dir"`
	StorePath  string `json:"store_path" yaml:"store_path"`
	AuditLog   string `json:"audit_log" yaml:"audit_log"`
	Audit      bool   `json:"audit" yaml:"audit"`
	Format     string `json:"format" yaml:"format"`
	ExportName string `json:"export_name" yaml:"export_name"`
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")

		config, err := configs.LoadConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load config: %v", err)
		}

		settings := configs.UserSettings
		view := configView{
			ConfigFile: settings.ConfigFile(),
			DataDir:    settings.DataPath,
			StorePath:  config.Store.Path,
			AuditLog:   settings.AuditFile(),
			Audit:      config.Audit.Enabled,
			Format:     config.Output.Format,
			ExportName: config.Keys.ExportName,
		}

		out := cmd.OutOrStdout()
		format := configShowOutput
		if format == "" {
			format = config.Output.Format
		}
		if format != configs.FormatText {
			return ui.Render(out, format, view)
		}

		source := ui.Muted.Sprint("defaults")
		if _, err := os.Stat(view.ConfigFile); err == nil {
			source = ui.Path.Sprint(view.ConfigFile)
		}
		fmt.Fprintln(out, ui.Info.Sprint("Configuration")+" "+source+":")
		fmt.Fprintln(out)
		row := func(label, value string) {
			fmt.Fprintf(out, "  %-14s %s\n", label, value)
		}
		row("Data dir:", ui.Path.Sprint(view.DataDir))
		row("Key store:", ui.Path.Sprint(view.StorePath))
		row("Audit log:", ui.Path.Sprint(view.AuditLog))
		row("Audit:", strconv.FormatBool(view.Audit))
		row("Output:", view.Format)
		row("Export name:", view.ExportName)
		return nil
	},
}
