package cmd

import (
	"github.com/PolarWolf314/whisper/internal/ui"
	"github.com/PolarWolf314/whisper/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	keysExportOutput string
	keysExportPublic bool
	keysExportFormat string
	keysExportForce  bool
)

func init() {
	keysExportCmd.Flags().StringVarP(&keysExportOutput, "output", "o", "", "file to write (default from [keys] export_name, KeyPair.txt)")
	keysExportCmd.Flags().BoolVar(&keysExportPublic, "public", false, "write only the public key")
	keysExportCmd.Flags().StringVarP(&keysExportFormat, "format", "f", workflows.ExportFormatPEM, "pem or ssh (authorized_keys line, public key only)")
	keysExportCmd.Flags().BoolVar(&keysExportForce, "force", false, "overwrite an existing file")
}

func resetKeysExportState() {
	keysExportOutput = ""
	keysExportPublic = false
	keysExportFormat = workflows.ExportFormatPEM
	keysExportForce = false
}

var keysExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Save the key pair to a file",
	Long: `Writes the public key PEM, a newline, then the private key PEM to a file that
'whisper keys import' reads back. The file is created with mode 0600.

Examples:
  # Save to KeyPair.txt in the current directory
  whisper keys export

  # Save only the public key as an OpenSSH authorized_keys line
  whisper keys export --format ssh --output whisper.pub`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keys export command")
		Logger.Debugf("Flags: output=%q, public=%t, format=%s, force=%t", keysExportOutput, keysExportPublic, keysExportFormat, keysExportForce)
		spinner, cleanup := startSpinner("Exporting key pair...")
		defer cleanup()

		ctx := cmd.Context()
		env, err := openEnv(ctx)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to open whisper: %v", err)
		}

		result, err := workflows.Export(ctx, env, workflows.ExportOptions{
			Path:       keysExportOutput,
			PublicOnly: keysExportPublic,
			Format:     keysExportFormat,
			Force:      keysExportForce,
		})
		if err != nil {
			Logger.Errorf("Export failed: %v", err)
			spinner.FinalMSG = failureMessage(err)
			return nil
		}

		what := "Key pair"
		if result.PublicOnly {
			what = "Public key"
		}
		finalMessage := ui.Success.Sprint("✓") + " " + what + " saved to " + ui.Path.Sprint(result.Path)
		if !result.PublicOnly {
			finalMessage += "\n" + ui.Warning.Sprint("⚠") + " This file contains your private key. Keep it somewhere safe"
		}
		spinner.FinalMSG = finalMessage
		return nil
	},
}
