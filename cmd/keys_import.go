package cmd

import (
	"github.com/PolarWolf314/whisper/internal/ui"
	"github.com/PolarWolf314/whisper/internal/utils"
	"github.com/PolarWolf314/whisper/internal/workflows"

	"github.com/spf13/cobra"
)

var keysImportCmd = &cobra.Command{
	Use:   "import FILE|-",
	Short: "Import a key pair file and make it the active key pair",
	Long: `Reads a key pair file holding a PUBLIC KEY and a PRIVATE KEY PEM block, in
either order, and makes it the active key pair. Use - to read from stdin.

If the file cannot be read as a key pair the current key pair is kept.

Examples:
  whisper keys import KeyPair.txt
  cat KeyPair.txt | whisper keys import -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keys import command")

		opts := workflows.ImportOptions{Path: args[0]}
		if args[0] == "-" {
			Logger.Debugf("Reading key pair from stdin")
			data, err := utils.ReadStdin("pipe a key pair file to this command")
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to read key pair: %v", err)
			}
			opts.Data = data
		}

		spinner, cleanup := startSpinner("Importing key pair...")
		defer cleanup()

		ctx := cmd.Context()
		env, err := openEnv(ctx)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to open whisper: %v", err)
		}

		result, err := workflows.Import(ctx, env, opts)
		if err != nil {
			Logger.Errorf("Import failed: %v", err)
			spinner.FinalMSG = failureMessage(err)
			return nil
		}

		Logger.Infof("Imported key pair %s", result.KeyID)
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Key pair imported\n" +
			"  Public key:  " + ui.Fingerprint.Sprint(result.State.PublicFingerprint) + "\n" +
			"  Private key: " + ui.Fingerprint.Sprint(result.State.PrivateFingerprint)
		return nil
	},
}
