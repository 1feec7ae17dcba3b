package cmd

import (
	"github.com/PolarWolf314/whisper/internal/ui"
	"github.com/PolarWolf314/whisper/internal/workflows"

	"github.com/spf13/cobra"
)

var keysGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new key pair and make it the active one",
	Long: `Generates a 2048-bit RSA-OAEP key pair and saves it to the key store.

The previous key pair, if any, is replaced. Export it first if you still need
to decrypt messages sent to it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keys generate command")
		spinner, cleanup := startSpinner("Generating key pair...")
		defer cleanup()

		ctx := cmd.Context()
		env, err := openEnv(ctx)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to open whisper: %v", err)
		}

		if env.Manager.Ready() {
			Logger.Debugf("Replacing active key pair %s", env.KeyID())
		}

		result, err := workflows.Generate(ctx, env)
		if err != nil {
			Logger.Errorf("Key generation failed: %v", err)
			spinner.FinalMSG = failureMessage(err)
			return nil
		}

		Logger.Infof("Generated key pair %s", result.KeyID)
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Key pair generated\n" +
			"  Public key:  " + ui.Fingerprint.Sprint(result.State.PublicFingerprint) + "\n" +
			"  Private key: " + ui.Fingerprint.Sprint(result.State.PrivateFingerprint) + "\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("whisper keys export") + " to save a copy"
		return nil
	},
}
