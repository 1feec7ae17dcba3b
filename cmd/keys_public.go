package cmd

import (
	"fmt"

	"github.com/PolarWolf314/whisper/internal/ui"
	"github.com/PolarWolf314/whisper/internal/workflows"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

var keysPublicCopy bool

func init() {
	keysPublicCmd.Flags().BoolVarP(&keysPublicCopy, "copy", "c", false, "copy the public key to the clipboard instead of printing it")
}

func resetKeysPublicState() {
	keysPublicCopy = false
}

var keysPublicCmd = &cobra.Command{
	Use:   "public",
	Short: "Print the public key for others to encrypt with",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keys public command")

		ctx := cmd.Context()
		env, err := openEnv(ctx)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to open whisper: %v", err)
		}

		publicPem, err := workflows.Public(ctx, env)
		if err != nil {
			fmt.Println(failureMessage(err))
			return nil
		}

		if !keysPublicCopy {
			fmt.Fprintln(cmd.OutOrStdout(), publicPem)
			return nil
		}

		if err := clipboard.WriteAll(publicPem); err != nil {
			return Logger.ErrorfAndReturn("Failed to copy to clipboard: %v", err)
		}
		fmt.Println(ui.Success.Sprint("✓") + " Public key copied to clipboard " +
			ui.Fingerprint.Sprint(env.Manager.Snapshot().PublicFingerprint))
		return nil
	},
}
