package cmd

import (
	"fmt"
	"time"

	"github.com/PolarWolf314/whisper/internal/ui"
	"github.com/PolarWolf314/whisper/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	keysShowSSH    bool
	keysShowOutput string
)

func init() {
	keysShowCmd.Flags().BoolVar(&keysShowSSH, "ssh", false, "also show the OpenSSH SHA256 fingerprint")
	keysShowCmd.Flags().StringVarP(&keysShowOutput, "output", "o", "", "output format: text, json or yaml")
}

func resetKeysShowState() {
	keysShowSSH = false
	keysShowOutput = ""
}

var keysShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show whether a key pair is loaded and its fingerprints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keys show command")

		ctx := cmd.Context()
		env, err := openEnv(ctx)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to open whisper: %v", err)
		}

		result, err := workflows.Show(ctx, env, workflows.ShowOptions{SSH: keysShowSSH})
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to describe key pair: %v", err)
		}

		out := cmd.OutOrStdout()
		format := resolveFormat(keysShowOutput, env)
		Logger.Debugf("Rendering key pair as %s", format)
		if format != "text" {
			return ui.Render(out, format, result)
		}

		fmt.Fprintln(out, ui.Status(result.Ready))
		if !result.Ready {
			fmt.Fprintln(out, ui.Info.Sprint("→")+" Run "+ui.Code.Sprint("whisper keys generate")+" to create one")
			return nil
		}

		row := func(label, value string) {
			fmt.Fprintf(out, "  %-14s %s\n", label, value)
		}
		if result.KeyID != "" {
			row("Key ID:", ui.Highlight.Sprint(result.KeyID))
		}
		row("Source:", result.Source)
		if result.CreatedAt != nil {
			row("Created:", result.CreatedAt.Local().Format(time.RFC1123))
		}
		row("Public key:", ui.Fingerprint.Sprint(result.PublicFingerprint))
		row("Private key:", ui.Fingerprint.Sprint(result.PrivateFingerprint))
		if result.SSHFingerprint != "" {
			row("SSH:", result.SSHFingerprint)
		}
		return nil
	},
}
