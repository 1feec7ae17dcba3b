package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/PolarWolf314/whisper/cmd"
	"github.com/PolarWolf314/whisper/internal/ui"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "whisper",
	Short: "whisper - RSA-OAEP key pairs and short encrypted messages",
	Long: `whisper manages a single RSA-OAEP key pair and encrypts and decrypts short
messages with it.

Features:
  - Generate, import and export a key pair, kept between runs
  - Emoji fingerprints to compare keys at a glance
  - Decrypt one message, a watched file, or interactively

Usage:
  whisper <command> [flags]

Run 'whisper help <command>' for more details on a specific command.
`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Welcome to whisper! Run " + ui.Code.Sprint("whisper --help") + " to see available commands.")
	},
}

func init() {
	rootCmd.AddCommand(cmd.Commands()...)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
