package cmd

import (
	"fmt"

	"github.com/PolarWolf314/whisper/internal/cipher"
	"github.com/PolarWolf314/whisper/internal/ui"
	"github.com/PolarWolf314/whisper/internal/utils"
	"github.com/PolarWolf314/whisper/internal/workflows"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

var (
	decryptWatch string
	decryptCopy  bool
)

func init() {
	addLoggingFlags(DecryptCmd)
	DecryptCmd.Flags().StringVar(&decryptWatch, "watch", "", "decrypt FILE and again every time it changes")
	DecryptCmd.Flags().BoolVarP(&decryptCopy, "copy", "c", false, "copy the plaintext to the clipboard instead of printing it")
}

// resetCipherState resets the encrypt and decrypt commands' global state for testing.
func resetCipherState() {
	encryptPublicKey = ""
	encryptWrap = 0
	decryptWatch = ""
	decryptCopy = false
}

// DecryptCmd decrypts a base64 ciphertext with the active private key.
var DecryptCmd = &cobra.Command{
	Use:   "decrypt [CIPHERTEXT|-]",
	Short: "Decrypt a message with your private key",
	Long: `Decrypts a base64 RSA-OAEP ciphertext with the active private key. Without
CIPHERTEXT, or with -, it is read from stdin. Line breaks and spaces in the
ciphertext are ignored.

With --watch FILE the file is decrypted now and again whenever it changes,
until interrupted.

Examples:
  whisper decrypt "$(cat message.txt)"
  whisper decrypt --watch message.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting decrypt command")

		ctx := cmd.Context()
		env, err := openEnv(ctx)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to open whisper: %v", err)
		}

		if decryptWatch != "" {
			return watchAndDecrypt(cmd, env)
		}

		ciphertext, err := utils.ReadArg(args, "pipe the ciphertext to this command or pass it as an argument")
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read ciphertext: %v", err)
		}

		result, err := workflows.Decrypt(ctx, env, workflows.DecryptOptions{Ciphertext: ciphertext})
		if err != nil {
			Logger.Errorf("Decrypt failed: %v", err)
			fmt.Println(failureMessage(err))
			return nil
		}

		if decryptCopy {
			if err := clipboard.WriteAll(result.Plaintext); err != nil {
				return Logger.ErrorfAndReturn("Failed to copy to clipboard: %v", err)
			}
			fmt.Println(ui.Success.Sprint("✓") + " Decrypted text copied to clipboard")
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), result.Plaintext)
		return nil
	},
}

func watchAndDecrypt(cmd *cobra.Command, env *workflows.Env) error {
	out := cmd.OutOrStdout()
	fmt.Println(ui.Info.Sprint("→") + " Watching " + ui.Path.Sprint(decryptWatch) + " " + ui.Muted.Sprint("Ctrl+C to stop"))

	err := workflows.Watch(cmd.Context(), env, workflows.WatchOptions{
		Path: decryptWatch,
		OnView: func(v cipher.View) {
			printView(out, v)
			if decryptCopy && v.Plaintext != "" {
				if err := clipboard.WriteAll(v.Plaintext); err != nil {
					Logger.Warnf("Failed to copy to clipboard: %v", err)
				}
			}
		},
	})
	if err != nil {
		fmt.Println(failureMessage(err))
	}
	return nil
}
