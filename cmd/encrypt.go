package cmd

import (
	"fmt"
	"strings"

	"github.com/PolarWolf314/whisper/internal/utils"
	"github.com/PolarWolf314/whisper/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	encryptPublicKey string
	encryptWrap      int
)

func init() {
	addLoggingFlags(EncryptCmd)
	EncryptCmd.Flags().StringVarP(&encryptPublicKey, "public-key", "k", "", "file holding the recipient's PUBLIC KEY block (default: your own key)")
	EncryptCmd.Flags().IntVarP(&encryptWrap, "wrap", "w", 0, "wrap the ciphertext at this many characters (0 disables, -1 uses the terminal width)")
}

// EncryptCmd encrypts a short message for a public key.
var EncryptCmd = &cobra.Command{
	Use:   "encrypt [TEXT|-]",
	Short: "Encrypt a short message for a public key",
	Long: `Encrypts a UTF-8 message of at most 190 bytes with RSA-OAEP (SHA-256) and
prints the ciphertext as base64. Without TEXT, or with -, the message is read
from stdin and a single trailing newline is dropped.

Examples:
  whisper encrypt --public-key alice.pem "see you at 6"
  echo "see you at 6" | whisper encrypt --public-key alice.pem`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting encrypt command")

		plaintext, err := utils.ReadArg(args, "pipe the message to this command or pass it as an argument")
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read message: %v", err)
		}
		if len(args) == 0 || args[0] == "-" {
			plaintext = strings.TrimSuffix(strings.TrimSuffix(plaintext, "\n"), "\r")
		}

		opts := workflows.EncryptOptions{Plaintext: plaintext}
		if encryptPublicKey != "" {
			Logger.Debugf("Reading recipient key from %s", encryptPublicKey)
			data, err := utils.ReadFile(encryptPublicKey)
			if err != nil {
				fmt.Println(failureMessage(err))
				return nil
			}
			opts.RecipientPEM = string(data)
		}

		ctx := cmd.Context()
		env, err := openEnv(ctx)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to open whisper: %v", err)
		}

		result, err := workflows.Encrypt(ctx, env, opts)
		if err != nil {
			Logger.Errorf("Encrypt failed: %v", err)
			fmt.Println(failureMessage(err))
			return nil
		}

		Logger.Infof("Encrypted %d bytes for %s", len(plaintext), result.RecipientFingerprint)
		width := encryptWrap
		if width < 0 {
			width = utils.TerminalWidth(0)
		}
		fmt.Fprintln(cmd.OutOrStdout(), utils.Wrap(result.Ciphertext, width))
		return nil
	},
}
