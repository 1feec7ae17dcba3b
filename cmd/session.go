package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/PolarWolf314/whisper/internal/cipher"
	"github.com/PolarWolf314/whisper/internal/configs"
	kerrors "github.com/PolarWolf314/whisper/internal/errors"
	"github.com/PolarWolf314/whisper/internal/ui"
	"github.com/PolarWolf314/whisper/internal/utils"

	"github.com/chzyer/readline"
	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

func init() {
	addLoggingFlags(SessionCmd)
}

// SessionCmd runs an interactive prompt that decrypts every line entered.
var SessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Decrypt messages interactively",
	Long: `Opens a prompt that decrypts each ciphertext you paste. Only the result for
the most recent input is shown, so a slow decrypt never overwrites a newer one.

Commands inside the session:
  status   show whether a key pair is loaded
  clear    clear the current result
  exit     leave the session`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting session command")

		ctx := cmd.Context()
		env, err := openEnv(ctx)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to open whisper: %v", err)
		}

		if utils.IsOutputTerminal() {
			fmt.Println()
			figure.NewColorFigure("whisper", "small", "cyan", true).Print()
			fmt.Println()
		}
		fmt.Println(ui.Status(env.Manager.Ready()))
		if !env.Manager.Ready() {
			fmt.Println(failureMessage(kerrors.ErrNotReady))
		}

		rl, err := readline.NewEx(&readline.Config{
			Prompt:          ui.Info.Sprint("ciphertext> "),
			HistoryFile:     filepath.Join(configs.UserSettings.DataPath, "session_history"),
			HistoryLimit:    200,
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to start prompt: %v", err)
		}
		defer func() {
			_ = rl.Close()
		}()

		out := rl.Stdout()
		session := env.NewSession(cipher.OnChange(func(v cipher.View) {
			printView(out, v)
		}))
		defer session.Wait()

		for {
			line, err := rl.Readline()
			if err != nil {
				if errors.Is(err, readline.ErrInterrupt) {
					if len(line) == 0 {
						fmt.Fprintln(out, "Use 'exit' to leave the session")
					}
					continue
				}
				if errors.Is(err, io.EOF) {
					return nil
				}
				return Logger.ErrorfAndReturn("Failed to read input: %v", err)
			}

			switch input := strings.TrimSpace(line); input {
			case "exit", "quit":
				return nil
			case "status":
				fmt.Fprintln(out, ui.Status(env.Manager.Ready())+" "+
					ui.Fingerprint.Sprint(env.Manager.Snapshot().PublicFingerprint))
			case "clear":
				session.Submit(ctx, "")
			case "":
			default:
				Logger.Debugf("Submitting %s", utils.Abbreviate(input, 16))
				session.Submit(ctx, input)
			}
		}
	},
}

// printView writes the result of the latest decrypt.
func printView(w io.Writer, v cipher.View) {
	switch {
	case v.Helper == cipher.HelperNotReady:
		fmt.Fprintln(w, ui.Warning.Sprint("⚠")+" "+v.Helper)
	case v.Invalid:
		fmt.Fprintln(w, ui.Error.Sprint("✗")+" "+v.Helper)
	case v.Input == "":
		fmt.Fprintln(w, ui.Muted.Sprint("cleared"))
	default:
		fmt.Fprintln(w, ui.Success.Sprint("✓")+" "+v.Plaintext)
	}
}
