package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	kerrors "github.com/PolarWolf314/whisper/internal/errors"
	"github.com/PolarWolf314/whisper/internal/ui"
	"github.com/PolarWolf314/whisper/internal/workflows"

	"github.com/briandowns/spinner"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stderr)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// openEnv opens the whisper environment with the command logger.
func openEnv(ctx context.Context) (*workflows.Env, error) {
	Logger.Debugf("Opening whisper environment")
	env, err := workflows.Open(ctx, workflows.OpenOptions{Logger: Logger})
	if err != nil {
		return nil, err
	}
	if env.Manager.Ready() {
		Logger.Infof("Key pair loaded (%s)", env.Manager.Snapshot().Source)
	} else {
		Logger.Infof("No key pair is active")
	}
	return env, nil
}

// failureMessage renders an expected workflow failure for the user.
func failureMessage(err error) string {
	x := ui.Error.Sprint("✗")
	arrow := ui.Info.Sprint("→")

	switch {
	case errors.Is(err, kerrors.ErrNotReady):
		return x + " No key pair is loaded\n" +
			arrow + " Run " + ui.Code.Sprint("whisper keys generate") + " or " + ui.Code.Sprint("whisper keys import FILE") + " first"
	case errors.Is(err, kerrors.ErrDecryption):
		return x + " Invalid input or key"
	case errors.Is(err, kerrors.ErrPayloadTooLarge):
		return x + " Message is too long to encrypt\n" + ui.Muted.Sprint(err.Error())
	case errors.Is(err, kerrors.ErrPemParse), errors.Is(err, kerrors.ErrKeyImport):
		return x + " Could not read a key pair from the input\n" +
			arrow + " Expected a " + ui.Highlight.Sprint("PUBLIC KEY") + " and a " + ui.Highlight.Sprint("PRIVATE KEY") + " PEM block\n" +
			ui.Error.Sprint("Error: ") + err.Error()
	case errors.Is(err, kerrors.ErrFileNotFound):
		return x + " " + err.Error()
	case errors.Is(err, kerrors.ErrOutputExists):
		return x + " " + err.Error() + "\n" +
			arrow + " Use " + ui.Flag.Sprint("--force") + " to overwrite it"
	case errors.Is(err, kerrors.ErrUnsupportedFormat):
		return x + " " + err.Error()
	default:
		return x + " " + err.Error()
	}
}

// resolveFormat picks the --output flag when given, otherwise the configured format.
func resolveFormat(flag string, env *workflows.Env) string {
	if flag != "" {
		return flag
	}
	return env.Config.Output.Format
}
