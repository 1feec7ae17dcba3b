// Package cmd contains testing utilities shared between command tests.
// This file provides common functions for setting up test environments
// and capturing output.
package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/whisper/internal/audit"
	"github.com/PolarWolf314/whisper/internal/configs"

	"github.com/spf13/cobra"
)

// setupTestEnvironment points whisper at temporary directories, changes into
// a temporary working directory and resets command state. It returns the
// working directory.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	tempUserDir := t.TempDir()

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	originalUserSettings := configs.UserSettings

	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to change to original directory: %v", err)
		}
		configs.UserSettings = originalUserSettings
		audit.SetEnabled(true)
		ResetGlobalState()
	})

	useUserDir(tempUserDir)
	ResetGlobalState()

	return tempDir
}

// useUserDir switches the data and config directories, as if whisper ran on
// another machine.
func useUserDir(dir string) {
	configs.UserSettings = &configs.Settings{
		DataPath:    filepath.Join(dir, "data"),
		ConfigsPath: filepath.Join(dir, "config"),
	}
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	stdoutChan := make(chan string, 1)
	stderrChan := make(chan string, 1)

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stdoutReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stdoutChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stderrReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stderrChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	return <-stdoutChan + <-stderrChan, err
}

// createTestCLI creates a complete CLI instance for testing with the given arguments.
func createTestCLI(args ...string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "whisper",
		Short: "whisper - RSA-OAEP key pairs and short encrypted messages",
	}
	rootCmd.AddCommand(Commands()...)
	rootCmd.SetArgs(args)
	return rootCmd
}

// runCLI executes whisper with args and returns everything it printed.
func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	output, err := captureOutput(func() error {
		return createTestCLI(args...).Execute()
	})
	if err != nil {
		t.Fatalf("whisper %v failed: %v\nOutput: %s", args, err, output)
	}
	ResetGlobalState()
	return output
}
