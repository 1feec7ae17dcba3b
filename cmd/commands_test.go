package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/whisper/internal/configs"
)

type showOutput struct {
	Ready             bool   `json:"ready"`
	KeyID             string `json:"key_id"`
	Source            string `json:"source"`
	PublicFingerprint string `json:"public_fingerprint"`
}

func showJSON(t *testing.T) showOutput {
	t.Helper()
	output := runCLI(t, "keys", "show", "--output", "json")
	var show showOutput
	if err := json.Unmarshal([]byte(output), &show); err != nil {
		t.Fatalf("keys show did not print JSON: %v\nOutput: %s", err, output)
	}
	return show
}

// lastLine returns the last non-empty line of output.
func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

func TestKeysShow_NotReady(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	setupTestEnvironment(t)

	output := runCLI(t, "keys", "show")
	if !strings.Contains(output, "not ready") {
		t.Errorf("Expected not ready status, got: %s", output)
	}
	if !strings.Contains(output, "whisper keys generate") {
		t.Errorf("Expected a hint to generate a key pair, got: %s", output)
	}

	if show := showJSON(t); show.Ready {
		t.Errorf("Expected ready=false, got %+v", show)
	}
}

func TestKeysGenerate(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	setupTestEnvironment(t)

	output := runCLI(t, "keys", "generate")
	if !strings.Contains(output, "Key pair generated") {
		t.Fatalf("Expected success message, got: %s", output)
	}

	show := showJSON(t)
	if !show.Ready {
		t.Fatal("Expected a ready key pair after generate")
	}
	if show.Source != "generated" {
		t.Errorf("Expected source generated, got %q", show.Source)
	}
	if len(show.KeyID) != 36 {
		t.Errorf("Expected a key id, got %q", show.KeyID)
	}
	if n := len([]rune(show.PublicFingerprint)); n != 32 {
		t.Errorf("Expected a 32-symbol fingerprint, got %d", n)
	}

	if _, err := os.Stat(configs.UserSettings.StoreFile()); err != nil {
		t.Errorf("Expected the key store to be written: %v", err)
	}
}

func TestKeysExportImport(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	workDir := setupTestEnvironment(t)

	runCLI(t, "keys", "generate")
	original := showJSON(t)

	output := runCLI(t, "keys", "export")
	if !strings.Contains(output, "Key pair saved to KeyPair.txt") {
		t.Fatalf("Expected export message, got: %s", output)
	}
	exported := filepath.Join(workDir, "KeyPair.txt")
	if _, err := os.Stat(exported); err != nil {
		t.Fatalf("Expected KeyPair.txt to exist: %v", err)
	}

	output = runCLI(t, "keys", "export")
	if !strings.Contains(output, "already exists") || !strings.Contains(output, "--force") {
		t.Errorf("Expected refusal to overwrite, got: %s", output)
	}

	output = runCLI(t, "keys", "export", "--force")
	if !strings.Contains(output, "Key pair saved") {
		t.Errorf("Expected forced export to succeed, got: %s", output)
	}

	// Another machine imports the saved file.
	useUserDir(t.TempDir())
	if show := showJSON(t); show.Ready {
		t.Fatal("Expected a fresh data directory to have no key pair")
	}

	output = runCLI(t, "keys", "import", exported)
	if !strings.Contains(output, "Key pair imported") {
		t.Fatalf("Expected import message, got: %s", output)
	}

	imported := showJSON(t)
	if imported.PublicFingerprint != original.PublicFingerprint {
		t.Errorf("Expected fingerprint %q, got %q", original.PublicFingerprint, imported.PublicFingerprint)
	}
}

func TestKeysImport_Invalid(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	workDir := setupTestEnvironment(t)

	output := runCLI(t, "keys", "import", filepath.Join(workDir, "missing.txt"))
	if !strings.Contains(output, "file not found") {
		t.Errorf("Expected file not found, got: %s", output)
	}

	garbage := filepath.Join(workDir, "garbage.txt")
	if err := os.WriteFile(garbage, []byte("hello"), 0600); err != nil {
		t.Fatal(err)
	}
	output = runCLI(t, "keys", "import", garbage)
	if !strings.Contains(output, "Could not read a key pair") {
		t.Errorf("Expected a parse failure, got: %s", output)
	}

	if show := showJSON(t); show.Ready {
		t.Error("Expected a failed import to leave no key pair")
	}
}

func TestKeysPublicAndSSHExport(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	workDir := setupTestEnvironment(t)

	output := runCLI(t, "keys", "public")
	if !strings.Contains(output, "No key pair is loaded") {
		t.Errorf("Expected not ready message, got: %s", output)
	}

	runCLI(t, "keys", "generate")
	output = runCLI(t, "keys", "public")
	if !strings.Contains(output, "-----BEGIN PUBLIC KEY-----\n") || !strings.Contains(output, "-----END PUBLIC KEY-----") {
		t.Errorf("Expected a public key PEM, got: %s", output)
	}
	if strings.Contains(output, "PRIVATE KEY") {
		t.Error("keys public must never print the private key")
	}

	output = runCLI(t, "keys", "export", "--format", "ssh", "--output", "whisper.pub")
	if !strings.Contains(output, "Public key saved to whisper.pub") {
		t.Errorf("Expected ssh export message, got: %s", output)
	}
	data, err := os.ReadFile(filepath.Join(workDir, "whisper.pub"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "ssh-rsa ") {
		t.Errorf("Expected an authorized_keys line, got %q", data)
	}
}

func TestEncryptDecrypt(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	workDir := setupTestEnvironment(t)

	output := runCLI(t, "decrypt", "AAAA")
	if !strings.Contains(output, "No key pair is loaded") {
		t.Errorf("Expected not ready message, got: %s", output)
	}

	runCLI(t, "keys", "generate")

	ciphertext := lastLine(runCLI(t, "encrypt", "meet me at the usual place"))
	output = runCLI(t, "decrypt", ciphertext)
	if lastLine(output) != "meet me at the usual place" {
		t.Errorf("Expected round trip, got: %s", output)
	}

	output = runCLI(t, "decrypt", "not-valid-base64!!")
	if !strings.Contains(output, "Invalid input or key") {
		t.Errorf("Expected invalid input message, got: %s", output)
	}

	output = runCLI(t, "encrypt", strings.Repeat("x", 191))
	if !strings.Contains(output, "too long") {
		t.Errorf("Expected payload too large message, got: %s", output)
	}

	// Encrypting for an exported public key gives a ciphertext the key owner can read.
	runCLI(t, "keys", "export", "--public", "--output", "me.pem")
	ciphertext = lastLine(runCLI(t, "encrypt", "--public-key", filepath.Join(workDir, "me.pem"), "for me"))
	if got := lastLine(runCLI(t, "decrypt", ciphertext)); got != "for me" {
		t.Errorf("Expected %q, got %q", "for me", got)
	}

	wrapped := runCLI(t, "encrypt", "--wrap", "64", "wrapped")
	if !strings.Contains(strings.TrimSpace(wrapped), "\n") {
		t.Errorf("Expected a wrapped ciphertext, got: %s", wrapped)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	setupTestEnvironment(t)

	output := runCLI(t, "config", "show")
	if !strings.Contains(output, "defaults") {
		t.Errorf("Expected defaults to be shown, got: %s", output)
	}

	output = runCLI(t, "config", "init", "--format", "yaml", "--no-audit")
	if !strings.Contains(output, "Configuration written") {
		t.Fatalf("Expected config to be written, got: %s", output)
	}

	output = runCLI(t, "config", "init")
	if !strings.Contains(output, "already exists") {
		t.Errorf("Expected config init to refuse overwriting, got: %s", output)
	}

	output = runCLI(t, "config", "show")
	if !strings.Contains(output, "format: yaml") || !strings.Contains(output, "audit: false") {
		t.Errorf("Expected yaml output from the configured format, got: %s", output)
	}

	output = runCLI(t, "config", "show", "--output", "text")
	if !strings.Contains(output, configs.UserSettings.ConfigFile()) {
		t.Errorf("Expected the config file path, got: %s", output)
	}

	output = runCLI(t, "config", "init", "--format", "xml", "--force")
	if !strings.Contains(output, "invalid output format") {
		t.Errorf("Expected an invalid format error, got: %s", output)
	}
}
