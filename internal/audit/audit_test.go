package audit

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PolarWolf314/whisper/internal/configs"
)

func withTempDataDir(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()

	original := configs.UserSettings
	configs.UserSettings = &configs.Settings{
		DataPath:    filepath.Join(tempDir, "data"),
		ConfigsPath: filepath.Join(tempDir, "config"),
	}
	t.Cleanup(func() {
		configs.UserSettings = original
		SetEnabled(true)
	})

	return configs.UserSettings.DataPath
}

func TestLog_CreatesFile(t *testing.T) {
	dataDir := withTempDataDir(t)

	Log(Entry{Operation: OpGenerate, Success: true})

	logPath := filepath.Join(dataDir, "audit.jsonl")
	info, err := os.Stat(logPath)
	if os.IsNotExist(err) {
		t.Fatalf("Audit log file was not created")
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %o", info.Mode().Perm())
	}
}

func TestLog_AppendsEntries(t *testing.T) {
	withTempDataDir(t)

	Log(Entry{Operation: OpGenerate, Success: true})
	Log(Entry{Operation: OpExport, Success: true, OutputPath: "KeyPair.txt"})
	Log(Entry{Operation: OpDecrypt, Success: false, Error: "invalid input or key"})

	entries, err := ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}

	expectedOps := []string{OpGenerate, OpExport, OpDecrypt}
	for i, entry := range entries {
		if entry.Operation != expectedOps[i] {
			t.Errorf("Entry %d: expected op %q, got %q", i, expectedOps[i], entry.Operation)
		}
	}

	if entries[1].OutputPath != "KeyPair.txt" {
		t.Errorf("Expected output path to round trip, got %q", entries[1].OutputPath)
	}
}

func TestLog_AssignsIDAndTimestamp(t *testing.T) {
	withTempDataDir(t)

	Log(Entry{Operation: OpLoad, Success: true})
	Log(Entry{Operation: OpLoad, Success: true})

	entries, err := ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	if len(entries[0].ID) != 36 {
		t.Errorf("Expected a UUID entry id, got %q", entries[0].ID)
	}
	if entries[0].ID == entries[1].ID {
		t.Error("Expected distinct entry ids")
	}

	if _, err := time.Parse("2006-01-02T15:04:05.000000Z", entries[0].Timestamp); err != nil {
		t.Errorf("Timestamp %q does not match expected format: %v", entries[0].Timestamp, err)
	}
}

func TestLog_OmitsEmptyFields(t *testing.T) {
	dataDir := withTempDataDir(t)

	Log(Entry{Operation: OpGenerate, Success: true})

	data, err := os.ReadFile(filepath.Join(dataDir, "audit.jsonl"))
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}

	line := string(data)
	for _, field := range []string{"key_id", "output_path", "format", "bytes", "error"} {
		if strings.Contains(line, `"`+field+`"`) {
			t.Errorf("Expected %q to be omitted, got %s", field, line)
		}
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Entry is not valid JSON: %v", err)
	}
	if raw["ok"] != true {
		t.Errorf("Expected ok=true, got %v", raw["ok"])
	}
}

func TestLog_Disabled(t *testing.T) {
	dataDir := withTempDataDir(t)

	SetEnabled(false)
	Log(Entry{Operation: OpGenerate, Success: true})

	if _, err := os.Stat(filepath.Join(dataDir, "audit.jsonl")); !os.IsNotExist(err) {
		t.Error("Expected no audit log while disabled")
	}
}

func TestLog_UnwritableDirectoryIsIgnored(t *testing.T) {
	dataDir := withTempDataDir(t)

	// A file where the data directory should be makes every write fail.
	if err := os.MkdirAll(filepath.Dir(dataDir), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dataDir, []byte("not a directory"), 0600); err != nil {
		t.Fatal(err)
	}

	Log(Entry{Operation: OpGenerate, Success: true})
}

func TestResult(t *testing.T) {
	ok := Result(OpEncrypt, nil)
	if !ok.Success || ok.Error != "" {
		t.Errorf("Expected a successful entry, got %+v", ok)
	}

	failed := Result(OpDecrypt, errors.New("invalid input or key"))
	if failed.Success {
		t.Error("Expected Success to be false")
	}
	if failed.Error != "invalid input or key" {
		t.Errorf("Expected error text, got %q", failed.Error)
	}
	if failed.Operation != OpDecrypt {
		t.Errorf("Expected op %q, got %q", OpDecrypt, failed.Operation)
	}
}

func TestParseEntries_SkipsMalformedLines(t *testing.T) {
	data := []byte(`{"op":"generate","ok":true}
not json
{"op":"export","ok":true}

`)

	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[1].Operation != OpExport {
		t.Errorf("Expected op %q, got %q", OpExport, entries[1].Operation)
	}
}

func TestParseEntries_EmptyData(t *testing.T) {
	entries, err := ParseEntries(nil)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}
	if entries != nil {
		t.Errorf("Expected nil entries, got %v", entries)
	}
}

func TestReadEntries_NoLog(t *testing.T) {
	withTempDataDir(t)

	entries, err := ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if entries != nil {
		t.Errorf("Expected nil entries, got %v", entries)
	}
}
