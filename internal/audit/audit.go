package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/PolarWolf314/whisper/internal/configs"

	"github.com/google/uuid"
)

// Operations recorded in the audit log.
const (
	OpGenerate = "generate"
	OpImport   = "import"
	OpLoad     = "load"
	OpExport   = "export"
	OpEncrypt  = "encrypt"
	OpDecrypt  = "decrypt"
)

// Entry represents a single audit log entry.
type Entry struct {
	ID        string `json:"id"`
	Timestamp string `json:"ts"` // RFC3339 with microseconds.
	Operation string `json:"op"`
	Success   bool   `json:"ok"`

	// Optional fields depending on operation.
	KeyID       string `json:"key_id,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"` // Public key fingerprint.
	Source      string `json:"source,omitempty"`      // For import (file path or stdin).
	OutputPath  string `json:"output_path,omitempty"` // For export.
	Format      string `json:"format,omitempty"`      // For export.
	Bytes       int    `json:"bytes,omitempty"`       // Plaintext size for encrypt/decrypt.
	Error       string `json:"error,omitempty"`
}

var (
	mu      sync.Mutex
	enabled = true
)

// SetEnabled turns audit logging on or off for the process.
func SetEnabled(on bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = on
}

// Log appends an entry to the audit log.
// Operations should not fail just because audit logging failed, so any error
// is swallowed.
func Log(entry Entry) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled {
		return
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	logPath := LogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// Result builds an entry for op with Success and Error filled from err.
func Result(op string, err error) Entry {
	entry := Entry{Operation: op, Success: err == nil}
	if err != nil {
		entry.Error = err.Error()
	}
	return entry
}

// LogPath returns the path to the audit log file.
func LogPath() string {
	return configs.UserSettings.AuditFile()
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	data, err := os.ReadFile(LogPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
