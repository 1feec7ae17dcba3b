package configs

import (
	"log"
	"os"
	"path/filepath"
)

// HomeEnv, when set, places both the data and config directories under it.
const HomeEnv = "WHISPER_HOME"

type Settings struct {
	DataPath    string
	ConfigsPath string
}

var UserSettings *Settings

func init() {
	settings, err := defaultSettings()
	if err != nil {
		log.Fatalf("error resolving whisper directories: %s", err)
	}
	UserSettings = settings
}

func defaultSettings() (*Settings, error) {
	if home := os.Getenv(HomeEnv); home != "" {
		return &Settings{
			DataPath:    filepath.Join(home, "data"),
			ConfigsPath: filepath.Join(home, "config"),
		}, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}

	dataDir := os.Getenv("XDG_DATA_HOME")

	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return &Settings{
		DataPath:    filepath.Join(dataDir, "whisper"),
		ConfigsPath: filepath.Join(configDir, "whisper"),
	}, nil
}

// ConfigFile returns the path of config.toml.
func (s *Settings) ConfigFile() string {
	return filepath.Join(s.ConfigsPath, "config.toml")
}

// StoreFile returns the default path of the key store.
func (s *Settings) StoreFile() string {
	return filepath.Join(s.DataPath, "store.json")
}

// MetadataFile returns the path of the active key's metadata.
func (s *Settings) MetadataFile() string {
	return filepath.Join(s.DataPath, "metadata.toml")
}

// AuditFile returns the path of the audit log.
func (s *Settings) AuditFile() string {
	return filepath.Join(s.DataPath, "audit.jsonl")
}
