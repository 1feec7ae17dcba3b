package configs

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Output formats accepted by [output] format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// DefaultExportName is the file keys export writes when no name is configured.
const DefaultExportName = "KeyPair.txt"

type Config struct {
	Store  StoreConfig  `toml:"store"`
	Audit  AuditConfig  `toml:"audit"`
	Output OutputConfig `toml:"output"`
	Keys   KeysConfig   `toml:"keys"`
}

type StoreConfig struct {
	Path string `toml:"path"`
}

type AuditConfig struct {
	Enabled bool `toml:"enabled"`
}

type OutputConfig struct {
	Format string `toml:"format"`
}

type KeysConfig struct {
	ExportName string `toml:"export_name"`
}

// KeyMetadata describes the key pair currently held in the store.
type KeyMetadata struct {
	KeyID             string    `toml:"key_id"`
	Source            string    `toml:"source"`
	PublicFingerprint string    `toml:"public_fingerprint"`
	CreatedAt         time.Time `toml:"created_at"`
	LoadedAt          time.Time `toml:"loaded_at,omitempty"`
}

// DefaultConfig returns the configuration used when config.toml is absent.
func DefaultConfig() *Config {
	return &Config{
		Store:  StoreConfig{Path: UserSettings.StoreFile()},
		Audit:  AuditConfig{Enabled: true},
		Output: OutputConfig{Format: FormatText},
		Keys:   KeysConfig{ExportName: DefaultExportName},
	}
}

// LoadConfig loads config.toml, filling unset values with defaults.
func LoadConfig() (*Config, error) {
	config := DefaultConfig()
	configPath := UserSettings.ConfigFile()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if config.Store.Path == "" {
		config.Store.Path = UserSettings.StoreFile()
	}
	if config.Output.Format == "" {
		config.Output.Format = FormatText
	}
	if config.Keys.ExportName == "" {
		config.Keys.ExportName = DefaultExportName
	}

	return config, nil
}

// SaveConfig writes config to config.toml.
func SaveConfig(config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}

	if err := SaveTOML(UserSettings.ConfigFile(), config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// Validate reports values the rest of the program cannot act on.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "", FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("invalid output format %q: must be text, json or yaml", c.Output.Format)
	}
	return nil
}

// GenerateKeyID generates a new identifier for a committed key pair.
func GenerateKeyID() string {
	return uuid.New().String()
}

// LoadKeyMetadata loads the metadata of the stored key pair. A missing file
// yields nil metadata and no error.
func LoadKeyMetadata() (*KeyMetadata, error) {
	metadataPath := UserSettings.MetadataFile()

	if _, err := os.Stat(metadataPath); os.IsNotExist(err) {
		return nil, nil
	}

	metadata := &KeyMetadata{}
	if err := LoadTOML(metadataPath, metadata); err != nil {
		return nil, fmt.Errorf("failed to load key metadata: %w", err)
	}

	return metadata, nil
}

// SaveKeyMetadata writes the metadata of the stored key pair.
func SaveKeyMetadata(metadata *KeyMetadata) error {
	if err := SaveTOML(UserSettings.MetadataFile(), metadata); err != nil {
		return fmt.Errorf("failed to save key metadata: %w", err)
	}

	return nil
}
