// Package configs manages configuration and on-disk locations for whisper.
//
// # Settings
//
// UserSettings is initialized at startup from the XDG directories:
//
//   - DataPath: $XDG_DATA_HOME/whisper (key store, key metadata, audit log)
//   - ConfigsPath: the user config directory plus /whisper (config.toml)
//
// Setting WHISPER_HOME places both under a single directory, which is what
// tests and throwaway sessions use.
//
// # Configuration
//
// config.toml is optional. Missing values fall back to DefaultConfig:
//
//	[store]
//	path = "~/.local/share/whisper/store.json"
//
//	[audit]
//	enabled = true
//
//	[output]
//	format = "text" # text, json or yaml
//
//	[keys]
//	export_name = "KeyPair.txt"
//
// # Key Metadata
//
// metadata.toml sits next to the store and records the identifier, origin,
// creation time and public fingerprint of the committed key pair. It is
// informational only. The store remains the source of truth for the keys.
package configs
