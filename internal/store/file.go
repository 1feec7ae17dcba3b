package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	kerrors "github.com/PolarWolf314/whisper/internal/errors"
)

// Version is the current on-disk format version.
const Version = 1

// FileMode is the permission of the store file. It holds a private key.
const FileMode os.FileMode = 0600

type fileData struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}

// FileStore keeps entries in a single JSON file, replaced atomically on every write.
type FileStore struct {
	mu   sync.RWMutex
	path string
	data *fileData
}

// NewFileStore opens the store at path, creating its directory with 0700
// permissions. A missing or empty file is an empty store.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path: path,
		data: &fileData{Version: Version, Entries: make(map[string]string)},
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return s, nil
}

// Path returns the store file path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) load() error {
	f, err := os.Open(s.path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	raw, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read store: %w", err)
	}
	if len(raw) == 0 {
		return nil
	}

	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrStoreCorrupted, err)
	}
	if data.Version > Version {
		return fmt.Errorf("%w: unsupported version %d", kerrors.ErrStoreCorrupted, data.Version)
	}
	if data.Entries == nil {
		data.Entries = make(map[string]string)
	}

	s.data = &data
	return nil
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data.Entries[key]
	return v, ok, nil
}

// Set writes key and syncs the file. On a failed write the in-memory entry is
// restored to its previous value.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.data.Entries[key]
	s.data.Entries[key] = value

	if err := s.syncLocked(); err != nil {
		if existed {
			s.data.Entries[key] = prev
		} else {
			delete(s.data.Entries, key)
		}
		return err
	}
	return nil
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.data.Entries[key]
	if !existed {
		return nil
	}
	delete(s.data.Entries, key)

	if err := s.syncLocked(); err != nil {
		s.data.Entries[key] = prev
		return err
	}
	return nil
}

// syncLocked writes the store with temp file + fsync + rename.
// Must be called with the write lock held.
func (s *FileStore) syncLocked() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", kerrors.ErrStorePersist, err)
	}

	tmpPath := s.path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, FileMode)
	if err != nil {
		return fmt.Errorf("%w: create temp: %v", kerrors.ErrStorePersist, err)
	}

	if _, err := f.Write(raw); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: write: %v", kerrors.ErrStorePersist, err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: fsync: %v", kerrors.ErrStorePersist, err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: close: %v", kerrors.ErrStorePersist, err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: rename: %v", kerrors.ErrStorePersist, err)
	}

	return nil
}
