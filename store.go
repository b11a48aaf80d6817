package mdstudio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

// Storage keys. The persisted state is two JSON blobs under fixed keys.
const (
	StateKeyDocument = "document"
	StateKeyPresets  = "presets"
)

// Store is a key-value persistence backend for session state.
// Implementations serialize values as JSON. Load returns ErrStateNotFound
// for a missing key and ErrStateDecode for a malformed blob; callers
// recover from both by falling back to defaults.
type Store interface {
	Load(key string, v any) error
	Save(key string, v any) error
}

// validStateKey restricts keys to safe file name material.
var validStateKey = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// FileStore persists state as one JSON file per key under a directory.
type FileStore struct {
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// DefaultStateDir returns the per-user state directory.
func DefaultStateDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(base, "mdstudio", "state"), nil
}

// Load reads and decodes the JSON blob stored under key into v.
func (s *FileStore) Load(key string, v any) error {
	path, err := s.keyPath(key)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path is derived from a validated key
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrStateNotFound, key)
		}
		return fmt.Errorf("reading state %q: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStateDecode, key, err)
	}
	return nil
}

// Save encodes v as JSON and writes it under key. The write goes through a
// temp file and rename so a crash cannot leave a half-written blob.
func (s *FileStore) Save(key string, v any) error {
	path, err := s.keyPath(key)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state %q: %w", key, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing state %q: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("committing state %q: %w", key, err)
	}
	return nil
}

func (s *FileStore) keyPath(key string) (string, error) {
	if !validStateKey.MatchString(key) {
		return "", fmt.Errorf("invalid state key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// MemStore is an in-memory Store for tests and ephemeral sessions.
type MemStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{blobs: make(map[string][]byte)}
}

// Load decodes the blob under key into v.
func (s *MemStore) Load(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrStateNotFound, key)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStateDecode, key, err)
	}
	return nil
}

// Save encodes v under key.
func (s *MemStore) Save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding state %q: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = data
	return nil
}
