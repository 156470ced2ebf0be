package session

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps the token in a file under the user config dir, the
// client-side analogue of browser local storage: one fixed key, survives
// restarts, gone when explicitly removed.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at the default location
// (<user config dir>/quickbite/token).
func NewFileStore() (*FileStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return &FileStore{path: filepath.Join(dir, "quickbite", "token")}, nil
}

// NewFileStoreAt creates a FileStore at an explicit path. Used by tests.
func NewFileStoreAt(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Read() (string, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (f *FileStore) Write(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.path, []byte(token), 0o600)
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// MemStore is a Store that forgets everything when the process exits.
type MemStore struct {
	token string
}

func NewMemStore() *MemStore { return &MemStore{} }

func (m *MemStore) Read() (string, error)      { return m.token, nil }
func (m *MemStore) Write(token string) error   { m.token = token; return nil }
func (m *MemStore) Clear() error               { m.token = ""; return nil }
