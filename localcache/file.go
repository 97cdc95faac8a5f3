package localcache

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps one file per key under a directory, typically ~/.marche.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates the directory if needed and returns a store over it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) (string, error) {
	// Keys are well-known names like "cart" or "token"; anything that could
	// escape the directory is rejected.
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.dir, key), nil
}

func (s *FileStore) Get(key string) (string, bool) {
	p, err := s.path(key)
	if err != nil {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := os.ReadFile(p)
	if err != nil {
		return "", false
	}
	return string(b), true
}

func (s *FileStore) Set(key, value string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.WriteFile(p, []byte(value), 0o600)
}

func (s *FileStore) Delete(key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
