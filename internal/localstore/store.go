package localstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/railscope/railscope/internal/config"
)

const (
	// DefaultDir is where state lives when no directory is configured.
	DefaultDir = "~/.local/state/railscope"
	fileName   = "state.toml"
)

// Store is a file-backed string key/value store. Every call re-reads the file
// so separate processes sharing the directory observe each other's writes.
type Store struct {
	mu   sync.Mutex
	path string
}

type document struct {
	Entries map[string]string `toml:"entries"`
}

// Open returns a store rooted at dir. The directory is created on first write.
func Open(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultDir
	}
	resolved, err := config.ExpandPath(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve state dir: %w", err)
	}
	return &Store{path: filepath.Join(resolved, fileName)}, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return "", false, err
	}
	value, ok := doc.Entries[key]
	return value, ok, nil
}

// Set stores value under key. A corrupt file is replaced rather than kept.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		doc = document{Entries: map[string]string{}}
	}
	doc.Entries[key] = value
	return s.write(doc)
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		doc = document{Entries: map[string]string{}}
	}
	if _, ok := doc.Entries[key]; !ok && err == nil {
		return nil
	}
	delete(doc.Entries, key)
	return s.write(doc)
}

// Keys lists stored keys in sorted order.
func (s *Store) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(doc.Entries))
	for key := range doc.Entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) read() (document, error) {
	doc := document{Entries: map[string]string{}}
	bytes, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("read state: %w", err)
	}
	if err := toml.Unmarshal(bytes, &doc); err != nil {
		return document{Entries: map[string]string{}}, fmt.Errorf("parse state: %w", err)
	}
	if doc.Entries == nil {
		doc.Entries = map[string]string{}
	}
	return doc, nil
}

func (s *Store) write(doc document) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	bytes, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(dir, fileName+".*")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(bytes); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close state: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}
