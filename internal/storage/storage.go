// Package storage is the persistence substrate for game sessions and
// statistics. The engine only sees the small key-value Store interface, so
// the file-backed store here can be swapped for any other backend without
// touching game logic.
package storage

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is a minimal key-value contract. Get reports a miss rather than an
// error: a read failure of any kind degrades to "no saved state".
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string)
}

// FileStore keeps each value in its own file under a root directory,
// mirroring how the session files were laid out before. Keys map to file
// names; path separators in keys become subdirectories.
type FileStore struct {
	root string
	mu   sync.RWMutex
}

func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// path sanitizes a key into a file path under the store root. Dots are
// stripped so a key can never climb out of the root.
func (s *FileStore) path(key string) string {
	clean := strings.ReplaceAll(key, "..", "")
	return filepath.Join(s.root, clean+".json")
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[WARN] Failed to read store key %s: %v", key, err)
		}
		return "", false
	}
	return string(data), true
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Printf("[WARN] Failed to create store directory for %s: %v", key, err)
		return err
	}
	if err := os.WriteFile(path, []byte(value), 0644); err != nil {
		log.Printf("[WARN] Failed to write store key %s: %v", key, err)
		return err
	}
	return nil
}

func (s *FileStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] Failed to delete store key %s: %v", key, err)
	}
}

// MemoryStore is an in-memory Store for tests and ephemeral play.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// Namespaced returns a view of a store with every key prefixed, used to give
// each player session its own keyspace on a shared backend.
func Namespaced(s Store, prefix string) Store {
	return &namespaced{inner: s, prefix: prefix}
}

type namespaced struct {
	inner  Store
	prefix string
}

func (n *namespaced) key(key string) string { return n.prefix + "/" + key }

func (n *namespaced) Get(key string) (string, bool) { return n.inner.Get(n.key(key)) }
func (n *namespaced) Set(key, value string) error   { return n.inner.Set(n.key(key), value) }
func (n *namespaced) Delete(key string)             { n.inner.Delete(n.key(key)) }
