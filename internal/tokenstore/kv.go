// ABOUTME: Key/value backends for the token store
// ABOUTME: FileKV persists to a private JSON file, MemoryKV keeps values in process

package tokenstore

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// KV is string key/value storage. SetAll and Delete apply every key or none.
type KV interface {
	Get(key string) (string, bool, error)
	SetAll(values map[string]string) error
	Delete(keys ...string) error
}

// MemoryKV is a process-local KV
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKV creates an empty in-memory KV
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) SetAll(values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

func (m *MemoryKV) Delete(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

// FileName is the session file created inside the config directory
const FileName = "session.json"

// FileKV stores values as a JSON object in a file readable only by the owner
type FileKV struct {
	mu   sync.Mutex
	path string
}

// NewFileKV creates a FileKV backed by dir/session.json
func NewFileKV(dir string) *FileKV {
	return &FileKV{path: filepath.Join(dir, FileName)}
}

// Path returns the backing file path
func (f *FileKV) Path() string {
	return f.path
}

func (f *FileKV) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *FileKV) SetAll(values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.load()
	if err != nil {
		return err
	}
	for k, v := range values {
		current[k] = v
	}
	return f.save(current)
}

func (f *FileKV) Delete(keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(current, k)
	}
	if len(current) == 0 {
		if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	return f.save(current)
}

// load reads the file; a missing or corrupt file yields an empty map
func (f *FileKV) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		slog.Warn("Ignoring corrupt session file", "path", f.path, "error", err)
		return map[string]string{}, nil
	}
	return values, nil
}

// save writes through a temp file so readers never see a partial object
func (f *FileKV) save(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, f.path)
}
