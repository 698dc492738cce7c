package store

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists one vector per file under a cache directory, with an
// in-memory map in front to avoid re-reading. Vectors are stored as a
// little-endian uint32 length followed by float64 values.
type FileStore struct {
	mu  sync.RWMutex
	mem map[string][]float64
	dir string
}

// NewFileStore creates (if needed) the cache directory and returns a store
// backed by it. An empty dir yields a memory-only store.
func NewFileStore(dir string) (*FileStore, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache dir %s: %w", dir, err)
		}
	}
	return &FileStore{mem: make(map[string][]float64), dir: dir}, nil
}

// Get returns cached vectors for the keys present in memory or on disk.
func (f *FileStore) Get(_ context.Context, keys []string) (map[string][]float64, error) {
	out := make(map[string][]float64, len(keys))
	var misses []string

	f.mu.RLock()
	for _, key := range keys {
		if v, ok := f.mem[key]; ok {
			out[key] = v
		} else {
			misses = append(misses, key)
		}
	}
	f.mu.RUnlock()

	for _, key := range misses {
		vec, ok, err := f.load(key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out[key] = vec
		f.mu.Lock()
		f.mem[key] = vec
		f.mu.Unlock()
	}
	return out, nil
}

// Put stores vectors in memory and on disk. Keys already present are kept
// as-is, making concurrent duplicate writes harmless.
func (f *FileStore) Put(_ context.Context, entries map[string][]float64) error {
	for key, vec := range entries {
		f.mu.Lock()
		if _, exists := f.mem[key]; exists {
			f.mu.Unlock()
			continue
		}
		f.mem[key] = vec
		f.mu.Unlock()

		if err := f.save(key, vec); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op for the file store.
func (f *FileStore) Close() error { return nil }

func (f *FileStore) load(key string) ([]float64, bool, error) {
	if f.dir == "" {
		return nil, false, nil
	}
	path := filepath.Join(f.dir, key+".bin")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if len(data) < 4 {
		return nil, false, fmt.Errorf("cache file broken: %s", path)
	}
	length := binary.LittleEndian.Uint32(data[:4])
	need := int(length) * 8
	if len(data) < 4+need {
		return nil, false, fmt.Errorf("cache file truncated: %s", path)
	}
	vec := make([]float64, int(length))
	if err := binary.Read(bytes.NewReader(data[4:4+need]), binary.LittleEndian, vec); err != nil {
		return nil, false, err
	}
	return vec, true, nil
}

func (f *FileStore) save(key string, vec []float64) error {
	if f.dir == "" {
		return nil
	}
	path := filepath.Join(f.dir, key+".bin")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	buf := &bytes.Buffer{}
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(vec)))
	if err := binary.Write(buf, binary.LittleEndian, vec); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
