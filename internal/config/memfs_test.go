package config

import (
	"io/fs"
	"sync"
)

type memFS struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemFS(files map[string]string) *memFS {
	m := &memFS{files: map[string][]byte{}}
	for k, v := range files {
		m.files[k] = []byte(v)
	}
	return m
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

func (m *memFS) WriteFile(path string, data []byte, _ fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = append([]byte(nil), data...)
	return nil
}

func (m *memFS) write(path, data string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = []byte(data)
}

func (m *memFS) read(path string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.files[path])
}
