//go:build !unix

package mmfile

import (
	"fmt"
	"os"
)

// Create makes (or truncates) the file at path and holds its contents in
// memory. Without mmap, mutations only reach the file on Close.
func Create(path string, size int) (*File, error) {
	if size <= 0 {
		return nil, fmt.Errorf("mmfile: invalid size %d", size)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, err
	}
	return &File{f: f, data: make([]byte, size)}, nil
}

// Open reads an existing file into memory.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		f.Close()
		return nil, err
	}
	if len(data) == 0 {
		f.Close()
		return nil, fmt.Errorf("mmfile: %s is empty", path)
	}
	return &File{f: f, data: data}, nil
}

// Close writes the in-memory contents back and closes the file.
func (m *File) Close() error {
	if m.data != nil {
		if _, err := m.f.WriteAt(m.data, 0); err != nil {
			m.f.Close()
			return err
		}
		m.data = nil
	}
	return m.f.Close()
}
