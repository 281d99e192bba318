// Package mmfile provides read-write memory-mapped files backing allocation
// regions.
package mmfile

import "os"

// File is a file held open together with its writable mapping.
type File struct {
	f    *os.File
	data []byte
}

// Bytes returns the mapped region. The slice aliases the file contents; on
// platforms without mmap it is an in-memory copy written back on Close.
func (m *File) Bytes() []byte {
	return m.data
}

// FD returns the backing file descriptor for sync calls.
func (m *File) FD() int {
	return int(m.f.Fd())
}

// Path returns the backing file's path.
func (m *File) Path() string {
	return m.f.Name()
}
