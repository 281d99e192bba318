//go:build windows

package commit

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/joshuapare/fmemkit/fmem"
)

// flush drives the aligned ranges to disk with FlushViewOfFile, settling
// the file handle with FlushFileBuffers.
func (m *Msync) flush(region []byte, aligned []fmem.Range, _ bool) error {
	for _, r := range aligned {
		addr := uintptr(unsafe.Pointer(&region[r.Off]))
		if err := windows.FlushViewOfFile(addr, uintptr(r.Len)); err != nil {
			return err
		}
	}
	return windows.FlushFileBuffers(windows.Handle(m.fd))
}
