//go:build darwin

package commit

import (
	"golang.org/x/sys/unix"

	"github.com/joshuapare/fmemkit/fmem"
)

// flush drives the aligned ranges to disk.
//
// On macOS, msync() requires the address to match the original mmap()
// address, so sub-slices cannot be flushed individually. The whole region is
// synced instead; the kernel only writes pages that are actually dirty.
func (m *Msync) flush(region []byte, _ []fmem.Range, single bool) error {
	if err := unix.Msync(region, unix.MS_SYNC); err != nil {
		return err
	}
	if single {
		return nil
	}
	// macOS has no fdatasync; fsync settles the descriptor.
	return unix.Fsync(m.fd)
}
