//go:build linux || freebsd

package commit

import (
	"golang.org/x/sys/unix"

	"github.com/joshuapare/fmemkit/fmem"
)

// flush drives the aligned ranges to disk.
//
// A single range is flushed with one synchronous msync. A batch is queued
// asynchronously per range and settled with fdatasync, so the disk sees one
// barrier instead of one per range.
func (m *Msync) flush(region []byte, aligned []fmem.Range, single bool) error {
	if single {
		for _, r := range aligned {
			if err := unix.Msync(region[r.Off:r.Off+r.Len], unix.MS_SYNC); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range aligned {
		if err := unix.Msync(region[r.Off:r.Off+r.Len], unix.MS_ASYNC); err != nil {
			return err
		}
	}
	return unix.Fdatasync(m.fd)
}
