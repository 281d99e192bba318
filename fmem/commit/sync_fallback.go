//go:build !linux && !freebsd && !darwin && !windows

package commit

import (
	"github.com/joshuapare/fmemkit/fmem"
)

// flush is a no-op where no mapped-file sync primitive is available. The
// region is only as durable as the OS page cache.
func (m *Msync) flush(_ []byte, _ []fmem.Range, _ bool) error {
	return nil
}
