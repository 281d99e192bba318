package fmem

import (
	"runtime"
	"sync/atomic"
	"unsafe"

	"github.com/joshuapare/fmemkit/internal/format"
)

// lockWord returns the in-region lock word as an atomic target. The word
// lives at a fixed offset inside the head page payload so cooperating
// processes mapping the same region contend on the same cell.
func (f *FMem) lockWord() *uint32 {
	off := f.meta.LockWordOff()
	return (*uint32)(unsafe.Pointer(&f.region[off]))
}

// acquire spins until the lock word flips from 0 to 1.
func (f *FMem) acquire() {
	w := f.lockWord()
	for !atomic.CompareAndSwapUint32(w, 0, 1) {
		runtime.Gosched()
	}
}

// release stores 0 into the lock word.
func (f *FMem) release() {
	atomic.StoreUint32(f.lockWord(), 0)
}

// maxWalkSteps bounds list walks so a corrupted loop cannot spin forever.
// No valid region can hold more pages than its size divided by one header.
func (f *FMem) maxWalkSteps() int {
	return len(f.region)/format.PageHeaderSize + 1
}
