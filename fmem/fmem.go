// Package fmem implements a first-fit memory allocator over a fixed byte
// region, typically a shared file-backed mapping. The region is fully
// self-describing: every page carries a magic-stamped header with its size
// and neighbour links, and the head page stores the accounting block, so a
// region written by one process can be reopened by another.
package fmem

import (
	"fmt"
	"math"
	"os"

	"github.com/joshuapare/fmemkit/internal/format"
	"github.com/joshuapare/fmemkit/internal/list"
	"github.com/joshuapare/fmemkit/internal/logger"
)

// Ref is a region-relative offset of an allocation payload. Refs stay valid
// across remapping because they never encode addresses.
type Ref = uint64

// FMem is an allocator bound to one mapped region.
//
// All exported methods serialize on the in-region lock word, so an FMem may
// be shared between goroutines, and cooperating processes mapping the same
// region contend correctly as long as each side goes through this package.
type FMem struct {
	region    []byte
	meta      format.Meta
	pages     list.List
	committer Committer

	// terminate selects the hard corruption policy: log and exit instead
	// of returning ErrCorrupted.
	terminate bool

	// broken is latched when a committer call fails. The region contents
	// may be ahead of stable storage at that point, so no further
	// allocation, free or commit is allowed.
	broken bool
}

// Option customizes allocator behaviour.
type Option func(*FMem)

// WithTerminateOnCorruption makes a failed magic check log at error level
// and terminate the process instead of returning ErrCorrupted.
func WithTerminateOnCorruption() Option {
	return func(f *FMem) { f.terminate = true }
}

// pageLinks places the neighbour pair inside the page header.
var pageLinks = list.Links{PrevOff: format.PagePrevOff, NextOff: format.PageNextOff}

func newFMem(region []byte, c Committer, opts []Option) (*FMem, error) {
	meta, err := format.MetaView(region)
	if err != nil {
		return nil, err
	}
	f := &FMem{
		region:    region,
		meta:      meta,
		pages:     list.New(region, pageLinks),
		committer: c,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// CreateNew formats region as a fresh allocation arena and returns the
// allocator bound to it.
//
// minAlloc is the smallest payload handed out; requests below it are rounded
// up. It is itself rounded up to the page header size.
//
// The initial layout, the head page plus one free page spanning the rest of
// the region, is committed as a single range before CreateNew returns.
func CreateNew(region []byte, minAlloc uint32, c Committer, opts ...Option) (*FMem, error) {
	if len(region) < format.MinRegionSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d",
			ErrRegionTooSmall, len(region), format.MinRegionSize)
	}
	if uint64(len(region)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: page sizes are 32-bit, region is %d bytes",
			ErrBadInitMem, len(region))
	}
	if uint64(len(region)) < uint64(minAlloc)+2*format.PageHeaderSize+format.MetaSize {
		return nil, fmt.Errorf("%w: %d bytes cannot hold a %d byte allocation",
			ErrBadInitMem, len(region), minAlloc)
	}
	if minAlloc < format.PageHeaderSize {
		minAlloc = format.PageHeaderSize
	}

	f, err := newFMem(region, c, opts)
	if err != nil {
		return nil, err
	}

	head, err := format.PageAt(region, format.HeadPageOffset)
	if err != nil {
		return nil, err
	}
	head.SetSize(format.HeadPageSize)
	head.SetBusy(true)
	head.StampMagic()
	f.pages.Init(head.Offset)

	main, err := format.PageAt(region, format.HeadPageSize)
	if err != nil {
		return nil, err
	}
	main.SetSize(uint32(len(region) - format.HeadPageSize))
	main.SetBusy(false)
	main.StampMagic()
	f.pages.AddAfter(head.Offset, main.Offset)

	f.meta.SetTotalSize(uint64(len(region)))
	f.meta.SetTotalAvailable(uint64(main.Size()))
	f.meta.SetAllocObjects(0)
	f.meta.SetMinAlloc(minAlloc)
	for i := 1; i <= format.MetaUserSlots; i++ {
		f.meta.SetUser(i, 0)
	}
	f.meta.ResetLock()

	// One range covering the head page and the main page header.
	if f.commitRanges(Range{Off: 0, Len: format.HeadPageSize + format.PageHeaderSize}) < 0 {
		f.broken = true
		return nil, fmt.Errorf("initial layout: %w", ErrCommitFailed)
	}
	return f, nil
}

// FromExisting adopts a region previously formatted by CreateNew, possibly
// in another process or an earlier run. The committer is installed fresh;
// the lock word is reset in case the previous owner died holding it.
func FromExisting(region []byte, c Committer, opts ...Option) (*FMem, error) {
	f, err := newFMem(region, c, opts)
	if err != nil {
		return nil, err
	}

	head, err := format.PageAt(region, format.HeadPageOffset)
	if err != nil {
		return nil, err
	}
	if err := f.checkPage(head); err != nil {
		return nil, err
	}
	if !head.Busy() || head.Size() != format.HeadPageSize {
		return nil, fmt.Errorf("head page flags 0x%08x size %d: %w",
			head.Flags(), head.Size(), ErrCorrupted)
	}
	if f.meta.TotalSize() != uint64(len(region)) {
		return nil, fmt.Errorf("recorded size %d, mapped %d: %w",
			f.meta.TotalSize(), len(region), ErrCorrupted)
	}

	f.meta.ResetLock()
	return f, nil
}

// checkPage verifies the header magic, applying the corruption policy.
func (f *FMem) checkPage(p format.Page) error {
	err := p.CheckMagic()
	if err == nil {
		return nil
	}
	logger.L().Error("page corruption detected",
		"offset", p.Offset, "flags", fmt.Sprintf("0x%08x", p.Flags()))
	if f.terminate {
		os.Exit(1)
	}
	return fmt.Errorf("%w: %v", ErrCorrupted, err)
}

// pageOf resolves a payload ref back to its page, validating bounds, magic,
// and that the page is a live allocation.
func (f *FMem) pageOf(ref Ref) (format.Page, error) {
	if ref < format.HeadPageSize+format.PageHeaderSize || ref > uint64(len(f.region)) {
		return format.Page{}, fmt.Errorf("ref %d: %w", ref, ErrBadRef)
	}
	p, err := format.PageAt(f.region, int(ref)-format.PageHeaderSize)
	if err != nil {
		return format.Page{}, fmt.Errorf("ref %d: %w", ref, ErrBadRef)
	}
	if err := f.checkPage(p); err != nil {
		return format.Page{}, err
	}
	if !p.Busy() {
		return format.Page{}, fmt.Errorf("ref %d names a free page: %w", ref, ErrBadRef)
	}
	if uint64(p.Offset)+uint64(p.Size()) > uint64(len(f.region)) {
		return format.Page{}, fmt.Errorf("ref %d: %w", ref, ErrBadRef)
	}
	return p, nil
}

// Bytes returns the payload of a live allocation.
func (f *FMem) Bytes(ref Ref) ([]byte, error) {
	f.acquire()
	defer f.release()
	p, err := f.pageOf(ref)
	if err != nil {
		return nil, err
	}
	return p.Payload(), nil
}

// TotalSize returns the recorded region size in bytes.
func (f *FMem) TotalSize() uint64 {
	f.acquire()
	defer f.release()
	return f.meta.TotalSize()
}

// TotalAvailable returns the bytes currently held by free pages, their
// headers included.
func (f *FMem) TotalAvailable() uint64 {
	f.acquire()
	defer f.release()
	return f.meta.TotalAvailable()
}

// AllocObjects returns the number of live allocations.
func (f *FMem) AllocObjects() uint32 {
	f.acquire()
	defer f.release()
	return f.meta.AllocObjects()
}

// MinAlloc returns the minimum allocation size.
func (f *FMem) MinAlloc() uint32 {
	f.acquire()
	defer f.release()
	return f.meta.MinAlloc()
}

// User returns user slot i, with i in [1, 4]. Slots are application-owned
// u64 cells in the accounting block, typically used to stash the ref of a
// root object so a reopening process can find its data again.
func (f *FMem) User(i int) uint64 {
	f.acquire()
	defer f.release()
	return f.meta.User(i)
}

// SetUser stores user slot i, with i in [1, 4]. The new value is not
// persisted until CommitUserData is called.
func (f *FMem) SetUser(i int, v uint64) {
	f.acquire()
	defer f.release()
	f.meta.SetUser(i, v)
}
