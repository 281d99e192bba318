package fmem

import (
	"github.com/joshuapare/fmemkit/internal/format"
)

// Free releases the allocation named by ref and greedily merges the freed
// page with free neighbours, so free space never stays fragmented across
// adjacent pages. The head page never takes part in a merge.
//
// Returns the number of bytes returned to the free pool: the full page size
// of the allocation, header included.
func (f *FMem) Free(ref Ref) (int64, error) {
	f.acquire()
	defer f.release()

	if f.broken {
		return 0, ErrBroken
	}

	p, err := f.pageOf(ref)
	if err != nil {
		return 0, err
	}

	// The full page comes back to the free pool no matter how the merge
	// reshapes it.
	freed := uint64(p.Size())

	p.SetBusy(false)
	survivor, err := f.merge(p)
	if err != nil {
		return 0, err
	}
	survivor.StampMagic()

	f.meta.SetAllocObjects(f.meta.AllocObjects() - 1)
	f.meta.SetTotalAvailable(f.meta.TotalAvailable() + freed)

	prev := f.pages.Prev(survivor.Offset)
	next := f.pages.Next(survivor.Offset)
	ret := f.commitRanges(
		Range{Off: int64(survivor.Offset), Len: format.PageHeaderSize},
		Range{Off: int64(prev) + format.PageLinkOff, Len: format.PageLinkLen},
		Range{Off: int64(next) + format.PageLinkOff, Len: format.PageLinkLen},
	)
	if ret < 0 {
		f.broken = true
		return 0, ErrCommitFailed
	}
	return int64(freed), nil
}

// merge folds p into its free neighbours. Because the list is memory
// ordered, a list neighbour other than the head is also the physical
// neighbour, so absorbing it is a pure size addition. Returns the surviving
// page.
func (f *FMem) merge(p format.Page) (format.Page, error) {
	nextOff := f.pages.Next(p.Offset)
	if nextOff != format.HeadPageOffset && nextOff == p.Offset+int(p.Size()) {
		next, err := format.PageAt(f.region, nextOff)
		if err != nil {
			return format.Page{}, err
		}
		if err := f.checkPage(next); err != nil {
			return format.Page{}, err
		}
		if !next.Busy() {
			p.SetSize(p.Size() + next.Size())
			f.pages.Remove(next.Offset)
		}
	}

	prevOff := f.pages.Prev(p.Offset)
	if prevOff != format.HeadPageOffset {
		prev, err := format.PageAt(f.region, prevOff)
		if err != nil {
			return format.Page{}, err
		}
		if err := f.checkPage(prev); err != nil {
			return format.Page{}, err
		}
		if !prev.Busy() && prevOff+int(prev.Size()) == p.Offset {
			prev.SetSize(prev.Size() + p.Size())
			f.pages.Remove(p.Offset)
			return prev, nil
		}
	}
	return p, nil
}
