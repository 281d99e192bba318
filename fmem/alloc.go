package fmem

import (
	"fmt"

	"github.com/joshuapare/fmemkit/internal/format"
)

// fit classifies how a request lands in a free page.
type fit int

const (
	cannotFit fit = iota
	fitAsIs
	fitWithCarve
)

// classify decides whether a free page can hold need payload bytes, and
// whether the leftover is worth keeping as a free page. A leftover of
// MinRemainFree bytes or less is handed out with the allocation instead of
// becoming an unusable sliver.
func classify(p format.Page, need uint32) fit {
	actual := p.Actual()
	if actual < need {
		return cannotFit
	}
	if actual-need > format.MinRemainFree {
		return fitWithCarve
	}
	return fitAsIs
}

// Alloc hands out a payload of at least n bytes. Requests below the
// configured minimum are rounded up to it.
//
// The walk is first-fit in memory order. When the chosen free page is large
// enough, a new page is carved from its tail so the free remainder keeps its
// place in the list, and the carved page is what the caller gets.
func (f *FMem) Alloc(n uint32) (Ref, []byte, error) {
	f.acquire()
	defer f.release()

	if f.broken {
		return 0, nil, ErrBroken
	}

	need := n
	if min := f.meta.MinAlloc(); need < min {
		need = min
	}
	if f.meta.TotalAvailable() < uint64(need) {
		return 0, nil, fmt.Errorf("need %d, available %d: %w",
			need, f.meta.TotalAvailable(), ErrNoMem)
	}

	var selected format.Page
	var carved bool
	var found bool
	var walkErr error

	f.pages.ForEach(format.HeadPageOffset, f.maxWalkSteps(), func(off int) bool {
		p, err := format.PageAt(f.region, off)
		if err == nil {
			err = f.checkPage(p)
		}
		if err != nil {
			walkErr = err
			return false
		}
		if p.Busy() {
			return true
		}
		switch classify(p, need) {
		case cannotFit:
			return true
		case fitAsIs:
			selected, carved, found = p, false, true
		case fitWithCarve:
			selected, walkErr = f.carve(p, need)
			carved, found = true, walkErr == nil
		}
		return false
	})

	if walkErr != nil {
		return 0, nil, walkErr
	}
	if !found {
		return 0, nil, fmt.Errorf("no free page fits %d bytes: %w", need, ErrNoMem)
	}

	selected.SetBusy(true)
	selected.StampMagic()
	f.meta.SetTotalAvailable(f.meta.TotalAvailable() - uint64(selected.Size()))
	f.meta.SetAllocObjects(f.meta.AllocObjects() + 1)

	var ret int64
	if carved {
		prev := f.pages.Prev(selected.Offset)
		next := f.pages.Next(selected.Offset)
		ret = f.commitRanges(
			Range{Off: int64(selected.Offset), Len: format.PageHeaderSize},
			Range{Off: int64(prev), Len: format.PageHeaderSize},
			Range{Off: int64(next) + format.PageLinkOff, Len: format.PageLinkLen},
		)
	} else {
		ret = f.commitRanges(Range{Off: int64(selected.Offset), Len: format.PageHeaderSize})
	}
	if ret < 0 {
		f.broken = true
		return 0, nil, fmt.Errorf("allocation at %d: %w", selected.Offset, ErrCommitFailed)
	}

	return Ref(selected.PayloadOffset()), selected.Payload(), nil
}

// carve shrinks the free page in place and creates a new page of exactly
// need payload bytes at its tail, linked directly after it. The shrunk page
// keeps its position, so the list stays memory ordered.
func (f *FMem) carve(free format.Page, need uint32) (format.Page, error) {
	newSize := need + format.PageHeaderSize
	free.SetSize(free.Size() - newSize)
	free.StampMagic()

	p, err := format.PageAt(f.region, free.Offset+int(free.Size()))
	if err != nil {
		return format.Page{}, err
	}
	p.SetSize(newSize)
	p.SetBusy(false)
	p.StampMagic()
	f.pages.Init(p.Offset)
	f.pages.AddAfter(free.Offset, p.Offset)
	return p, nil
}
