package fmem

import (
	"fmt"

	"github.com/joshuapare/fmemkit/internal/format"
)

// PageInfo is a read-only snapshot of one page, as reported by Pages.
type PageInfo struct {
	Offset  int
	Size    uint32
	Busy    bool
	MagicOK bool
	Prev    int
	Next    int
}

// Ref returns the payload ref a caller would hold for this page.
func (pi PageInfo) Ref() Ref {
	return Ref(pi.Offset + format.PageHeaderSize)
}

// Pages snapshots every page in list order, the head page first. The walk is
// bounded, so even a corrupted region yields a finite result.
func (f *FMem) Pages() []PageInfo {
	f.acquire()
	defer f.release()

	out := make([]PageInfo, 0, 8)
	head, err := format.PageAt(f.region, format.HeadPageOffset)
	if err != nil {
		return out
	}
	out = append(out, f.snapshot(head))
	f.pages.ForEach(format.HeadPageOffset, f.maxWalkSteps(), func(off int) bool {
		p, err := format.PageAt(f.region, off)
		if err != nil {
			return false
		}
		out = append(out, f.snapshot(p))
		return true
	})
	return out
}

func (f *FMem) snapshot(p format.Page) PageInfo {
	return PageInfo{
		Offset:  p.Offset,
		Size:    p.Size(),
		Busy:    p.Busy(),
		MagicOK: p.CheckMagic() == nil,
		Prev:    f.pages.Prev(p.Offset),
		Next:    f.pages.Next(p.Offset),
	}
}

// Verify walks the whole region and cross-checks the structural invariants:
// every magic intact, the list circular and memory ordered, page sizes
// tiling the region exactly, and the accounting block consistent with a
// fresh count.
func (f *FMem) Verify() error {
	f.acquire()
	defer f.release()

	head, err := format.PageAt(f.region, format.HeadPageOffset)
	if err != nil {
		return err
	}
	if err := head.CheckMagic(); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if !head.Busy() || head.Size() != format.HeadPageSize {
		return fmt.Errorf("head page flags 0x%08x size %d: %w",
			head.Flags(), head.Size(), ErrCorrupted)
	}

	expectedNext := format.HeadPageOffset + int(head.Size())
	prevOff := format.HeadPageOffset
	var available uint64
	var objects uint32
	steps := 0
	maxSteps := f.maxWalkSteps()

	cur := f.pages.Next(format.HeadPageOffset)
	for cur != format.HeadPageOffset {
		if steps++; steps > maxSteps {
			return fmt.Errorf("page list does not close: %w", ErrCorrupted)
		}
		p, err := format.PageAt(f.region, cur)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		if err := p.CheckMagic(); err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		if p.Offset != expectedNext {
			return fmt.Errorf("page at %d, expected %d: list not memory ordered: %w",
				p.Offset, expectedNext, ErrCorrupted)
		}
		if f.pages.Prev(cur) != prevOff {
			return fmt.Errorf("page at %d has prev %d, expected %d: %w",
				cur, f.pages.Prev(cur), prevOff, ErrCorrupted)
		}
		if p.Size() < format.PageHeaderSize {
			return fmt.Errorf("page at %d declares size %d: %w", cur, p.Size(), ErrCorrupted)
		}
		if p.Busy() {
			objects++
		} else {
			available += uint64(p.Size())
		}
		expectedNext = p.Offset + int(p.Size())
		prevOff = cur
		cur = f.pages.Next(cur)
	}

	if expectedNext != len(f.region) {
		return fmt.Errorf("pages cover %d of %d bytes: %w",
			expectedNext, len(f.region), ErrCorrupted)
	}
	if f.pages.Prev(format.HeadPageOffset) != prevOff {
		return fmt.Errorf("head prev is %d, expected %d: %w",
			f.pages.Prev(format.HeadPageOffset), prevOff, ErrCorrupted)
	}
	if got := f.meta.TotalSize(); got != uint64(len(f.region)) {
		return fmt.Errorf("recorded size %d, mapped %d: %w", got, len(f.region), ErrCorrupted)
	}
	if got := f.meta.TotalAvailable(); got != available {
		return fmt.Errorf("recorded available %d, counted %d: %w", got, available, ErrCorrupted)
	}
	if got := f.meta.AllocObjects(); got != objects {
		return fmt.Errorf("recorded objects %d, counted %d: %w", got, objects, ErrCorrupted)
	}
	return nil
}
