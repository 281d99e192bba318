package format

import (
	"fmt"

	"github.com/joshuapare/fmemkit/internal/buf"
)

// Page is a view over one page header within a region. It holds no state of
// its own. Every accessor reads or writes the underlying bytes directly.
//
// Page header layout (little-endian):
//
//	Offset  Size  Description
//	0x00    4     Flags. High 16 bits magic, bit 15 busy, rest reserved.
//	0x04    4     Page size in bytes, header included.
//	0x08    8     Offset of the previous page header in the region.
//	0x10    8     Offset of the next page header in the region.
type Page struct {
	Region []byte
	Offset int
}

// PageAt returns a page view at off, verifying the header fits the region.
func PageAt(region []byte, off int) (Page, error) {
	if !buf.Has(region, off, PageHeaderSize) {
		return Page{}, fmt.Errorf("page at %d: %w", off, ErrTruncated)
	}
	return Page{Region: region, Offset: off}, nil
}

// Flags returns the raw flags word.
func (p Page) Flags() uint32 {
	return buf.U32LE(p.Region[p.Offset+PageFlagsOff:])
}

func (p Page) setFlags(v uint32) {
	buf.PutU32LE(p.Region[p.Offset+PageFlagsOff:], v)
}

// Magic returns the magic stored in the high 16 bits of the flags word.
func (p Page) Magic() uint16 {
	return uint16(p.Flags() >> pageMagicShift)
}

// StampMagic writes PageMagic into the flags word, preserving the busy bit
// and clearing the reserved bits.
func (p Page) StampMagic() {
	v := p.Flags() & PageBusyFlag
	p.setFlags(v | uint32(PageMagic)<<pageMagicShift)
}

// CheckMagic reports whether the header magic is intact.
func (p Page) CheckMagic() error {
	if p.Magic() != PageMagic {
		return fmt.Errorf("page at %d: flags 0x%08x: %w", p.Offset, p.Flags(), ErrBadMagic)
	}
	return nil
}

// Busy reports whether the page is allocated.
func (p Page) Busy() bool {
	return p.Flags()&PageBusyFlag != 0
}

// SetBusy sets or clears the busy bit, leaving magic untouched.
func (p Page) SetBusy(busy bool) {
	v := p.Flags()
	if busy {
		v |= PageBusyFlag
	} else {
		v &^= PageBusyFlag
	}
	p.setFlags(v)
}

// Size returns the page size in bytes, header included.
func (p Page) Size() uint32 {
	return buf.U32LE(p.Region[p.Offset+PageSizeOff:])
}

// SetSize stores the page size.
func (p Page) SetSize(v uint32) {
	buf.PutU32LE(p.Region[p.Offset+PageSizeOff:], v)
}

// Actual returns the usable payload size of the page.
func (p Page) Actual() uint32 {
	sz := p.Size()
	if sz < PageHeaderSize {
		return 0
	}
	return sz - PageHeaderSize
}

// Prev returns the region offset of the previous page header.
func (p Page) Prev() uint64 {
	return buf.U64LE(p.Region[p.Offset+PagePrevOff:])
}

// SetPrev stores the previous link.
func (p Page) SetPrev(off uint64) {
	buf.PutU64LE(p.Region[p.Offset+PagePrevOff:], off)
}

// Next returns the region offset of the next page header.
func (p Page) Next() uint64 {
	return buf.U64LE(p.Region[p.Offset+PageNextOff:])
}

// SetNext stores the next link.
func (p Page) SetNext(off uint64) {
	buf.PutU64LE(p.Region[p.Offset+PageNextOff:], off)
}

// PayloadOffset returns the region offset of the first payload byte.
func (p Page) PayloadOffset() int {
	return p.Offset + PageHeaderSize
}

// Payload returns the payload bytes of the page. The slice aliases the
// region; it is empty when the declared size does not fit.
func (p Page) Payload() []byte {
	b, ok := buf.Slice(p.Region, p.PayloadOffset(), int(p.Actual()))
	if !ok {
		return nil
	}
	return b
}
