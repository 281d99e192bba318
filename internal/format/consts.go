// Package format houses the low-level binary layout of a fixed allocation
// region. The goal is to keep the byte-level encoding focused and
// allocation-free so higher-level packages can orchestrate the data in a more
// ergonomic form.
package format

const (
	// PageHeaderSize is the number of bytes used by the page header preceding
	// every allocation (free or in-use) within a region.
	PageHeaderSize = 24

	// PageFlagsOff is the offset of the 32-bit flags word inside a page
	// header. The high 16 bits hold the magic, bit 15 the busy marker, and
	// the low 15 bits are reserved zero.
	PageFlagsOff = 0

	// PageSizeOff is the offset of the 32-bit page size. The size includes
	// the header itself.
	PageSizeOff = 4

	// PagePrevOff and PageNextOff are the offsets of the 64-bit neighbour
	// links. Links hold region-relative byte offsets of page headers, never
	// raw addresses, so a region stays valid wherever it is mapped.
	PagePrevOff = 8
	PageNextOff = 16

	// PageLinkOff and PageLinkLen describe the contiguous prev/next pair as a
	// single byte range for persistence.
	PageLinkOff = PagePrevOff
	PageLinkLen = PageNextOff + 8 - PagePrevOff
)

const (
	// PageMagic is stamped into the high 16 bits of the flags word of every
	// page header the allocator creates or rewrites.
	PageMagic uint16 = 0xBEEF

	// pageMagicShift positions the magic in the flags word.
	pageMagicShift = 16

	// PageBusyFlag marks a page as allocated.
	PageBusyFlag uint32 = 1 << 15

	// pageReservedMask covers the low flag bits that must stay zero.
	pageReservedMask uint32 = PageBusyFlag - 1
)

const (
	// MetaSize is the size of the accounting block stored in the head page
	// payload.
	//
	// Layout (little-endian):
	//
	//	Offset  Size  Description
	//	0x00    8     Total region size in bytes.
	//	0x08    8     Bytes currently held by free pages (header included).
	//	0x10    4     Number of live allocations.
	//	0x14    4     Minimum allocation size.
	//	0x18    32    Four 64-bit user slots.
	//	0x38    4     Lock word.
	//	0x3C    4     Reserved, zero.
	MetaSize = 64

	MetaTotalSizeOff      = 0
	MetaTotalAvailableOff = 8
	MetaAllocObjectsOff   = 16
	MetaMinAllocOff       = 20
	MetaUserOff           = 24
	MetaUserSlotSize      = 8
	MetaUserSlots         = 4
	MetaUserLen           = MetaUserSlots * MetaUserSlotSize
	MetaLockOff           = 56
)

const (
	// HeadPageOffset is where the permanently busy head page lives.
	HeadPageOffset = 0

	// HeadPageSize is the size of the head page: its header plus the
	// accounting block.
	HeadPageSize = PageHeaderSize + MetaSize

	// MinRegionSize is the smallest region that can host a head page, a free
	// main page, and one further header's worth of slack for carving.
	MinRegionSize = 3*PageHeaderSize + MetaSize

	// MinRemainFree is the smallest leftover a free page may keep after a
	// carve. Anything smaller is handed out whole.
	MinRemainFree = 2 * PageHeaderSize
)
