package format

import (
	"fmt"

	"github.com/joshuapare/fmemkit/internal/buf"
)

// Meta is a view over the accounting block stored in the head page payload.
// All accessors operate on the region bytes directly so that the block is
// always persisted in its on-disk form.
type Meta struct {
	Region []byte
}

// MetaView returns the accounting view for region. The region must hold at
// least the head page.
func MetaView(region []byte) (Meta, error) {
	if !buf.Has(region, HeadPageOffset, HeadPageSize) {
		return Meta{}, fmt.Errorf("meta: %w", ErrTruncated)
	}
	return Meta{Region: region}, nil
}

func (m Meta) base() int {
	return HeadPageOffset + PageHeaderSize
}

// TotalSize returns the recorded region size.
func (m Meta) TotalSize() uint64 {
	return buf.U64LE(m.Region[m.base()+MetaTotalSizeOff:])
}

// SetTotalSize stores the region size.
func (m Meta) SetTotalSize(v uint64) {
	buf.PutU64LE(m.Region[m.base()+MetaTotalSizeOff:], v)
}

// TotalAvailable returns the bytes currently held by free pages.
func (m Meta) TotalAvailable() uint64 {
	return buf.U64LE(m.Region[m.base()+MetaTotalAvailableOff:])
}

// SetTotalAvailable stores the free byte count.
func (m Meta) SetTotalAvailable(v uint64) {
	buf.PutU64LE(m.Region[m.base()+MetaTotalAvailableOff:], v)
}

// AllocObjects returns the live allocation count.
func (m Meta) AllocObjects() uint32 {
	return buf.U32LE(m.Region[m.base()+MetaAllocObjectsOff:])
}

// SetAllocObjects stores the live allocation count.
func (m Meta) SetAllocObjects(v uint32) {
	buf.PutU32LE(m.Region[m.base()+MetaAllocObjectsOff:], v)
}

// MinAlloc returns the minimum allocation size.
func (m Meta) MinAlloc() uint32 {
	return buf.U32LE(m.Region[m.base()+MetaMinAllocOff:])
}

// SetMinAlloc stores the minimum allocation size.
func (m Meta) SetMinAlloc(v uint32) {
	buf.PutU32LE(m.Region[m.base()+MetaMinAllocOff:], v)
}

// User returns user slot i, with i in [1, MetaUserSlots].
func (m Meta) User(i int) uint64 {
	if i < 1 || i > MetaUserSlots {
		return 0
	}
	return buf.U64LE(m.Region[m.base()+MetaUserOff+(i-1)*MetaUserSlotSize:])
}

// SetUser stores user slot i, with i in [1, MetaUserSlots].
func (m Meta) SetUser(i int, v uint64) {
	if i < 1 || i > MetaUserSlots {
		return
	}
	buf.PutU64LE(m.Region[m.base()+MetaUserOff+(i-1)*MetaUserSlotSize:], v)
}

// UserRangeOff returns the region offset of the user slot block. Together
// with MetaUserLen it describes the byte range persisted by user data
// commits.
func (m Meta) UserRangeOff() int {
	return m.base() + MetaUserOff
}

// LockWordOff returns the region offset of the lock word.
func (m Meta) LockWordOff() int {
	return m.base() + MetaLockOff
}

// ResetLock clears the lock word. Used when adopting a region whose previous
// owner may have died while holding the lock.
func (m Meta) ResetLock() {
	buf.PutU32LE(m.Region[m.LockWordOff():], 0)
}
