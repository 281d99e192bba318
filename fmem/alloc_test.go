package fmem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/fmemkit/internal/format"
)

func TestAllocCarvesFromTail(t *testing.T) {
	f, rec := newArena(t, 4096)
	mainSize := uint32(4096 - format.HeadPageSize)

	ref, payload, err := f.Alloc(100)
	require.NoError(t, err)
	require.Len(t, payload, 100)

	// The carved page sits at the tail of the region, after the shrunk
	// free page.
	wantOff := 4096 - (100 + format.PageHeaderSize)
	assert.Equal(t, Ref(wantOff+format.PageHeaderSize), ref)

	pages := f.Pages()
	require.Len(t, pages, 3)
	assert.False(t, pages[1].Busy)
	assert.Equal(t, mainSize-(100+format.PageHeaderSize), pages[1].Size)
	assert.True(t, pages[2].Busy)
	assert.Equal(t, uint32(100+format.PageHeaderSize), pages[2].Size)

	assert.Equal(t, uint64(pages[1].Size), f.TotalAvailable())
	assert.Equal(t, uint32(1), f.AllocObjects())

	// Carving persists three ranges: the new header, the shrunk
	// predecessor's header, and the follower's link pair.
	ranges := rec.last(t)
	require.Len(t, ranges, 3)
	assert.Equal(t, Range{Off: int64(wantOff), Len: format.PageHeaderSize}, ranges[0])
	assert.Equal(t, Range{Off: int64(format.HeadPageSize), Len: format.PageHeaderSize}, ranges[1])
	assert.Equal(t, Range{Off: format.PageLinkOff, Len: format.PageLinkLen}, ranges[2])

	assertInvariants(t, f)
}

func TestAllocTakesWholePageWhenRemainderTooSmall(t *testing.T) {
	f, rec := newArena(t, 4096)
	mainActual := uint32(4096 - format.HeadPageSize - format.PageHeaderSize)

	// A leftover of exactly MinRemainFree bytes is still too small to keep,
	// so the whole page is handed out.
	ref, payload, err := f.Alloc(mainActual - format.MinRemainFree)
	require.NoError(t, err)

	// The payload spans the full page even though less was asked for.
	assert.Len(t, payload, int(mainActual))
	assert.Equal(t, Ref(format.HeadPageSize+format.PageHeaderSize), ref)

	require.Equal(t, 2, pageCount(f))
	assert.Equal(t, uint64(0), f.TotalAvailable())
	assert.Equal(t, uint32(1), f.AllocObjects())

	// No carve, so only the selected header is persisted.
	ranges := rec.last(t)
	require.Len(t, ranges, 1)
	assert.Equal(t, Range{Off: int64(format.HeadPageSize), Len: format.PageHeaderSize}, ranges[0])

	assertInvariants(t, f)
}

func TestAllocRoundsUpToMinAlloc(t *testing.T) {
	f, _ := newArena(t, 4096)

	_, payload, err := f.Alloc(1)
	require.NoError(t, err)
	assert.Len(t, payload, testMinAlloc)
}

func TestAllocFailsWhenNothingFits(t *testing.T) {
	f, _ := newArena(t, 1024)

	_, _, err := f.Alloc(2048)
	require.ErrorIs(t, err, ErrNoMem)
	assert.Equal(t, uint32(0), f.AllocObjects())
}

func TestAllocHalfOfFiftyKiB(t *testing.T) {
	f, _ := newArena(t, 50*1024)

	// Half the region fits once; the remainder cannot host a second half
	// because the bookkeeping overhead already ate into it.
	_, payload, err := f.Alloc(25600)
	require.NoError(t, err)
	require.Len(t, payload, 25600)

	_, _, err = f.Alloc(25600)
	require.ErrorIs(t, err, ErrNoMem)

	assert.Equal(t, uint32(1), f.AllocObjects())
	assertInvariants(t, f)
}

func TestAllocCarvesBackToFront(t *testing.T) {
	f, _ := newArena(t, 8192)

	refA, _, err := f.Alloc(100)
	require.NoError(t, err)
	refB, _, err := f.Alloc(100)
	require.NoError(t, err)

	// Carving places consecutive allocations back to front.
	assert.Greater(t, refA, refB)
	assertInvariants(t, f)
}

func TestAllocReusesFreedHole(t *testing.T) {
	f, _ := newArena(t, 4096)

	refBig, _, err := f.Alloc(3600)
	require.NoError(t, err)
	refA, _, err := f.Alloc(100)
	require.NoError(t, err)

	// Consume the last free page whole so the region is full.
	refB, _, err := f.Alloc(200)
	require.NoError(t, err)
	require.Equal(t, uint64(0), f.TotalAvailable())

	// The hole left by refA sits between two busy pages, so it survives
	// as-is and is the only candidate for the next request.
	_, err = f.Free(refA)
	require.NoError(t, err)

	refC, _, err := f.Alloc(100)
	require.NoError(t, err)
	assert.Equal(t, refA, refC)
	assert.NotEqual(t, refBig, refC)
	assert.NotEqual(t, refB, refC)

	assertInvariants(t, f)
}

func TestAllocExhaustsThenRecovers(t *testing.T) {
	f, _ := newArena(t, 2048)

	var refs []Ref
	for {
		ref, _, err := f.Alloc(64)
		if err != nil {
			require.ErrorIs(t, err, ErrNoMem)
			break
		}
		refs = append(refs, ref)
	}
	require.NotEmpty(t, refs)
	assertInvariants(t, f)

	for _, ref := range refs {
		_, err := f.Free(ref)
		require.NoError(t, err)
	}
	assert.Equal(t, uint32(0), f.AllocObjects())
	assert.Equal(t, uint64(2048-format.HeadPageSize), f.TotalAvailable())
	assertInvariants(t, f)

	// After full recovery the big allocation fits again.
	_, _, err := f.Alloc(1024)
	require.NoError(t, err)
	assertInvariants(t, f)
}

func TestAllocPayloadsDoNotOverlap(t *testing.T) {
	f, _ := newArena(t, 8192)

	refs := make(map[Ref][]byte)
	for i := 0; i < 5; i++ {
		ref, payload, err := f.Alloc(128)
		require.NoError(t, err)
		for j := range payload {
			payload[j] = byte(i + 1)
		}
		refs[ref] = payload
	}

	for _, payload := range refs {
		first := payload[0]
		for _, b := range payload {
			require.Equal(t, first, b, "payload bled into a neighbour")
		}
	}
	assertInvariants(t, f)
}

func TestAllocAfterCommitFailureIsRefused(t *testing.T) {
	f, rec := newArena(t, 4096)

	rec.fail = true
	_, _, err := f.Alloc(100)
	require.ErrorIs(t, err, ErrCommitFailed)

	rec.fail = false
	_, _, err = f.Alloc(100)
	require.ErrorIs(t, err, ErrBroken)
	_, err = f.CommitUserData()
	require.ErrorIs(t, err, ErrBroken)
}

func TestAllocDetectsCorruptHeader(t *testing.T) {
	f, _ := newArena(t, 4096)

	// Smash the main page's magic.
	f.region[format.HeadPageSize+3] = 0

	_, _, err := f.Alloc(100)
	require.ErrorIs(t, err, ErrCorrupted)
}
