package fmem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testMinAlloc = 48

// recorder captures every commit call for inspection.
type recorder struct {
	calls [][]Range
	fail  bool
}

func (r *recorder) Commit(_ []byte, ranges []Range) int64 {
	cp := make([]Range, len(ranges))
	copy(cp, ranges)
	r.calls = append(r.calls, cp)
	if r.fail {
		return -1
	}
	return 0
}

func (r *recorder) reset() { r.calls = nil }

func (r *recorder) last(t *testing.T) []Range {
	t.Helper()
	require.NotEmpty(t, r.calls, "expected at least one commit call")
	return r.calls[len(r.calls)-1]
}

// newArena creates a fresh region of size bytes with a recording committer.
func newArena(t *testing.T, size int) (*FMem, *recorder) {
	t.Helper()
	rec := &recorder{}
	f, err := CreateNew(make([]byte, size), testMinAlloc, rec)
	require.NoError(t, err)
	rec.reset()
	return f, rec
}

// assertInvariants runs the structural verifier after a mutation.
func assertInvariants(t *testing.T, f *FMem) {
	t.Helper()
	require.NoError(t, f.Verify())
}

// pageCount returns the number of pages in the region, head included.
func pageCount(f *FMem) int {
	return len(f.Pages())
}

// freeSpan returns the size of the single free page when exactly one free
// page exists.
func freeSpan(t *testing.T, f *FMem) uint32 {
	t.Helper()
	var sizes []uint32
	for _, pi := range f.Pages()[1:] {
		if !pi.Busy {
			sizes = append(sizes, pi.Size)
		}
	}
	require.Len(t, sizes, 1, "expected exactly one free page")
	return sizes[0]
}
