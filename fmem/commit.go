package fmem

import (
	"fmt"

	"github.com/joshuapare/fmemkit/internal/format"
)

// CommitUserData persists the four user slots as one range. Returns the
// number of bytes committed.
func (f *FMem) CommitUserData() (int64, error) {
	f.acquire()
	defer f.release()

	if f.broken {
		return 0, ErrBroken
	}

	if f.commitRanges(Range{
		Off: int64(f.meta.UserRangeOff()),
		Len: format.MetaUserLen,
	}) < 0 {
		f.broken = true
		return 0, ErrCommitFailed
	}
	return format.MetaUserLen, nil
}

// CommitMem persists the first n bytes of the payload named by ref. n == 0
// means the whole payload. A range reaching past the payload fails with
// ErrCommitFailed before the committer is ever called. Returns the number of
// bytes committed.
func (f *FMem) CommitMem(ref Ref, n uint32) (int64, error) {
	f.acquire()
	defer f.release()

	if f.broken {
		return 0, ErrBroken
	}

	p, err := f.pageOf(ref)
	if err != nil {
		return 0, err
	}

	actual := p.Actual()
	if n == 0 {
		n = actual
	}
	if n > actual {
		return 0, fmt.Errorf("%d bytes from ref %d exceeds payload of %d: %w",
			n, ref, actual, ErrCommitFailed)
	}

	if f.commitRanges(Range{Off: int64(ref), Len: int64(n)}) < 0 {
		f.broken = true
		return 0, ErrCommitFailed
	}
	return int64(n), nil
}
