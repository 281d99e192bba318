// Package commit provides committers that persist region byte ranges to
// stable storage.
//
// Msync is the production committer for file-backed mappings: it coalesces
// the requested ranges into page-aligned spans and drives them to disk with
// platform-specific sync calls. Recorder captures commit traffic for tests
// and tooling.
package commit

import (
	"os"
	"sort"

	"github.com/joshuapare/fmemkit/fmem"
	"github.com/joshuapare/fmemkit/internal/logger"
)

// Msync persists ranges of a file-backed mapping with msync and a file
// descriptor sync. A single range is flushed synchronously on its own; a
// batch is queued asynchronously per range and then settled with one
// descriptor sync, which is cheaper than a synchronous flush per range.
type Msync struct {
	fd       int
	pageSize int64
}

// NewMsync returns a committer flushing through the given file descriptor.
// The descriptor must refer to the file backing the mapped region.
func NewMsync(fd int) *Msync {
	return &Msync{fd: fd, pageSize: int64(os.Getpagesize())}
}

// Commit implements fmem.Committer.
func (m *Msync) Commit(region []byte, ranges []fmem.Range) int64 {
	if len(ranges) == 0 || len(region) == 0 {
		return 0
	}
	aligned := coalesce(m.pageSize, int64(len(region)), ranges)
	if err := m.flush(region, aligned, len(ranges) == 1); err != nil {
		logger.L().Error("commit flush failed", "ranges", len(ranges), "err", err)
		return -1
	}
	return 0
}

// coalesce page-aligns the ranges, sorts them, and merges overlapping or
// adjacent spans, clamping everything to the region.
func coalesce(pageSize, regionLen int64, ranges []fmem.Range) []fmem.Range {
	aligned := make([]fmem.Range, 0, len(ranges))
	for _, r := range ranges {
		if r.Len <= 0 || r.Off >= regionLen {
			continue
		}
		start := (r.Off / pageSize) * pageSize
		end := r.Off + r.Len
		if rem := end % pageSize; rem != 0 {
			end += pageSize - rem
		}
		if end > regionLen {
			end = regionLen
		}
		if start < 0 {
			start = 0
		}
		aligned = append(aligned, fmem.Range{Off: start, Len: end - start})
	}
	if len(aligned) == 0 {
		return nil
	}

	sort.Slice(aligned, func(i, j int) bool { return aligned[i].Off < aligned[j].Off })

	merged := aligned[:1]
	for _, next := range aligned[1:] {
		cur := &merged[len(merged)-1]
		if next.Off <= cur.Off+cur.Len {
			if end := next.Off + next.Len; end > cur.Off+cur.Len {
				cur.Len = end - cur.Off
			}
			continue
		}
		merged = append(merged, next)
	}
	return merged
}

// Recorder is a committer that remembers every call. Setting Fail makes the
// next calls report failure without recording anything durable.
type Recorder struct {
	Calls [][]fmem.Range
	Fail  bool
}

// Commit implements fmem.Committer.
func (r *Recorder) Commit(_ []byte, ranges []fmem.Range) int64 {
	cp := make([]fmem.Range, len(ranges))
	copy(cp, ranges)
	r.Calls = append(r.Calls, cp)
	if r.Fail {
		return -1
	}
	return 0
}

// Reset drops the recorded calls.
func (r *Recorder) Reset() {
	r.Calls = nil
}
