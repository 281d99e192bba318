package commit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/fmemkit/fmem"
)

const pg = 4096

func TestCoalesceAlignsToPages(t *testing.T) {
	got := coalesce(pg, 10*pg, []fmem.Range{{Off: 100, Len: 50}})
	require.Equal(t, []fmem.Range{{Off: 0, Len: pg}}, got)

	got = coalesce(pg, 10*pg, []fmem.Range{{Off: pg - 1, Len: 2}})
	require.Equal(t, []fmem.Range{{Off: 0, Len: 2 * pg}}, got)
}

func TestCoalesceMergesOverlapsAndNeighbours(t *testing.T) {
	got := coalesce(pg, 100*pg, []fmem.Range{
		{Off: 5 * pg, Len: 10},
		{Off: 0, Len: 10},
		{Off: 5*pg + 100, Len: 10},
		{Off: 6 * pg, Len: 10},
	})
	require.Equal(t, []fmem.Range{
		{Off: 0, Len: pg},
		{Off: 5 * pg, Len: 2 * pg},
	}, got)
}

func TestCoalesceClampsToRegion(t *testing.T) {
	got := coalesce(pg, pg+100, []fmem.Range{{Off: pg, Len: 50}})
	require.Equal(t, []fmem.Range{{Off: pg, Len: 100}}, got)

	// Past the end entirely, or empty: dropped.
	assert.Nil(t, coalesce(pg, pg, []fmem.Range{{Off: 2 * pg, Len: 10}}))
	assert.Nil(t, coalesce(pg, pg, []fmem.Range{{Off: 0, Len: 0}}))
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	region := make([]byte, 16)

	ret := r.Commit(region, []fmem.Range{{Off: 0, Len: 8}})
	assert.Equal(t, int64(0), ret)
	require.Len(t, r.Calls, 1)
	assert.Equal(t, []fmem.Range{{Off: 0, Len: 8}}, r.Calls[0])

	r.Fail = true
	ret = r.Commit(region, nil)
	assert.Equal(t, int64(-1), ret)
	require.Len(t, r.Calls, 2)

	r.Reset()
	assert.Empty(t, r.Calls)
}

func TestRecorderCopiesRanges(t *testing.T) {
	r := &Recorder{}
	ranges := []fmem.Range{{Off: 1, Len: 2}}
	r.Commit(nil, ranges)
	ranges[0].Off = 99
	assert.Equal(t, int64(1), r.Calls[0][0].Off)
}
