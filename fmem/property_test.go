package fmem

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/fmemkit/internal/format"
)

// TestRandomChurn drives a long random alloc/free workload and checks the
// structural invariants as it goes. The seed is fixed so failures replay.
func TestRandomChurn(t *testing.T) {
	rng := rand.New(rand.NewSource(0xF3E1))
	region := make([]byte, 64*1024)
	f, err := CreateNew(region, testMinAlloc, nil)
	require.NoError(t, err)

	type live struct {
		ref  Ref
		tag  byte
		size int
	}
	var lives []live

	for i := 0; i < 2000; i++ {
		if len(lives) == 0 || rng.Intn(3) != 0 {
			size := uint32(1 + rng.Intn(700))
			ref, payload, err := f.Alloc(size)
			if err != nil {
				require.ErrorIs(t, err, ErrNoMem)
				// Drain one allocation and keep going.
				if len(lives) > 0 {
					victim := lives[len(lives)-1]
					lives = lives[:len(lives)-1]
					_, err := f.Free(victim.ref)
					require.NoError(t, err)
				}
				continue
			}
			tag := byte(1 + rng.Intn(255))
			for j := range payload {
				payload[j] = tag
			}
			lives = append(lives, live{ref: ref, tag: tag, size: len(payload)})
		} else {
			idx := rng.Intn(len(lives))
			victim := lives[idx]
			lives = append(lives[:idx], lives[idx+1:]...)
			_, err := f.Free(victim.ref)
			require.NoError(t, err)
		}

		if i%100 == 0 {
			require.NoError(t, f.Verify(), "iteration %d", i)
		}
	}
	require.NoError(t, f.Verify())

	// Nobody's payload was trampled by a neighbour.
	for _, lv := range lives {
		payload, err := f.Bytes(lv.ref)
		require.NoError(t, err)
		require.Len(t, payload, lv.size)
		for _, b := range payload {
			require.Equal(t, lv.tag, b)
		}
	}

	// A reopened view sees the exact same state.
	g, err := FromExisting(region, nil)
	require.NoError(t, err)
	require.NoError(t, g.Verify())
	require.Equal(t, f.AllocObjects(), g.AllocObjects())
	require.Equal(t, uint32(len(lives)), g.AllocObjects())
}

// TestAccountingNeverDrifts cross-checks the running totals against a fresh
// walk after every operation of a short scripted workload.
func TestAccountingNeverDrifts(t *testing.T) {
	f, _ := newArena(t, 16*1024)

	recount := func() (uint64, uint32) {
		var avail uint64
		var objects uint32
		for _, pi := range f.Pages()[1:] {
			if pi.Busy {
				objects++
			} else {
				avail += uint64(pi.Size)
			}
		}
		return avail, objects
	}

	var refs []Ref
	for _, size := range []uint32{64, 1, 500, 3000, 80, 80, 80} {
		ref, _, err := f.Alloc(size)
		require.NoError(t, err)
		refs = append(refs, ref)

		avail, objects := recount()
		require.Equal(t, avail, f.TotalAvailable())
		require.Equal(t, objects, f.AllocObjects())
	}

	for _, i := range []int{1, 5, 3, 0, 6, 2, 4} {
		_, err := f.Free(refs[i])
		require.NoError(t, err)

		avail, objects := recount()
		require.Equal(t, avail, f.TotalAvailable())
		require.Equal(t, objects, f.AllocObjects())
	}

	require.Equal(t, uint64(16*1024-format.HeadPageSize), f.TotalAvailable())
	require.Equal(t, uint32(0), f.AllocObjects())
	assertInvariants(t, f)
}
