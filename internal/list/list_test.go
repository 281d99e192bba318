package list

import "testing"

const (
	nodeSize = 24
	maxSteps = 64
)

// testLinks mirrors the page-header placement: one tag byte, padding, then
// the prev/next pair at +8.
var testLinks = Links{PrevOff: 8, NextOff: 16}

// newChain lays out n nodes tagged 'A', 'B', ... in one region and links
// them all after node 0.
func newChain(t *testing.T, n int) (List, []int) {
	t.Helper()
	region := make([]byte, n*nodeSize)
	l := New(region, testLinks)
	offs := make([]int, n)
	for i := range offs {
		offs[i] = i * nodeSize
		region[offs[i]] = byte('A' + i)
		l.Init(offs[i])
	}
	for i := 1; i < n; i++ {
		l.AddBefore(offs[0], offs[i])
	}
	return l, offs
}

func tags(l List, head, count int) string {
	out := make([]byte, 0, count)
	l.ForEach(head, maxSteps, func(off int) bool {
		out = append(out, l.region[off])
		return true
	})
	return string(out)
}

func TestInitSelfLoop(t *testing.T) {
	region := make([]byte, nodeSize)
	l := New(region, testLinks)
	l.Init(0)
	if l.Next(0) != 0 || l.Prev(0) != 0 {
		t.Fatalf("singleton must link to itself, got next=%d prev=%d", l.Next(0), l.Prev(0))
	}
	if l.Len(0, maxSteps) != 0 {
		t.Fatalf("singleton list has no members beyond the head")
	}
}

func TestAddBeforeBuildsOrder(t *testing.T) {
	l, offs := newChain(t, 5)
	if got := tags(l, offs[0], 4); got != "BCDE" {
		t.Fatalf("order = %q, want BCDE", got)
	}
	if l.Len(offs[0], maxSteps) != 4 {
		t.Fatalf("Len = %d, want 4", l.Len(offs[0], maxSteps))
	}
}

func TestAddAfter(t *testing.T) {
	l, offs := newChain(t, 4)
	// Move node D directly after the head.
	l.Remove(offs[3])
	l.AddAfter(offs[0], offs[3])
	if got := tags(l, offs[0], 4); got != "DBC" {
		t.Fatalf("order = %q, want DBC", got)
	}
}

func TestRemoveMiddle(t *testing.T) {
	l, offs := newChain(t, 5)
	l.Remove(offs[2])
	if got := tags(l, offs[0], 3); got != "BDE" {
		t.Fatalf("order = %q, want BDE", got)
	}
	// Removed node is a singleton again.
	if l.Next(offs[2]) != offs[2] || l.Prev(offs[2]) != offs[2] {
		t.Fatalf("removed node must self-link")
	}
	// Neighbours stitched together.
	if l.Next(offs[1]) != offs[3] || l.Prev(offs[3]) != offs[1] {
		t.Fatalf("neighbours not stitched after removal")
	}
}

func TestRemoveAllLeavesHead(t *testing.T) {
	l, offs := newChain(t, 4)
	for _, off := range offs[1:] {
		l.Remove(off)
	}
	if l.Len(offs[0], maxSteps) != 0 {
		t.Fatalf("head must be alone after removing every member")
	}
	if l.Next(offs[0]) != offs[0] {
		t.Fatalf("empty list head must self-link")
	}
}

func TestForEachEarlyStop(t *testing.T) {
	l, offs := newChain(t, 5)
	visited := 0
	l.ForEach(offs[0], maxSteps, func(int) bool {
		visited++
		return visited < 2
	})
	if visited != 2 {
		t.Fatalf("visited = %d, want 2", visited)
	}
}

func TestForEachBoundedOnCorruptLoop(t *testing.T) {
	l, offs := newChain(t, 3)
	// Corrupt: make B point back to itself, forming a loop that never
	// returns to the head.
	l.setNext(offs[1], offs[1])
	visited := 0
	l.ForEach(offs[0], 10, func(int) bool {
		visited++
		return true
	})
	if visited != 10 {
		t.Fatalf("walk must stop at the step bound, visited %d", visited)
	}
}
