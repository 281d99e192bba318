// Package list implements a circular doubly-linked list whose links live
// inside a raw byte region. Nodes are identified by their region-relative
// offsets and links are stored as 64-bit little-endian offsets at a fixed
// position within each node, so a linked region survives remapping at a
// different address.
package list

import (
	"github.com/joshuapare/fmemkit/internal/buf"
)

// Links describes where the prev/next pair sits inside a node.
type Links struct {
	PrevOff int // offset of the 8-byte prev link relative to the node
	NextOff int // offset of the 8-byte next link relative to the node
}

// List operates on nodes embedded in a single region.
type List struct {
	region []byte
	links  Links
}

// New returns a list operating on region with the given link placement.
func New(region []byte, links Links) List {
	return List{region: region, links: links}
}

// Prev returns the prev link of the node at off.
func (l List) Prev(off int) int {
	return int(buf.U64LE(l.region[off+l.links.PrevOff:]))
}

// Next returns the next link of the node at off.
func (l List) Next(off int) int {
	return int(buf.U64LE(l.region[off+l.links.NextOff:]))
}

func (l List) setPrev(off, target int) {
	buf.PutU64LE(l.region[off+l.links.PrevOff:], uint64(target))
}

func (l List) setNext(off, target int) {
	buf.PutU64LE(l.region[off+l.links.NextOff:], uint64(target))
}

// Init makes the node at off a list of one, linked to itself.
func (l List) Init(off int) {
	l.setPrev(off, off)
	l.setNext(off, off)
}

// AddAfter inserts node directly after anchor.
func (l List) AddAfter(anchor, node int) {
	next := l.Next(anchor)
	l.setPrev(node, anchor)
	l.setNext(node, next)
	l.setNext(anchor, node)
	l.setPrev(next, node)
}

// AddBefore inserts node directly before anchor.
func (l List) AddBefore(anchor, node int) {
	prev := l.Prev(anchor)
	l.setPrev(node, prev)
	l.setNext(node, anchor)
	l.setNext(prev, node)
	l.setPrev(anchor, node)
}

// Remove unlinks the node at off and re-initializes it as a singleton.
func (l List) Remove(off int) {
	prev := l.Prev(off)
	next := l.Next(off)
	l.setNext(prev, next)
	l.setPrev(next, prev)
	l.Init(off)
}

// ForEach visits every node after head in list order, stopping early when fn
// returns false. The head itself is not visited. maxSteps bounds the walk so
// a corrupted loop cannot spin forever.
func (l List) ForEach(head, maxSteps int, fn func(off int) bool) {
	cur := l.Next(head)
	for steps := 0; cur != head && steps < maxSteps; steps++ {
		next := l.Next(cur)
		if !fn(cur) {
			return
		}
		cur = next
	}
}

// Len counts the nodes after head, bounded by maxSteps.
func (l List) Len(head, maxSteps int) int {
	n := 0
	l.ForEach(head, maxSteps, func(int) bool {
		n++
		return true
	})
	return n
}
