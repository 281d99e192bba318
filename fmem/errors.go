package fmem

import "errors"

var (
	// ErrRegionTooSmall indicates the region cannot hold the head page, a
	// free page, and carving slack.
	ErrRegionTooSmall = errors.New("fmem: region too small")

	// ErrBadInitMem indicates the region cannot satisfy even one minimum
	// allocation after setup.
	ErrBadInitMem = errors.New("fmem: region too small for minimum allocation")

	// ErrNoMem indicates no free page large enough was found.
	ErrNoMem = errors.New("fmem: out of memory")

	// ErrCorrupted indicates a page header whose magic check failed.
	ErrCorrupted = errors.New("fmem: region corrupted")

	// ErrBadRef indicates a reference that does not name a live allocation.
	ErrBadRef = errors.New("fmem: bad reference")

	// ErrCommitFailed indicates the committer rejected a persistence request
	// or the requested range was out of bounds.
	ErrCommitFailed = errors.New("fmem: commit failed")

	// ErrBroken indicates a previous commit failure left the region in an
	// unknown persistence state. Every later Alloc, Free, CommitMem and
	// CommitUserData fails with this; read accessors, Bytes, Pages and
	// Verify keep working.
	ErrBroken = errors.New("fmem: broken by earlier commit failure")
)
