package main

import (
	"encoding/binary"
	"fmt"

	"github.com/joshuapare/fmemkit/fmem"
)

// Demo records are two little-endian u64s: the record's index and the ref of
// the next record, zero for the last one.
const demoRecordSize = 16

func encodeDemoRecord(payload []byte, index uint64, next fmem.Ref) {
	binary.LittleEndian.PutUint64(payload[0:], index)
	binary.LittleEndian.PutUint64(payload[8:], next)
}

func decodeDemoRecord(payload []byte) (index uint64, next fmem.Ref, err error) {
	if len(payload) < demoRecordSize {
		return 0, 0, fmt.Errorf("demo record truncated: %d bytes", len(payload))
	}
	return binary.LittleEndian.Uint64(payload[0:]), binary.LittleEndian.Uint64(payload[8:]), nil
}

// walkDemoChain follows the chain from the ref in user slot 1 and checks
// the indexes count up from 1. Returns the number of records visited.
func walkDemoChain(f *fmem.FMem) (int, error) {
	ref := f.User(1)
	if ref == 0 {
		return 0, nil
	}

	visited := 0
	want := uint64(1)
	for ref != 0 {
		payload, err := f.Bytes(ref)
		if err != nil {
			return visited, fmt.Errorf("record %d at ref %d: %w", want, ref, err)
		}
		index, next, err := decodeDemoRecord(payload)
		if err != nil {
			return visited, err
		}
		if index != want {
			return visited, fmt.Errorf("record at ref %d has index %d, want %d", ref, index, want)
		}
		visited++
		want++
		ref = next
	}
	return visited, nil
}
