//go:build unix

package mmfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateMapsWritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.bin")

	m, err := Create(path, 4096)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(m.Bytes()) != 4096 {
		t.Fatalf("mapped %d bytes, want 4096", len(m.Bytes()))
	}
	if m.FD() <= 0 {
		t.Fatalf("FD = %d", m.FD())
	}
	if m.Path() != path {
		t.Fatalf("Path = %q", m.Path())
	}

	copy(m.Bytes(), "written through the mapping")
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data[:27]) != "written through the mapping" {
		t.Fatalf("file contents not visible after unmap: %q", data[:27])
	}
}

func TestOpenSeesExistingContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.bin")

	m, err := Create(path, 1024)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	m.Bytes()[0] = 0x5A
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	m2, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer m2.Close()
	if len(m2.Bytes()) != 1024 {
		t.Fatalf("mapped %d bytes, want 1024", len(m2.Bytes()))
	}
	if m2.Bytes()[0] != 0x5A {
		t.Fatalf("existing contents not visible")
	}
}

func TestOpenRejectsMissingAndEmpty(t *testing.T) {
	dir := t.TempDir()

	if _, err := Open(filepath.Join(dir, "missing.bin")); err == nil {
		t.Fatalf("Open of a missing file must fail")
	}

	empty := filepath.Join(dir, "empty.bin")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Open(empty); err == nil {
		t.Fatalf("Open of an empty file must fail")
	}
}

func TestCreateRejectsBadSize(t *testing.T) {
	if _, err := Create(filepath.Join(t.TempDir(), "x.bin"), 0); err == nil {
		t.Fatalf("Create(0) must fail")
	}
}

func TestCloseTwice(t *testing.T) {
	m, err := Create(filepath.Join(t.TempDir(), "region.bin"), 512)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	// The second close must not panic or unmap foreign memory.
	_ = m.Close()
}
