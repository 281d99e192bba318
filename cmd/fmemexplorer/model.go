package main

import (
	"fmt"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/fmemkit/fmem"
	"github.com/joshuapare/fmemkit/internal/format"
	"github.com/joshuapare/fmemkit/internal/mmfile"
)

// Layout constants
const (
	listPaneWidth   = 44 // Width reserved for the page list
	headerHeight    = 2
	statusBarHeight = 2
	previewCap      = 4096 // Bytes of payload shown in the preview pane
)

// Model is the main application model
type Model struct {
	regionPath string
	mf         *mmfile.File
	f          *fmem.FMem
	pages      []fmem.PageInfo

	cursor  int
	preview viewport.Model
	keys    KeyMap

	width  int
	height int
	ready  bool

	showHelp      bool
	showDetail    bool
	statusMessage string
	err           error
}

// NewModel maps the region, attaches to it without a committer, and snapshots
// its pages. The mapping is writable and attaching resets the lock word; the
// explorer itself never allocates or frees.
func NewModel(regionPath string) (Model, error) {
	mf, err := mmfile.Open(regionPath)
	if err != nil {
		return Model{}, fmt.Errorf("open region %s: %w", regionPath, err)
	}

	f, err := fmem.FromExisting(mf.Bytes(), nil)
	if err != nil {
		_ = mf.Close()
		return Model{}, fmt.Errorf("attach region %s: %w", regionPath, err)
	}

	m := Model{
		regionPath: regionPath,
		mf:         mf,
		f:          f,
		pages:      f.Pages(),
		keys:       DefaultKeyMap(),
	}
	return m, nil
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Close releases the region mapping. Best effort, called once on exit.
func (m *Model) Close() error {
	if m.mf == nil {
		return nil
	}
	err := m.mf.Close()
	m.mf = nil
	return err
}

// refresh re-snapshots the page list and clamps the cursor.
func (m *Model) refresh() {
	m.pages = m.f.Pages()
	if m.cursor >= len(m.pages) {
		m.cursor = len(m.pages) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.syncPreview()
}

// copySelectedRef puts the ref of the page under the cursor on the system
// clipboard and returns the status line to show.
func (m *Model) copySelectedRef() string {
	if m.cursor < 0 || m.cursor >= len(m.pages) {
		return "no page selected"
	}
	ref := m.pages[m.cursor].Ref()
	if err := clipboard.WriteAll(strconv.FormatUint(ref, 10)); err != nil {
		return fmt.Sprintf("clipboard: %v", err)
	}
	return fmt.Sprintf("ref %d copied to clipboard", ref)
}

// selectedPayload returns the payload bytes of the page under the cursor,
// capped to previewCap.
func (m *Model) selectedPayload() []byte {
	if m.cursor < 0 || m.cursor >= len(m.pages) {
		return nil
	}
	p := m.pages[m.cursor]
	region := m.mf.Bytes()
	start := p.Offset + format.PageHeaderSize
	end := p.Offset + int(p.Size)
	if start > len(region) || end > len(region) || start > end {
		return nil
	}
	payload := region[start:end]
	if len(payload) > previewCap {
		payload = payload[:previewCap]
	}
	return payload
}

func (m *Model) syncPreview() {
	if !m.ready {
		return
	}
	payload := m.selectedPayload()
	if len(payload) == 0 {
		m.preview.SetContent(mutedStyle.Render("(no payload)"))
		return
	}
	m.preview.SetContent(hexDump(payload))
	m.preview.GotoTop()
}
