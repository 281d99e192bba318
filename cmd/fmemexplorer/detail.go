package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/fmemkit/internal/format"
)

// detailModel renders the page-detail popup. It only exists so the overlay
// compositor has a tea.Model to place in the foreground; all input handling
// stays in the parent Model's Update.
type detailModel struct {
	parent *Model
}

func (d detailModel) Init() tea.Cmd                           { return nil }
func (d detailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return d, nil }

func (d detailModel) View() string {
	m := d.parent
	if m.cursor < 0 || m.cursor >= len(m.pages) {
		return detailStyle.Render(mutedStyle.Render("(no page selected)"))
	}
	p := m.pages[m.cursor]

	state := "free"
	if p.Busy {
		state = "busy"
	}
	magic := "ok"
	if !p.MagicOK {
		magic = "BAD"
	}

	rows := []struct {
		label string
		value string
	}{
		{"offset", fmt.Sprintf("%d", p.Offset)},
		{"size", fmt.Sprintf("%d B (payload %d B)", p.Size, int(p.Size)-format.PageHeaderSize)},
		{"ref", fmt.Sprintf("%d", p.Ref())},
		{"state", state},
		{"magic", magic},
		{"prev", fmt.Sprintf("%d", p.Prev)},
		{"next", fmt.Sprintf("%d", p.Next)},
	}

	var b strings.Builder
	b.WriteString(helpTitleStyle.Render(fmt.Sprintf("page %d", m.cursor)))
	b.WriteString("\n\n")
	for _, row := range rows {
		b.WriteString(helpKeyStyle.Render(row.label))
		b.WriteString(helpDescStyle.Render(row.value))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("c copy ref · any other key to close"))
	return detailStyle.Render(b.String())
}

// backgroundModel replays the regular layout behind the popup. Recreated on
// every render so the compositor always sees the parent's latest state.
type backgroundModel struct {
	parent *Model
}

func (bg backgroundModel) Init() tea.Cmd                           { return nil }
func (bg backgroundModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return bg, nil }

func (bg backgroundModel) View() string {
	return bg.parent.renderMain()
}
