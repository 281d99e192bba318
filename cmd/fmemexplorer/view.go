package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/joshuapare/fmemkit/internal/format"
)

// View renders the full UI
func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showDetail {
		popup := overlay.New(
			detailModel{parent: &m},
			backgroundModel{parent: &m},
			overlay.Center,
			overlay.Center,
			0,
			0,
		)
		return popup.View()
	}
	return m.renderMain()
}

// renderMain lays out the header, the two panes, and the status bar.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	listPane := paneStyle.
		Width(listPaneWidth).
		Height(m.preview.Height).
		Render(m.renderPageList())
	previewPane := paneStyle.
		Width(m.preview.Width + 2).
		Height(m.preview.Height).
		Render(m.renderPreview())

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderHeader() string {
	title := headerStyle.Render("fmemexplorer")
	path := pathStyle.Render(truncate(m.regionPath, m.width-40))
	accounting := mutedStyle.Render(fmt.Sprintf(
		"%d B total · %d B free · %d objects · min alloc %d B",
		m.f.TotalSize(), m.f.TotalAvailable(), m.f.AllocObjects(), m.f.MinAlloc()))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, " ", path, "  ", accounting)
}

func (m Model) renderPageList() string {
	var b strings.Builder
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%-4s %-10s %-10s %-5s %s",
		"#", "OFFSET", "SIZE", "STATE", "MAGIC")))
	b.WriteString("\n")

	visible := m.preview.Height - 1
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	for i := start; i < len(m.pages) && i < start+visible; i++ {
		b.WriteString(m.renderPageRow(i))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderPageRow(i int) string {
	p := m.pages[i]

	state := "free"
	stateStyle := freeStyle
	if p.Busy {
		state = "busy"
		stateStyle = busyStyle
	}
	magic := "ok"
	if !p.MagicOK {
		magic = "BAD"
	}

	row := fmt.Sprintf("%-4d %-10d %-10d %-5s %s", i, p.Offset, p.Size, state, magic)
	if i == m.cursor {
		return rowSelectedStyle.Render(row)
	}
	if !p.MagicOK {
		return badMagicStyle.Render(row)
	}
	return rowStyle.Render(stateStyle.Render(row))
}

func (m Model) renderPreview() string {
	title := mutedStyle.Render("payload")
	if m.cursor >= 0 && m.cursor < len(m.pages) {
		p := m.pages[m.cursor]
		title = mutedStyle.Render(fmt.Sprintf("payload · ref %d · %d B",
			p.Ref(), int(p.Size)-format.PageHeaderSize))
	}
	return title + "\n" + m.preview.View()
}

func (m Model) renderStatusBar() string {
	left := fmt.Sprintf("page %d/%d", m.cursor+1, len(m.pages))
	scroll := fmt.Sprintf("%3.0f%%", m.preview.ScrollPercent()*100)
	hints := "↑/↓ pages · enter details · c copy ref · r refresh · ? help · q quit"
	if m.statusMessage != "" {
		hints = m.statusMessage
	}
	return statusStyle.Width(m.width).Render(
		fmt.Sprintf("%s · %s · %s", left, scroll, hints))
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(helpTitleStyle.Render("fmemexplorer help"))
	b.WriteString("\n\n")
	for _, group := range m.keys.FullHelp() {
		for _, binding := range group {
			b.WriteString(helpKeyStyle.Render(binding.Help().Key))
			b.WriteString(helpDescStyle.Render(binding.Help().Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("press any key to close"))
	return b.String()
}
