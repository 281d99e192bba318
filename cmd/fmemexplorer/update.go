package main

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all incoming messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		previewWidth := m.width - listPaneWidth - 6
		if previewWidth < 20 {
			previewWidth = 20
		}
		previewHeight := m.height - headerHeight - statusBarHeight - 2
		if previewHeight < 3 {
			previewHeight = 3
		}

		if !m.ready {
			m.preview = viewport.New(previewWidth, previewHeight)
			m.ready = true
		} else {
			m.preview.Width = previewWidth
			m.preview.Height = previewHeight
		}
		m.syncPreview()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key dismisses the help overlay.
		m.showHelp = false
		return m, nil
	}
	if m.showDetail {
		switch {
		case key.Matches(msg, m.keys.Copy):
			m.statusMessage = m.copySelectedRef()
		default:
			m.showDetail = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.syncPreview()
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.pages)-1 {
			m.cursor++
			m.syncPreview()
		}

	case key.Matches(msg, m.keys.Home):
		if m.cursor != 0 {
			m.cursor = 0
			m.syncPreview()
		}

	case key.Matches(msg, m.keys.End):
		if last := len(m.pages) - 1; last >= 0 && m.cursor != last {
			m.cursor = last
			m.syncPreview()
		}

	case key.Matches(msg, m.keys.PageUp):
		m.preview.HalfViewUp()

	case key.Matches(msg, m.keys.PageDown):
		m.preview.HalfViewDown()

	case key.Matches(msg, m.keys.Detail):
		if len(m.pages) > 0 {
			m.showDetail = true
		}

	case key.Matches(msg, m.keys.Copy):
		m.statusMessage = m.copySelectedRef()

	case key.Matches(msg, m.keys.Refresh):
		m.refresh()
		m.statusMessage = "region re-read"
	}

	return m, nil
}
