// Package ui is the interactive compare report viewer. It wraps the
// rendered diff in a scrollable viewport with a title bar and a shortcut
// bar, nothing more; batch runs use the plain renderer instead.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vios-project/vios/pkg/diffreport"
	"github.com/vios-project/vios/pkg/settings"
)

/// Report Model

type ReportModel struct {
	Width, Height int
	Theme         Theme

	Title    string
	Diffs    []settings.DiffEntry
	Warnings []settings.Warning

	viewport viewport.Model
	ready    bool
}

func NewReportModel(title string, diffs []settings.DiffEntry, warnings []settings.Warning, theme Theme) *ReportModel {
	return &ReportModel{
		Theme:    theme,
		Title:    title,
		Diffs:    diffs,
		Warnings: warnings,
	}
}

func (m *ReportModel) Init() tea.Cmd {
	return nil
}

func (m *ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = v.Width
		m.Height = v.Height

		// -2 for the title and shortcut bars
		content := m.renderContent()
		if !m.ready {
			m.viewport = viewport.New(v.Width, v.Height-2)
			m.viewport.SetContent(content)
			m.ready = true
		} else {
			m.viewport.Width = v.Width
			m.viewport.Height = v.Height - 2
		}
		return m, nil

	case tea.KeyMsg:
		switch v.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *ReportModel) View() string {
	if !m.ready {
		return "loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.titleBar(),
		m.viewport.View(),
		m.statusBar(),
	)
}

func (m *ReportModel) renderContent() string {
	theme := diffreport.DarkTheme
	theme.WarnStyle = m.Theme.WarnTextStyle
	return diffreport.Render(m.Diffs, m.Warnings, theme, diffreport.DefaultRenderOptions)
}

func (m *ReportModel) titleBar() string {
	label := m.Title
	if n := len(m.Diffs); n > 0 {
		label = fmt.Sprintf("%s (%d mismatched)", m.Title, n)
	}
	return m.Theme.TitleBarStyle.Width(m.Width).Render(label)
}

func (m *ReportModel) statusBar() string {
	shortcuts := NewShortcuts(
		"↑/↓", "scroll",
		"q", "quit",
	)
	percent := m.Theme.MutedTextStyle.Render(fmt.Sprintf("%3.0f%%", m.viewport.ScrollPercent()*100))
	bar := shortcuts.Render(m.Theme)
	gap := m.Width - lipgloss.Width(bar) - lipgloss.Width(percent)
	if gap < 1 {
		gap = 1
	}
	return bar + lipgloss.NewStyle().Width(gap).Render("") + percent
}
