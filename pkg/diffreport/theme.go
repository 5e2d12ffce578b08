package diffreport

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	MenuStyle    lipgloss.Style
	SettingStyle lipgloss.Style
	CurrentBg    lipgloss.Style
	TemplateBg   lipgloss.Style
	OKStyle      lipgloss.Style
	WarnStyle    lipgloss.Style
}

var DarkTheme = Theme{
	MenuStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("#61AFEF")).Bold(true),
	SettingStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
	CurrentBg:    lipgloss.NewStyle().Background(lipgloss.Color("#4C1F1F")).Foreground(lipgloss.Color("#E06C75")),
	TemplateBg:   lipgloss.NewStyle().Background(lipgloss.Color("#144212")).Foreground(lipgloss.Color("#A9DC76")),
	OKStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("#A9DC76")),
	WarnStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B")),
}

// PlainTheme renders without any escape sequences, for logs and pipes.
var PlainTheme = Theme{}
