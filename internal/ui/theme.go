package ui

import "github.com/charmbracelet/lipgloss"

// Some predefined colors

var (
	ColorRed        = lipgloss.Color("1")
	ColorWhite      = lipgloss.Color("7")
	ColorBrightBlue = lipgloss.Color("33")
	ColorLightGray  = lipgloss.Color("243")
	ColorGray       = lipgloss.Color("238")
	ColorOrange     = lipgloss.Color("214")
)

type Theme struct {
	TitleBarStyle    lipgloss.Style
	MutedTextStyle   lipgloss.Style
	ErrorTextStyle   lipgloss.Style
	PrimaryTextStyle lipgloss.Style
	WarnTextStyle    lipgloss.Style

	BorderContainerStyle lipgloss.Style
}

var DarkTheme = Theme{
	TitleBarStyle: lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorBrightBlue).
		Foreground(ColorWhite),
	MutedTextStyle: lipgloss.NewStyle().
		Foreground(ColorLightGray),
	ErrorTextStyle: lipgloss.NewStyle().
		Foreground(ColorRed).
		Bold(true),
	PrimaryTextStyle: lipgloss.NewStyle().
		Foreground(ColorBrightBlue),
	WarnTextStyle: lipgloss.NewStyle().
		Foreground(ColorOrange),

	BorderContainerStyle: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorGray),
}
