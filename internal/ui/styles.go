package ui

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.Color("#7D56F4")
	ColorWaiting = lipgloss.Color("214")
	ColorDim     = lipgloss.Color("241")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(ColorPrimary).
			Padding(0, 1)

	WaitingStyle = lipgloss.NewStyle().Foreground(ColorWaiting)

	DimStyle = lipgloss.NewStyle().Foreground(ColorDim)
)
