package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	colorPrimary   = lipgloss.Color("12")  // bright blue
	colorSecondary = lipgloss.Color("10")  // bright green
	colorDim       = lipgloss.Color("240") // gray
	colorHighlight = lipgloss.Color("11")  // bright yellow
	colorError     = lipgloss.Color("9")   // bright red
	colorBorder    = lipgloss.Color("238") // dark gray

	// Input area
	styleInput = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	// Form fields
	styleFieldLabel = lipgloss.NewStyle().
			Foreground(colorDim).
			Width(12)

	styleFieldFocused = lipgloss.NewStyle().
				Foreground(colorHighlight).
				Bold(true)

	styleFieldValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	styleChoiceOn = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	// Panels
	stylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder)

	// Messages
	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleInfo = lipgloss.NewStyle().
			Foreground(colorSecondary)

	// Status bar
	styleStatusBar = lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(0, 1)

	// Titles
	styleTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)
)
