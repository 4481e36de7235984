package ui

import "github.com/charmbracelet/lipgloss"

// Design tokens. Dracula-ish palette, consistent with the rest of the
// terminal surface.
var (
	ColorBg          = lipgloss.Color("#282A36")
	ColorBgHighlight = lipgloss.Color("#44475A")
	ColorText        = lipgloss.Color("#F8F8F2")
	ColorSubtext     = lipgloss.Color("#BFBFBF")
	ColorMuted       = lipgloss.Color("#6272A4")

	ColorPrimary = lipgloss.Color("#BD93F9")
	ColorInfo    = lipgloss.Color("#8BE9FD")
	ColorSuccess = lipgloss.Color("#50FA7B")
	ColorWarning = lipgloss.Color("#FFB86C")
	ColorDanger  = lipgloss.Color("#FF5555")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext)

	dirtyStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	toastErrorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDanger).
			Foreground(ColorDanger).
			Padding(0, 1)

	toastInfoStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorInfo).
			Foreground(ColorInfo).
			Padding(0, 1)

	editorLabelStyle = lipgloss.NewStyle().
				Foreground(ColorSubtext).
				Width(8)

	editorErrorStyle = lipgloss.NewStyle().
				Foreground(ColorDanger)
)
