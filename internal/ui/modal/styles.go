package modal

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorAccent  = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2).
			Width(64)

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	headingStyle  = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	disabledStyle = lipgloss.NewStyle().Foreground(colorMuted).Strikethrough(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	tagStyle      = lipgloss.NewStyle().Foreground(colorAccent)
	noticeStyle   = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)
	successStyle  = lipgloss.NewStyle().Foreground(colorAccent)
)
