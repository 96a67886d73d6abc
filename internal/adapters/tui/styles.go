package tui

import "github.com/charmbracelet/lipgloss"

// Palette, as 256-colour codes.
const (
	colorAccent    = "86"
	colorHighlight = "205"
	colorDanger    = "196"
	colorMuted     = "241"
	colorLike      = "42"
)

var styles = struct {
	Title    lipgloss.Style
	Sort     lipgloss.Style
	Card     lipgloss.Style
	Selected lipgloss.Style
	Content  lipgloss.Style
	Author   lipgloss.Style
	Likes    lipgloss.Style
	Form     lipgloss.Style
	Label    lipgloss.Style
	Error    lipgloss.Style
	Empty    lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorAccent)),
	Sort: lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorMuted)),
	Card: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color(colorMuted)).
		PaddingLeft(1),
	Selected: lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color(colorHighlight)).
		PaddingLeft(1),
	Content: lipgloss.NewStyle().Bold(true),
	Author: lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color(colorMuted)),
	Likes: lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorLike)),
	Form: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colorHighlight)).
		Padding(0, 1),
	Label: lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorAccent)),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorDanger)),
	Empty: lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color(colorMuted)),
}
