package viz

import "github.com/charmbracelet/lipgloss"

// Styles are derived from a Theme once per render.
type Styles struct {
	Title     lipgloss.Style
	Header    lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Undefined lipgloss.Style
	Border    lipgloss.Style
	Error     lipgloss.Style
	Pass      lipgloss.Style
	Fail      lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			Padding(0, 1),
		Label: lipgloss.NewStyle().
			Foreground(t.Text).
			Padding(0, 1),
		Value: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true).
			Align(lipgloss.Right).
			Padding(0, 1),
		Undefined: lipgloss.NewStyle().
			Foreground(t.Muted).
			Italic(true).
			Align(lipgloss.Right).
			Padding(0, 1),
		Border: lipgloss.NewStyle().
			Foreground(t.Border),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Warning),
		Pass: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Accent),
		Fail: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Warning),
	}
}
