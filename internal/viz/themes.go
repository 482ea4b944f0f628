package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the table color scheme.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
	Border  lipgloss.Color
}

var (
	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#00ccff"),
		Accent:  lipgloss.Color("#00ff88"),
		Text:    lipgloss.Color("#e0f7ff"),
		Muted:   lipgloss.Color("#668899"),
		Warning: lipgloss.Color("#ffaa00"),
		Border:  lipgloss.Color("#335577"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#33ff33"),
		Accent:  lipgloss.Color("#99ff99"),
		Text:    lipgloss.Color("#33ff33"),
		Muted:   lipgloss.Color("#117711"),
		Warning: lipgloss.Color("#ffff33"),
		Border:  lipgloss.Color("#115511"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#ffffff"),
		Text:    lipgloss.Color("#dddddd"),
		Muted:   lipgloss.Color("#888888"),
		Warning: lipgloss.Color("#bbbbbb"),
		Border:  lipgloss.Color("#444444"),
	}

	Themes = []Theme{ThemeOcean, ThemeRetroGreen, ThemeMinimal}
)

// GetTheme returns a theme by name, falling back to ocean.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeOcean
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
