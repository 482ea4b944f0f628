package viz

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/coe/internal/orbit"
)

// Undefined is printed in place of an absent element.
const Undefined = "undefined"

var labels = map[string]string{
	orbit.KeyAngularMomentum:   "Specific angular momentum",
	orbit.KeyInclination:       "Inclination",
	orbit.KeyRAAN:              "RAAN",
	orbit.KeyEccentricity:      "Eccentricity",
	orbit.KeyArgumentOfPerigee: "Argument of perigee",
	orbit.KeyTrueAnomaly:       "True anomaly",
	orbit.KeySemiMajorAxis:     "Semi-major axis",
}

// Label returns the display label for a result key, with its unit.
func Label(key string) string {
	l, ok := labels[key]
	if !ok {
		l = key
	}
	if u := orbit.Units[key]; u != "" {
		return fmt.Sprintf("%s (%s)", l, u)
	}
	return l
}

// FormatValue rounds to two decimals or returns Undefined.
func FormatValue(v orbit.Value) string {
	x, ok := v.Get()
	if !ok {
		return Undefined
	}
	return fmt.Sprintf("%.2f", x)
}

// Rows returns label/value pairs in orbit.Keys order.
func Rows(el orbit.Elements) [][]string {
	rows := make([][]string, 0, len(orbit.Keys))
	for _, k := range orbit.Keys {
		rows = append(rows, []string{Label(k), FormatValue(el.Get(k))})
	}
	return rows
}

// RenderTable draws a rounded lipgloss table titled with name.
func RenderTable(name string, el orbit.Elements, theme Theme) string {
	s := NewStyles(theme)
	rows := Rows(el)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.Border).
		Headers("Element", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return s.Header
			case col == 0:
				return s.Label
			case row >= 0 && row < len(rows) && rows[row][1] == Undefined:
				return s.Undefined
			default:
				return s.Value
			}
		})

	if name == "" {
		return t.Render()
	}
	return lipgloss.JoinVertical(lipgloss.Left, s.Title.Render(name), t.Render())
}

// RenderPlain is the uncolored variant used for pipes and files.
func RenderPlain(name string, el orbit.Elements) string {
	var sb strings.Builder
	if name != "" {
		fmt.Fprintf(&sb, "%s\n", name)
	}
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ELEMENT\tVALUE")
	for _, row := range Rows(el) {
		fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	w.Flush()
	return sb.String()
}

// RenderError formats a failed case in the table layout.
func RenderError(name string, err error, theme Theme) string {
	s := NewStyles(theme)
	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(name),
		s.Error.Render("error: "+err.Error()),
	)
}
