package styles

import "github.com/charmbracelet/lipgloss"

// Styles defines the core UI styles
var (
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7B61FF")).
		MarginBottom(1)

	Selected = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#73F59F")).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	Status = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F5A97F")).
		Italic(true)

	Help = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5A9"))
)

// FileListStyle frames the folder listing
var FileListStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#7B61FF"))

// MetaStyle frames the metadata panel
var MetaStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#5A9"))

// ApplyTheme overrides the accent colors from a theme color map as produced
// by config.GetTheme.
func ApplyTheme(colors map[string]string) {
	if c, ok := colors["primary"]; ok && c != "" {
		Title = Title.Foreground(lipgloss.Color(c))
		FileListStyle = FileListStyle.BorderForeground(lipgloss.Color(c))
	}
	if c, ok := colors["success"]; ok && c != "" {
		Selected = Selected.Foreground(lipgloss.Color(c))
	}
	if c, ok := colors["warning"]; ok && c != "" {
		Status = Status.Foreground(lipgloss.Color(c))
	}
	if c, ok := colors["info"]; ok && c != "" {
		Help = Help.Foreground(lipgloss.Color(c))
	}
	if c, ok := colors["border"]; ok && c != "" {
		MetaStyle = MetaStyle.BorderForeground(lipgloss.Color(c))
	}
}
