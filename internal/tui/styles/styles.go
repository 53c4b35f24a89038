package styles

import "github.com/charmbracelet/lipgloss"

// Palette holds the ANSI-256 color codes of a configured theme.
type Palette struct {
	Primary  string
	Success  string
	Warning  string
	Error    string
	Info     string
	Emphasis string
	Border   string
}

// DefaultPalette matches the "default" theme of the configuration.
var DefaultPalette = Palette{
	Primary:  "213",
	Success:  "114",
	Warning:  "220",
	Error:    "196",
	Info:     "39",
	Emphasis: "212",
	Border:   "213",
}

// Styles defines the core UI styles
type Styles struct {
	App        lipgloss.Style
	Title      lipgloss.Style
	Breadcrumb lipgloss.Style
	Directory  lipgloss.Style
	File       lipgloss.Style
	Selected   lipgloss.Style
	Cursor     lipgloss.Style
	Details    lipgloss.Style
	Help       lipgloss.Style
	Status     lipgloss.Style
	Prompt     lipgloss.Style
	Warning    lipgloss.Style
	Error      lipgloss.Style
}

// New builds the style set for p.
func New(p Palette) Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.Primary)),
		Breadcrumb: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Info)),
		Directory: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Info)).
			Bold(true),
		File: lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Success)).
			Bold(true),
		Cursor: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Emphasis)).
			Bold(true),
		Details: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		Prompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Primary)),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Warning)).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Error)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Error)).
			Padding(0, 1),
	}
}

// Default is the style set of the default theme.
var Default = New(DefaultPalette)
