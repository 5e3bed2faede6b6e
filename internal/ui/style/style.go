// Package style provides shared UI styling primitives including brand colors,
// icons and the lipgloss styles used to render components.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
	Circle  = "○"
)

// Styles groups the text styles for a single renderer.
type Styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Muted    lipgloss.Style
	Required lipgloss.Style
	Optional lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
}

// New returns the component styles bound to r.
func New(r *lipgloss.Renderer) Styles {
	return Styles{
		Title:    r.NewStyle().Bold(true).Foreground(Iris),
		Label:    r.NewStyle().Bold(true),
		Muted:    r.NewStyle().Foreground(Slate),
		Required: r.NewStyle().Foreground(Red),
		Optional: r.NewStyle().Foreground(Slate),
		Success:  r.NewStyle().Foreground(Green),
		Warning:  r.NewStyle().Foreground(Yellow),
		Error:    r.NewStyle().Bold(true).Foreground(Red),
	}
}
