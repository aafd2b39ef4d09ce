package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent      = lipgloss.Color("#3B82F6")
	success     = lipgloss.Color("#22C55E")
	destructive = lipgloss.Color("#EF4444")
	warning     = lipgloss.Color("#F59E0B")
	muted       = lipgloss.Color("#6B7280")
)

// Styles groups the lipgloss styles used by the views.
type Styles struct {
	Title    lipgloss.Style
	StepDone lipgloss.Style
	StepNow  lipgloss.Style
	StepTodo lipgloss.Style
	Cursor   lipgloss.Style
	Checked  lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Notice   lipgloss.Style
	Stat     lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the dark terminal palette.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		StepDone: lipgloss.NewStyle().Foreground(success),
		StepNow:  lipgloss.NewStyle().Bold(true).Foreground(accent).Underline(true),
		StepTodo: lipgloss.NewStyle().Foreground(muted),
		Cursor:   lipgloss.NewStyle().Foreground(accent).Bold(true),
		Checked:  lipgloss.NewStyle().Foreground(success),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Error:    lipgloss.NewStyle().Foreground(destructive).Bold(true),
		Notice:   lipgloss.NewStyle().Foreground(warning),
		Stat: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		Help: lipgloss.NewStyle().Foreground(muted).MarginTop(1),
	}
}
