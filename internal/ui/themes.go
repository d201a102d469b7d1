package ui

import "github.com/charmbracelet/lipgloss"

// Theme holds the lipgloss styles used by the viewer
type Theme struct {
	Title     lipgloss.Style
	StatusBar lipgloss.Style
	Selected  lipgloss.Style
	Timestamp lipgloss.Style
	Message   lipgloss.Style
	Detail    lipgloss.Style
	Search    lipgloss.Style
	Levels    map[string]lipgloss.Style
	Fallback  lipgloss.Style
}

// DefaultTheme returns the standard color theme
func DefaultTheme() *Theme {
	return &Theme{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")),
		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E5E7EB")).
			Background(lipgloss.Color("#1F2937")),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Bold(true),
		Timestamp: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")),
		Message: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D1D5DB")),
		Detail: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1),
		Search: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")),
		Levels: map[string]lipgloss.Style{
			"debug": lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
			"info":  lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399")),
			"warn":  lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24")),
			"error": lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171")),
			"fatal": lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
		},
		Fallback: lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA")),
	}
}

// LevelStyle returns the style for a level token
func (t *Theme) LevelStyle(level string) lipgloss.Style {
	if s, ok := t.Levels[level]; ok {
		return s
	}
	return t.Fallback
}
