package cli

import "github.com/charmbracelet/lipgloss"

// Theme holds the terminal color palette.
type Theme struct {
	Assistant  lipgloss.Color
	Suggestion lipgloss.Color
	Action     lipgloss.Color
	Error      lipgloss.Color
	Hint       lipgloss.Color
}

// DefaultTheme works on dark terminals.
var DefaultTheme = Theme{
	Assistant:  lipgloss.Color("#5FAFD7"), // light blue
	Suggestion: lipgloss.Color("#00D787"), // green
	Action:     lipgloss.Color("#D7AF00"), // amber
	Error:      lipgloss.Color("#FF005F"), // red
	Hint:       lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) assistantStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Assistant)
}

func (t Theme) suggestionStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Suggestion)
}

func (t Theme) actionStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Action).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}
