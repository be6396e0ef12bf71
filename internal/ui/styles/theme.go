// Package styles holds the colour palette and shared lipgloss styles.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette and pre-built styles for the application.
type Theme struct {
	// Accent colors
	Primary   lipgloss.Color // Night blue - active sound, focus
	Secondary lipgloss.Color // Moonlight - timer, highlights

	// Text hierarchy (most to least prominent)
	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	BgCursor lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color

	Success lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color

	styles *Styles
}

// Styles contains pre-built lipgloss styles for common UI patterns.
type Styles struct {
	Base     lipgloss.Style
	Muted    lipgloss.Style
	Subtle   lipgloss.Style
	Title    lipgloss.Style
	Playing  lipgloss.Style // play state glyph, active sound
	Favorite lipgloss.Style
	Timer    lipgloss.Style
	Cursor   lipgloss.Style
	BarFull  lipgloss.Style // volume gauge, filled part
	BarEmpty lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
}

var defaultTheme = Theme{
	Primary:   lipgloss.Color("#7aa2f7"),
	Secondary: lipgloss.Color("#e0c98a"),

	FgBase:   lipgloss.Color("#c0caf5"),
	FgMuted:  lipgloss.Color("#808aa8"),
	FgSubtle: lipgloss.Color("#565f89"),

	BgCursor: lipgloss.Color("#292e42"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),

	Success: lipgloss.Color("#9ece6a"),
	Error:   lipgloss.Color("#f7768e"),
	Warning: lipgloss.Color("#e0af68"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)

	return &Styles{
		Base:     base,
		Muted:    lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle:   lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:    base.Bold(true),
		Playing:  lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Favorite: lipgloss.NewStyle().Foreground(t.Error),
		Timer:    lipgloss.NewStyle().Foreground(t.Secondary),
		Cursor: lipgloss.NewStyle().
			Background(t.BgCursor).
			Foreground(t.FgBase),
		BarFull:  lipgloss.NewStyle().Foreground(t.Primary),
		BarEmpty: lipgloss.NewStyle().Foreground(t.FgSubtle),
		Success:  lipgloss.NewStyle().Foreground(t.Success),
		Error:    lipgloss.NewStyle().Foreground(t.Error),
		Warning:  lipgloss.NewStyle().Foreground(t.Warning),
	}
}
