// Package render provides text layout helpers for the player views.
package render

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Sanitize drops control characters (except tab) and invalid UTF-8 so
// names coming from storage cannot break terminal rendering.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == unicode.ReplacementChar:
			return -1
		case r == '\u00a0':
			return ' '
		case r != '\t' && unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.ToValidUTF8(s, ""))
}

// Truncate shortens s to maxWidth cells, ending with "…" when cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(Sanitize(s), maxWidth, "…")
}

// Pad fills s with spaces up to width cells.
func Pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// TruncateAndPad returns s at exactly width cells.
func TruncateAndPad(s string, width int) string {
	return Pad(Truncate(s, width), width)
}

// Row places left and right at the edges of a line of the given width,
// keeping at least one space between them.
func Row(left, right string, width int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// Bar draws a horizontal gauge of width cells filled to level in [0, 1].
func Bar(level float64, width int, filled, empty lipgloss.Style) string {
	if width <= 0 {
		return ""
	}
	n := int(level*float64(width) + 0.5)
	n = min(max(n, 0), width)
	return filled.Render(strings.Repeat("━", n)) + empty.Render(strings.Repeat("─", width-n))
}
