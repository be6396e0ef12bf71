package styles

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Gradient renders bold text whose colour blends from one colour to another
// across its grapheme clusters. Used for headings.
func Gradient(text string, from, to lipgloss.Color) string {
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	switch len(clusters) {
	case 0:
		return ""
	case 1:
		return lipgloss.NewStyle().Bold(true).Foreground(from).Render(text)
	}

	var b strings.Builder
	for i, c := range blend(len(clusters), from, to) {
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Hex())).Render(clusters[i]))
	}
	return b.String()
}

// blend returns size colours from from to to, interpolated in HCL space.
func blend(size int, from, to lipgloss.Color) []colorful.Color {
	c1 := toColorful(from)
	c2 := toColorful(to)
	out := make([]colorful.Color, size)
	for i := range size {
		out[i] = c1.BlendHcl(c2, float64(i)/float64(size-1)).Clamped()
	}
	return out
}

// toColorful parses a "#rrggbb" colour; ANSI codes become neutral grey.
func toColorful(c lipgloss.Color) colorful.Color {
	if col, err := colorful.Hex(string(c)); err == nil {
		return col
	}
	grey, _ := colorful.MakeColor(color.Gray{Y: 128})
	return grey
}
