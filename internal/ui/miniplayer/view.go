package miniplayer

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/hush/internal/icons"
	"github.com/llehouerou/hush/internal/playback"
	"github.com/llehouerou/hush/internal/ui/render"
	"github.com/llehouerou/hush/internal/ui/styles"
)

// Height is the rendered height including borders.
const Height = 3

// Render draws the bar, or "" when it is not visible.
func Render(s playback.Snapshot, width int) string {
	if !Visible(s) {
		return ""
	}
	t := styles.T()

	innerWidth := max(width-6, 0)
	status := t.S().Playing.Render(icons.PlayState(s.Playing))
	hints := t.S().Subtle.Render("space " + playWord(s.Playing) + " · enter open · x close")

	labelWidth := innerWidth - lipgloss.Width(status) - 1 - lipgloss.Width(hints) - 3
	if labelWidth < 8 {
		hints = ""
		labelWidth = innerWidth - lipgloss.Width(status) - 1
	}
	label := t.S().Title.Render(render.Truncate(Label(s.Entries), max(labelWidth, 0)))

	var left strings.Builder
	left.WriteString(status)
	left.WriteString(" ")
	left.WriteString(label)

	line := left.String()
	if hints != "" {
		line = render.Row(line, hints, innerWidth)
	}
	return styles.PanelStyle(false).Padding(0, 2).Width(max(width-2, 0)).Render(line)
}

func playWord(playing bool) string {
	if playing {
		return "pause"
	}
	return "play"
}
