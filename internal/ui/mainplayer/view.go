package mainplayer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/hush/internal/icons"
	"github.com/llehouerou/hush/internal/playback"
	"github.com/llehouerou/hush/internal/ui/render"
	"github.com/llehouerou/hush/internal/ui/styles"
)

const barWidth = 20

// View is everything Render needs for one frame.
type View struct {
	Snapshot  playback.Snapshot
	Cursor    int
	Volume    func(id string) float64
	Favorite  func(id string) bool
	Timer     TimerState
	Remaining time.Duration
	Selected  int
	Width     int
	Height    int
}

// View builds the frame state for the current cursor and size.
func (p *Presenter) View(cursor, width, height int) View {
	return View{
		Snapshot:  p.ctrl.Snapshot(),
		Cursor:    cursor,
		Volume:    p.DisplayVolume,
		Favorite:  p.IsFavorite,
		Timer:     p.Timer.State(),
		Remaining: p.Timer.Remaining(),
		Selected:  p.Timer.Selected(),
		Width:     width,
		Height:    height,
	}
}

// Render draws the full player.
func Render(v View) string {
	t := styles.T()
	s := t.S()
	inner := max(v.Width-4, 10)

	var b strings.Builder
	title := styles.Gradient("Now Playing", t.Primary, t.Secondary)
	state := s.Playing.Render(icons.PlayState(v.Snapshot.Playing))
	b.WriteString(render.Row(title, state, inner))
	b.WriteString("\n\n")

	nameWidth := max(inner-barWidth-12, 8)
	for i, e := range v.Snapshot.Entries {
		name := render.TruncateAndPad(icons.FormatSound(e.Icon, e.Name), nameWidth)
		level := v.Snapshot.Volume(e.ID)
		if v.Volume != nil {
			level = v.Volume(e.ID)
		}
		bar := render.Bar(level, barWidth, s.BarFull, s.BarEmpty)
		pct := fmt.Sprintf("%3d%%", int(level*100+0.5))
		fav := " "
		if v.Favorite != nil && v.Favorite(e.ID) {
			fav = s.Favorite.Render(icons.FavoriteState(true))
		}

		line := name + " " + bar + " " + pct + " " + fav
		if i == v.Cursor {
			line = s.Cursor.Render(render.Pad(line, inner))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.Timer.Render(timerLine(v)))
	b.WriteString("\n\n")
	b.WriteString(s.Subtle.Render(
		"space play/pause · ←/→ volume · f favorite · t timer · +/- duration · d remove · esc minimize · x close",
	))

	panel := styles.PanelStyle(true).Padding(0, 1).Width(max(v.Width-2, 0))
	if v.Height > 2 {
		panel = panel.Height(v.Height - 2)
	}
	return panel.Render(lipgloss.NewStyle().MaxWidth(inner).Render(b.String()))
}

func timerLine(v View) string {
	if v.Timer == TimerArmed {
		return fmt.Sprintf("%s Sleep timer: %s left", icons.Timer(), FormatRemaining(v.Remaining))
	}
	return fmt.Sprintf("%s Sleep timer: off (%d min)", icons.Timer(), v.Selected)
}
