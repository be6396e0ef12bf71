package app

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/hush/internal/icons"
	"github.com/llehouerou/hush/internal/keymap"
	"github.com/llehouerou/hush/internal/sound"
	"github.com/llehouerou/hush/internal/ui/mainplayer"
	"github.com/llehouerou/hush/internal/ui/miniplayer"
	"github.com/llehouerou/hush/internal/ui/render"
	"github.com/llehouerou/hush/internal/ui/styles"
)

const shortHelpCount = 8

// helpKeys adapts keymap bindings to help.KeyMap.
type helpKeys []key.Binding

func (h helpKeys) ShortHelp() []key.Binding {
	if len(h) > shortHelpCount {
		return h[:shortHelpCount]
	}
	return h
}

func (h helpKeys) FullHelp() [][]key.Binding {
	return slices.Collect(slices.Chunk([]key.Binding(h), 5))
}

// View implements tea.Model.
func (m Model) View() string {
	if m.Width == 0 {
		return ""
	}

	footer := m.renderFooter()
	bodyHeight := max(m.Height-lipgloss.Height(footer), 3)

	var body string
	if m.Screen == ScreenPlayer {
		body = mainplayer.Render(m.full.View(m.PlayerCursor, m.Width, bodyHeight))
	} else {
		body = m.renderLibrary(bodyHeight)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

func (m Model) renderFooter() string {
	var parts []string
	if line := m.renderStatus(); line != "" {
		parts = append(parts, line)
	}
	h := m.help
	h.ShowAll = m.ShowHelp
	parts = append(parts, h.View(helpKeys(keymap.Help(m.context()))))
	return strings.Join(parts, "\n")
}

func (m Model) renderStatus() string {
	if m.Status == "" {
		return ""
	}
	s := styles.T().S()
	style := s.Success
	if m.StatusErr {
		style = s.Error
	}
	return style.Render(ansi.Truncate(m.Status, max(m.Width-1, 1), "…"))
}

func (m Model) renderLibrary(height int) string {
	t := styles.T()
	s := t.S()

	mini := miniplayer.Render(m.Snapshot, m.Width)
	listHeight := height - 4
	if mini != "" {
		listHeight -= lipgloss.Height(mini)
	}
	listHeight = max(listHeight, 1)

	var b strings.Builder
	b.WriteString(render.Row(styles.Gradient("hush", t.Primary, t.Secondary)+"  "+m.renderTabs(), m.renderUser(), m.Width-4))
	b.WriteString("\n")
	if m.Searching || m.Query != "" {
		b.WriteString(m.Search.View())
	}
	b.WriteString("\n")

	rows := m.tabRows(m.Width - 6)
	cursor := m.Cursors[m.Tab]
	start, end := window(len(rows), cursor, listHeight)
	for i := start; i < end; i++ {
		line := fit(rows[i], m.Width-6)
		if i == cursor {
			line = s.Cursor.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(rows) == 0 {
		b.WriteString(s.Muted.Render(m.emptyText()))
		b.WriteString("\n")
	}

	panel := styles.PanelStyle(true).Padding(0, 1).
		Width(max(m.Width-2, 0)).
		Height(max(height-2-lipgloss.Height(mini), 1))
	out := panel.Render(strings.TrimRight(b.String(), "\n"))
	if mini != "" {
		out = lipgloss.JoinVertical(lipgloss.Left, out, mini)
	}
	return out
}

func (m Model) renderTabs() string {
	s := styles.T().S()
	tabs := make([]string, 0, tabCount)
	for t := range tabCount {
		if t == m.Tab {
			tabs = append(tabs, s.Title.Render("["+t.String()+"]"))
		} else {
			tabs = append(tabs, s.Muted.Render(" "+t.String()+" "))
		}
	}
	return strings.Join(tabs, " ")
}

func (m Model) renderUser() string {
	s := styles.T().S()
	if id, ok := m.userID(); ok {
		return s.Subtle.Render(id)
	}
	return s.Subtle.Render("signed out")
}

func (m Model) emptyText() string {
	switch m.Tab {
	case TabFavorites, TabHistory:
		if _, ok := m.userID(); !ok {
			return "Sign in with 'hush login <user>' to keep favorites and history."
		}
		if m.Tab == TabFavorites {
			return "No favorites yet. Press f in the player to add one."
		}
		return "Nothing played yet."
	case TabSounds:
		return "No sound matches."
	default:
		return ""
	}
}

// tabRows renders the rows of the current tab.
func (m Model) tabRows(width int) []string {
	s := styles.T().S()
	var rows []string

	switch m.Tab {
	case TabSounds:
		for _, e := range m.visibleSounds() {
			mark := "  "
			if sound.Contains(m.Snapshot.Entries, e.ID) && m.Snapshot.CompactVisible {
				mark = s.Playing.Render(icons.PlayState(true)) + " "
			}
			rows = append(rows, mark+icons.FormatSound(e.Icon, e.Name))
		}
	case TabMixes:
		for _, mix := range m.catalog.Mixes() {
			name := render.TruncateAndPad(icons.FormatMix(mix.Name), width/3)
			rows = append(rows, name+" "+s.Muted.Render(mix.Description))
		}
	case TabFavorites:
		for _, f := range m.Favorites {
			rows = append(rows, itemRow(f.Item, humanize.Time(f.AddedAt), width))
		}
	case TabHistory:
		for _, h := range m.History {
			rows = append(rows, itemRow(h.Item, humanize.Time(h.PlayedAt), width))
		}
	}
	return rows
}

func itemRow(item sound.Item, when string, width int) string {
	s := styles.T().S()
	var name string
	if item.Kind == sound.KindMix {
		name = icons.FormatMix(item.Name) + s.Muted.Render(" ("+strings.Join(entryNames(item.Sounds), ", ")+")")
	} else {
		name = icons.FormatSound(item.Icon, item.Name)
	}
	return render.Row(ansi.Truncate(name, max(width-len(when)-2, 4), "…"), s.Subtle.Render(when), width)
}

func entryNames(entries []sound.Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// fit truncates or pads a styled line to exactly width cells.
func fit(line string, width int) string {
	line = ansi.Truncate(line, max(width, 0), "…")
	return line + strings.Repeat(" ", max(width-lipgloss.Width(line), 0))
}

// window returns the visible [start, end) range of n rows around cursor.
func window(n, cursor, height int) (int, int) {
	if n <= height {
		return 0, n
	}
	start := max(cursor-height+1, 0)
	return start, min(start+height, n)
}
