package app

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/hush/internal/errmsg"
)

func statusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{Text: text, Err: isErr} }
}

func tickTimer() tea.Cmd {
	return tea.Tick(timerTick, func(t time.Time) tea.Msg { return timerTickMsg(t) })
}

// launch runs fn off the event loop and reports its error.
func (m Model) launch(fn func() error) tea.Cmd {
	if m.launcher == nil {
		return nil
	}
	return func() tea.Msg { return launchDoneMsg{err: fn()} }
}

func (m Model) loadFavorites() tea.Cmd {
	userID, ok := m.userID()
	if !ok || m.library == nil {
		return func() tea.Msg { return favoritesLoadedMsg{} }
	}
	lib, ctx := m.library, m.ctx
	return func() tea.Msg {
		items, err := lib.Favorites(ctx, userID)
		return favoritesLoadedMsg{items: items, err: err}
	}
}

func (m Model) loadHistory() tea.Cmd {
	userID, ok := m.userID()
	if !ok || m.library == nil {
		return func() tea.Msg { return historyLoadedMsg{} }
	}
	lib, ctx := m.library, m.ctx
	return func() tea.Msg {
		items, err := lib.History(ctx, userID, historyLimit)
		return historyLoadedMsg{items: items, err: err}
	}
}

func (m Model) removeFavorite(favoriteID string) tea.Cmd {
	userID, ok := m.userID()
	if !ok || m.library == nil {
		return nil
	}
	lib, ctx := m.library, m.ctx
	return func() tea.Msg {
		if err := lib.RemoveFavorite(ctx, userID, favoriteID); err != nil {
			return libraryChangedMsg{err: errors.New(errmsg.Format(errmsg.OpFavoriteRemove, err))}
		}
		return libraryChangedMsg{}
	}
}

func (m Model) clearHistory() tea.Cmd {
	userID, ok := m.userID()
	if !ok || m.library == nil {
		return nil
	}
	lib, ctx := m.library, m.ctx
	return func() tea.Msg {
		if err := lib.ClearHistory(ctx, userID); err != nil {
			return libraryChangedMsg{err: errors.New(errmsg.Format(errmsg.OpHistoryClear, err))}
		}
		return libraryChangedMsg{}
	}
}

// saveVolumes persists levels. Failures are logged only.
func (m Model) saveVolumes(levels map[string]float64) tea.Cmd {
	if m.library == nil || len(levels) == 0 {
		return nil
	}
	lib, ctx, log := m.library, m.ctx, m.log
	return func() tea.Msg {
		for id, level := range levels {
			if err := lib.SaveVolume(ctx, id, level); err != nil {
				log.WithError(err).WithField("sound_id", id).Warn("save volume failed")
			}
		}
		return nil
	}
}
