package app

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/hush/internal/errmsg"
	"github.com/llehouerou/hush/internal/keymap"
	"github.com/llehouerou/hush/internal/ui/mainplayer"
	"github.com/llehouerou/hush/internal/ui/miniplayer"
)

const (
	volumeStep     = 0.05
	volumeSettle   = 400 * time.Millisecond
	statusDuration = 4 * time.Second
	timerTick      = time.Second
)

// Update handles a message, then every message posted while handling it.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	m, cmd := m.handle(msg)
	cmds = append(cmds, cmd)

	for pending := m.bridge.drain(); len(pending) > 0; pending = m.bridge.drain() {
		for _, p := range pending {
			m, cmd = m.handle(p)
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handle(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case wakeMsg, favoritesCheckedMsg:
		return m, nil

	case snapshotMsg:
		m.Snapshot = m.ctrl.Snapshot()
		m.PlayerCursor = clampCursor(m.PlayerCursor, len(m.Snapshot.Entries))
		return m, nil

	case openFullMsg:
		m.Screen = ScreenPlayer
		m.PlayerCursor = 0
		m.full.Activate(m.ctx, msg.entries)
		m.Snapshot = m.ctrl.Snapshot()
		return m, nil

	case backMsg:
		m.Screen = ScreenLibrary
		m.Snapshot = m.ctrl.Snapshot()
		return m, nil

	case noticeMsg:
		return m.setStatus(msg.Title+": "+msg.Body, false)

	case statusMsg:
		return m.setStatus(msg.Text, msg.Err)

	case clearStatusMsg:
		if msg.version == m.statusVersion {
			m.Status = ""
			m.StatusErr = false
		}
		return m, nil

	case launchDoneMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("launch failed")
			return m.setStatus(msg.err.Error(), true)
		}
		return m, nil

	case favoriteDoneMsg:
		return m.handleFavoriteDone(msg.err)

	case favoritesLoadedMsg:
		if msg.err != nil {
			return m.setStatus(errmsg.Format(errmsg.OpFavoritesLoad, msg.err), true)
		}
		m.Favorites = msg.items
		m.Cursors[TabFavorites] = clampCursor(m.Cursors[TabFavorites], len(m.Favorites))
		return m, nil

	case historyLoadedMsg:
		if msg.err != nil {
			return m.setStatus(errmsg.Format(errmsg.OpHistoryLoad, msg.err), true)
		}
		m.History = msg.items
		m.Cursors[TabHistory] = clampCursor(m.Cursors[TabHistory], len(m.History))
		return m, nil

	case libraryChangedMsg:
		if msg.err != nil {
			return m.setStatus(msg.err.Error(), true)
		}
		return m, tea.Batch(m.loadFavorites(), m.loadHistory())

	case volumeCommitMsg:
		if msg.version != m.volumeVersion {
			return m, nil
		}
		return m, m.commitVolumes()

	case timerTickMsg:
		if m.full.Timer.State() != mainplayer.TimerArmed {
			m.timerTicking = false
			return m, nil
		}
		return m, tickTimer()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.Searching {
		return m.handleSearchKey(msg)
	}

	action := m.keys.Resolve(m.context(), msg.String())
	switch action {
	case keymap.ActionQuit:
		return m, tea.Sequence(m.commitVolumes(), tea.Quit)
	case keymap.ActionHelp:
		m.ShowHelp = !m.ShowHelp
		return m, nil
	case "":
		return m, nil
	}

	if m.Screen == ScreenPlayer {
		return m.handlePlayerAction(action)
	}
	return m.handleLibraryAction(action)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.Searching = false
		m.Query = ""
		m.Search.SetValue("")
		m.Search.Blur()
		m.Cursors[TabSounds] = 0
		return m, nil
	case tea.KeyEnter:
		m.Searching = false
		m.Search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.Search, cmd = m.Search.Update(msg)
	if q := m.Search.Value(); q != m.Query {
		m.Query = q
		m.Cursors[TabSounds] = 0
	}
	return m, cmd
}

func (m Model) handleLibraryAction(action keymap.Action) (Model, tea.Cmd) {
	n := m.tabLen(m.Tab)
	cursor := &m.Cursors[m.Tab]

	switch action {
	case keymap.ActionNextTab:
		return m.switchTab((m.Tab + 1) % tabCount)
	case keymap.ActionPrevTab:
		return m.switchTab((m.Tab + tabCount - 1) % tabCount)
	case keymap.ActionMoveUp:
		*cursor = clampCursor(*cursor-1, n)
	case keymap.ActionMoveDown:
		*cursor = clampCursor(*cursor+1, n)
	case keymap.ActionJumpStart:
		*cursor = 0
	case keymap.ActionJumpEnd:
		*cursor = clampCursor(n-1, n)
	case keymap.ActionSearch:
		if m.Tab != TabSounds {
			return m, nil
		}
		m.Searching = true
		return m, m.Search.Focus()
	case keymap.ActionSelect:
		return m, m.selectItem()
	case keymap.ActionRefresh:
		return m, tea.Batch(m.loadFavorites(), m.loadHistory())
	case keymap.ActionDelete:
		if m.Tab == TabFavorites && *cursor < len(m.Favorites) {
			return m, m.removeFavorite(m.Favorites[*cursor].ID)
		}
	case keymap.ActionClear:
		if m.Tab == TabHistory {
			return m, m.clearHistory()
		}
	case keymap.ActionPlayPause:
		if miniplayer.Visible(m.Snapshot) {
			m.mini.Toggle()
		}
	case keymap.ActionExpand:
		if miniplayer.Visible(m.Snapshot) {
			m.mini.Expand()
		}
	case keymap.ActionDismiss:
		if miniplayer.Visible(m.Snapshot) {
			m.mini.Dismiss()
		}
	}
	return m, nil
}

func (m Model) switchTab(t Tab) (Model, tea.Cmd) {
	m.Tab = t
	switch t {
	case TabFavorites:
		return m, m.loadFavorites()
	case TabHistory:
		return m, m.loadHistory()
	}
	return m, nil
}

func (m Model) selectItem() tea.Cmd {
	cursor := m.Cursors[m.Tab]
	switch m.Tab {
	case TabSounds:
		sounds := m.visibleSounds()
		if cursor >= len(sounds) {
			return nil
		}
		e := sounds[cursor]
		return m.launch(func() error { return m.launcher.AddSound(m.ctx, e) })
	case TabMixes:
		mixes := m.catalog.Mixes()
		if cursor >= len(mixes) {
			return nil
		}
		mix := mixes[cursor]
		return tea.Batch(
			statusCmd("Loading "+mix.Name+"…", false),
			m.launch(func() error { return m.launcher.PlayMix(m.ctx, mix) }),
		)
	case TabFavorites:
		if cursor >= len(m.Favorites) {
			return nil
		}
		item := m.Favorites[cursor].Item
		return m.launch(func() error { return m.launcher.Replay(m.ctx, item) })
	case TabHistory:
		if cursor >= len(m.History) {
			return nil
		}
		item := m.History[cursor].Item
		return m.launch(func() error { return m.launcher.Replay(m.ctx, item) })
	}
	return nil
}

func (m Model) handlePlayerAction(action keymap.Action) (Model, tea.Cmd) {
	entries := m.Snapshot.Entries
	var current string
	if m.PlayerCursor < len(entries) {
		current = entries[m.PlayerCursor].ID
	}

	switch action {
	case keymap.ActionPlayPause:
		m.full.TogglePlay()
	case keymap.ActionMoveUp:
		m.PlayerCursor = clampCursor(m.PlayerCursor-1, len(entries))
	case keymap.ActionMoveDown:
		m.PlayerCursor = clampCursor(m.PlayerCursor+1, len(entries))
	case keymap.ActionVolumeUp, keymap.ActionVolumeDown:
		if current == "" {
			return m, nil
		}
		step := volumeStep
		if action == keymap.ActionVolumeDown {
			step = -step
		}
		m.full.PreviewVolume(current, m.full.DisplayVolume(current)+step)
		m.pendingVolumes[current] = struct{}{}
		m.volumeVersion++
		version := m.volumeVersion
		return m, tea.Tick(volumeSettle, func(time.Time) tea.Msg { return volumeCommitMsg{version: version} })
	case keymap.ActionFavorite:
		p := m.full
		ctx := m.ctx
		return m, func() tea.Msg { return favoriteDoneMsg{err: p.AddCurrentToFavorites(ctx)} }
	case keymap.ActionTimerArm:
		if err := m.full.Timer.Arm(m.full.Timer.Selected()); err != nil {
			return m.setStatus(errmsg.Format(errmsg.OpTimerArm, err), true)
		}
		if m.timerTicking {
			return m, nil
		}
		m.timerTicking = true
		return m, tickTimer()
	case keymap.ActionTimerCancel:
		m.full.Timer.Cancel()
	case keymap.ActionTimerLonger:
		m.full.Timer.Select(m.full.Timer.Selected() + mainplayer.TimerStep)
	case keymap.ActionTimerShorter:
		m.full.Timer.Select(m.full.Timer.Selected() - mainplayer.TimerStep)
	case keymap.ActionRemove:
		if current != "" {
			delete(m.pendingVolumes, current)
			m.full.RemoveEntry(current)
		}
	case keymap.ActionMinimize:
		cmd := m.commitVolumes()
		m.full.Minimize()
		return m, cmd
	case keymap.ActionClose:
		cmd := m.commitVolumes()
		m.full.CloseCompletely()
		return m, cmd
	}
	return m, nil
}

// commitVolumes applies every previewed level and persists it.
func (m Model) commitVolumes() tea.Cmd {
	if len(m.pendingVolumes) == 0 {
		return nil
	}
	levels := make(map[string]float64, len(m.pendingVolumes))
	for id := range m.pendingVolumes {
		level := m.full.DisplayVolume(id)
		m.full.SetVolumeFor(id, level)
		levels[id] = level
		delete(m.pendingVolumes, id)
	}
	return m.saveVolumes(levels)
}

func (m Model) handleFavoriteDone(err error) (Model, tea.Cmd) {
	switch {
	case err == nil:
		return m, m.loadFavorites()
	case errors.Is(err, mainplayer.ErrAlreadyFavorited):
		return m, nil
	case errors.Is(err, mainplayer.ErrAuthRequired):
		return m.setStatus("Sign in with 'hush login <user>' to save favorites", true)
	default:
		m.log.WithError(err).Warn("add favorite failed")
		return m.setStatus(errmsg.Format(errmsg.OpFavoriteAdd, err), true)
	}
}

func (m Model) setStatus(text string, isErr bool) (Model, tea.Cmd) {
	m.Status = text
	m.StatusErr = isErr
	m.statusVersion++
	version := m.statusVersion
	return m, tea.Tick(statusDuration, func(time.Time) tea.Msg { return clearStatusMsg{version: version} })
}

func clampCursor(c, n int) int {
	if n <= 0 {
		return 0
	}
	return min(max(c, 0), n-1)
}
