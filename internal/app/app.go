package app

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/hush/internal/keymap"
	"github.com/llehouerou/hush/internal/notify"
	"github.com/llehouerou/hush/internal/playback"
	"github.com/llehouerou/hush/internal/sound"
	"github.com/llehouerou/hush/internal/store"
	"github.com/llehouerou/hush/internal/ui/mainplayer"
	"github.com/llehouerou/hush/internal/ui/miniplayer"
)

// Screen is the top-level view.
type Screen int

const (
	ScreenLibrary Screen = iota
	ScreenPlayer
)

// Tab is a library tab.
type Tab int

const (
	TabSounds Tab = iota
	TabMixes
	TabFavorites
	TabHistory
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabSounds:
		return "Sounds"
	case TabMixes:
		return "Mixes"
	case TabFavorites:
		return "Favorites"
	case TabHistory:
		return "History"
	default:
		return ""
	}
}

const historyLimit = 100

// Deps holds the collaborators of the TUI.
type Deps struct {
	Controller   Controller
	Launcher     Launcher
	Catalog      *sound.Catalog
	Library      Library
	Identity     playback.Identity
	Desktop      *notify.Desktop // nil disables desktop notifications
	TimerMinutes int
	Logger       logrus.FieldLogger
}

// Model is the root application model.
type Model struct {
	ctx      context.Context
	ctrl     Controller
	launcher Launcher
	catalog  *sound.Catalog
	library  Library
	identity playback.Identity
	log      logrus.FieldLogger

	bridge *bridge
	keys   *keymap.Resolver
	help   help.Model
	mini   *miniplayer.Presenter
	full   *mainplayer.Presenter
	unsub  func()

	Snapshot     playback.Snapshot
	Screen       Screen
	Tab          Tab
	Cursors      [tabCount]int
	PlayerCursor int
	ShowHelp     bool

	Search    textinput.Model
	Searching bool
	Query     string

	Favorites []store.Favorite
	History   []store.HistoryEntry

	Status        string
	StatusErr     bool
	statusVersion int

	pendingVolumes map[string]struct{}
	volumeVersion  int
	timerTicking   bool

	Width  int
	Height int
}

// New creates the root model and subscribes it to the controller.
func New(ctx context.Context, d Deps) Model {
	if d.Logger == nil {
		d.Logger = logrus.StandardLogger()
	}
	if d.Catalog == nil {
		d.Catalog = sound.Default()
	}

	b := &bridge{}
	n := notifier{b: b, desktop: d.Desktop}

	search := textinput.New()
	search.Placeholder = "search sounds"
	search.Prompt = "/ "

	m := Model{
		ctx:            ctx,
		ctrl:           d.Controller,
		launcher:       d.Launcher,
		catalog:        d.Catalog,
		library:        d.Library,
		identity:       d.Identity,
		log:            d.Logger,
		bridge:         b,
		keys:           keymap.NewResolver(keymap.All),
		help:           help.New(),
		Search:         search,
		pendingVolumes: make(map[string]struct{}),
	}

	m.mini = miniplayer.New(d.Controller, func(entries []sound.Entry) {
		b.post(openFullMsg{entries: entries})
	})

	var favs mainplayer.Favorites
	if d.Library != nil {
		favs = d.Library
	}
	m.full = mainplayer.New(d.Controller, mainplayer.Options{
		Favorites:    favs,
		Identity:     d.Identity,
		Notifier:     n,
		Logger:       d.Logger,
		Back:         func() { b.post(backMsg{}) },
		Changed:      func() { b.post(favoritesCheckedMsg{}) },
		TimerMinutes: d.TimerMinutes,
	})

	m.unsub = d.Controller.Subscribe(func(playback.Snapshot) { b.post(snapshotMsg{}) })
	m.Snapshot = d.Controller.Snapshot()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Attach routes background wake-ups to p.
func (m Model) Attach(p *tea.Program) {
	m.bridge.attach(p.Send)
}

// Close stops the sleep timer and unsubscribes from the controller.
func (m Model) Close() {
	m.full.Close()
	if m.unsub != nil {
		m.unsub()
	}
}

// Run starts the TUI and blocks until it exits.
func Run(ctx context.Context, d Deps) error {
	m := New(ctx, d)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.Attach(p)
	_, err := p.Run()
	return err
}

func (m Model) context() string {
	if m.Screen == ScreenPlayer {
		return keymap.ContextPlayer
	}
	return keymap.ContextLibrary
}

func (m Model) userID() (string, bool) {
	if m.identity == nil {
		return "", false
	}
	return m.identity.UserID()
}

// visibleSounds returns the sounds tab content, filtered by the search query.
func (m Model) visibleSounds() []sound.Entry {
	if m.Query == "" {
		return m.catalog.Sounds()
	}
	return m.catalog.Find(m.Query)
}

func (m Model) tabLen(t Tab) int {
	switch t {
	case TabSounds:
		return len(m.visibleSounds())
	case TabMixes:
		return len(m.catalog.Mixes())
	case TabFavorites:
		return len(m.Favorites)
	case TabHistory:
		return len(m.History)
	default:
		return 0
	}
}
