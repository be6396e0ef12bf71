// Package mainplayer is the full-screen player: per-sound volumes,
// favorites and the sleep timer.
package mainplayer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/hush/internal/playback"
	"github.com/llehouerou/hush/internal/player"
	"github.com/llehouerou/hush/internal/sound"
	"github.com/llehouerou/hush/internal/store"
)

var (
	ErrAuthRequired     = errors.New("sign in to save favorites")
	ErrAlreadyFavorited = errors.New("already in favorites")
	ErrNothingPlaying   = errors.New("nothing is playing")
)

// Controller is the part of the playback controller the full player drives.
type Controller interface {
	Playback
	ReplaceEntries(list []sound.Entry)
	RestoreCompact(list []sound.Entry)
	RemoveSound(id string)
	SetVolume(id string, level float64)
	SetFullVisible(visible bool)
	Hide()
}

// Favorites persists and looks up favorite items.
type Favorites interface {
	AddFavorite(ctx context.Context, userID string, item sound.Item) (string, error)
	IsFavorite(ctx context.Context, userID, itemID string) (store.Status, error)
}

// Options holds the presenter collaborators.
type Options struct {
	Favorites Favorites
	Identity  playback.Identity
	Notifier  Notifier
	Logger    logrus.FieldLogger
	// Back navigates away from the full player.
	Back func()
	// Changed is called when presenter-local state changes outside of an intent.
	Changed      func()
	TimerMinutes int
	Now          func() time.Time
}

// Presenter holds the full player's local state and relays intents to the
// playback controller.
type Presenter struct {
	ctrl     Controller
	favs     Favorites
	identity playback.Identity
	notifier Notifier
	log      logrus.FieldLogger
	back     func()
	changed  func()
	now      func() time.Time

	Timer *SleepTimer

	mu        sync.Mutex
	active    bool
	gen       int
	favorites map[string]store.Status
	preview   map[string]float64
	tasks     sync.WaitGroup
}

// New creates a presenter for ctrl.
func New(ctrl Controller, opts Options) *Presenter {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Presenter{
		ctrl:      ctrl,
		favs:      opts.Favorites,
		identity:  opts.Identity,
		notifier:  opts.Notifier,
		log:       opts.Logger,
		back:      opts.Back,
		changed:   opts.Changed,
		now:       opts.Now,
		Timer:     NewSleepTimer(ctrl, opts.Notifier, opts.TimerMinutes),
		favorites: make(map[string]store.Status),
		preview:   make(map[string]float64),
	}
}

// Active reports whether the full player is open.
func (p *Presenter) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Activate opens the full player on entries and starts favorite lookups
// for a signed-in user.
func (p *Presenter) Activate(ctx context.Context, entries []sound.Entry) {
	p.ctrl.SetFullVisible(true)
	p.ctrl.ReplaceEntries(entries)

	p.mu.Lock()
	p.active = true
	p.gen++
	gen := p.gen
	p.favorites = make(map[string]store.Status)
	p.preview = make(map[string]float64)
	p.mu.Unlock()

	userID, ok := p.userID()
	if !ok || p.favs == nil {
		return
	}
	for _, e := range p.ctrl.Snapshot().Entries {
		p.tasks.Go(func() { p.checkFavorite(ctx, gen, userID, e.ID) })
	}
}

func (p *Presenter) checkFavorite(ctx context.Context, gen int, userID, id string) {
	status, err := p.favs.IsFavorite(ctx, userID, id)
	if err != nil {
		p.log.WithError(err).WithField("sound_id", id).Warn("favorite lookup failed")
		status = store.Status{}
	}

	p.mu.Lock()
	if p.gen != gen {
		p.mu.Unlock()
		return
	}
	p.favorites[id] = status
	p.mu.Unlock()

	if p.changed != nil {
		p.changed()
	}
}

// Wait blocks until pending favorite lookups finish.
func (p *Presenter) Wait() {
	p.tasks.Wait()
}

// Deactivate closes the full player without navigating. The sleep timer
// does not outlive the screen.
func (p *Presenter) Deactivate() {
	p.mu.Lock()
	p.active = false
	p.gen++
	p.preview = make(map[string]float64)
	p.mu.Unlock()

	p.Timer.Stop()
	p.ctrl.SetFullVisible(false)
}

// RemoveEntry drops one sound. The screen closes once nothing is left.
func (p *Presenter) RemoveEntry(id string) {
	p.ctrl.RemoveSound(id)

	p.mu.Lock()
	delete(p.preview, id)
	delete(p.favorites, id)
	p.mu.Unlock()

	if len(p.ctrl.Snapshot().Entries) == 0 {
		p.Deactivate()
		p.navigateBack()
	}
}

// Minimize returns to the compact bar, keeping the current mix and play state.
func (p *Presenter) Minimize() {
	p.ctrl.RestoreCompact(p.ctrl.Snapshot().Entries)
	p.Deactivate()
	p.navigateBack()
}

// CloseCompletely hides the player entirely.
func (p *Presenter) CloseCompletely() {
	p.ctrl.Hide()
	p.Deactivate()
	p.navigateBack()
}

// TogglePlay flips play/pause.
func (p *Presenter) TogglePlay() bool {
	return p.ctrl.TogglePlay()
}

// PreviewVolume updates the displayed level while a slider is moving.
// Nothing reaches the controller until SetVolumeFor.
func (p *Presenter) PreviewVolume(id string, level float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.preview[id] = player.ClampLevel(level)
}

// SetVolumeFor commits a level to the controller.
func (p *Presenter) SetVolumeFor(id string, level float64) {
	p.mu.Lock()
	delete(p.preview, id)
	p.mu.Unlock()
	p.ctrl.SetVolume(id, level)
}

// DisplayVolume returns the previewed level for id, or the committed one.
func (p *Presenter) DisplayVolume(id string) float64 {
	p.mu.Lock()
	v, ok := p.preview[id]
	p.mu.Unlock()
	if ok {
		return v
	}
	return p.ctrl.Snapshot().Volume(id)
}

// IsFavorite reports the looked-up favorite state of a sound.
func (p *Presenter) IsFavorite(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.favorites[id].IsFavorite
}

// AddCurrentToFavorites saves the current sound, or the whole set as a
// mix when more than one sound is playing.
func (p *Presenter) AddCurrentToFavorites(ctx context.Context) error {
	userID, ok := p.userID()
	if !ok || p.favs == nil {
		return ErrAuthRequired
	}
	entries := p.ctrl.Snapshot().Entries
	if len(entries) == 0 {
		return ErrNothingPlaying
	}

	if len(entries) > 1 {
		item := sound.MixItem(sound.MixID(p.now()), entries)
		if _, err := p.favs.AddFavorite(ctx, userID, item); err != nil {
			return err
		}
		p.notify(Notice{Title: "Success", Body: "Mix added to favorites!"})
		return nil
	}

	e := entries[0]
	if p.IsFavorite(e.ID) {
		p.notify(Notice{Title: "Already in Favorites", Body: e.Name + " is already in your favorites."})
		return ErrAlreadyFavorited
	}
	favID, err := p.favs.AddFavorite(ctx, userID, sound.SoundItem(e))
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.favorites[e.ID] = store.Status{IsFavorite: true, FavoriteID: favID}
	p.mu.Unlock()

	p.notify(Notice{Title: "Success", Body: "Sound added to favorites!"})
	return nil
}

// Close stops the timer and waits for pending lookups.
func (p *Presenter) Close() {
	p.Timer.Stop()
	p.tasks.Wait()
}

func (p *Presenter) userID() (string, bool) {
	if p.identity == nil {
		return "", false
	}
	return p.identity.UserID()
}

func (p *Presenter) navigateBack() {
	if p.back != nil {
		p.back()
	}
}

func (p *Presenter) notify(n Notice) {
	if p.notifier != nil {
		p.notifier.Notify(n)
	}
}
