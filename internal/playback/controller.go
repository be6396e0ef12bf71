// Package playback owns the set of mixed sounds, their audio handles and
// the visibility of the compact and full player surfaces.
package playback

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/hush/internal/player"
	"github.com/llehouerou/hush/internal/sound"
)

// HistoryRecorder stores playback starts for a user.
type HistoryRecorder interface {
	Record(ctx context.Context, userID string, item sound.Item) error
}

// Identity exposes the authenticated user, if any.
type Identity interface {
	UserID() (string, bool)
}

// Options holds the controller collaborators. All fields are optional.
type Options struct {
	History  HistoryRecorder
	Identity Identity
	Logger   logrus.FieldLogger
	Now      func() time.Time
}

// slot tracks the handle of one entry. Slot identity acts as the generation
// of an open: a completion whose slot is no longer current is stale.
type slot struct {
	uri    string
	handle player.Handle
}

// Controller is the single owner of playback state and audio handles.
// All methods are safe for concurrent use and return without waiting for
// engine calls; handle work runs on per-entry lanes.
type Controller struct {
	engine   player.Engine
	history  HistoryRecorder
	identity Identity
	log      logrus.FieldLogger
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	tasks  sync.WaitGroup

	mu             sync.Mutex
	entries        []sound.Entry
	playing        bool
	volumes        map[string]float64
	compactVisible bool
	fullVisible    bool
	slots          map[string]*slot
	lanes          map[string]*lane
	recorded       map[string]struct{}
	closed         bool

	listeners listeners
}

// New creates a controller driving engine.
func New(engine player.Engine, opts Options) *Controller {
	if opts.Logger == nil {
		l := logrus.New()
		l.Out = io.Discard
		opts.Logger = l
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		engine:   engine,
		history:  opts.History,
		identity: opts.Identity,
		log:      opts.Logger.WithField("component", "playback"),
		now:      opts.Now,
		ctx:      ctx,
		cancel:   cancel,
		volumes:  make(map[string]float64),
		slots:    make(map[string]*slot),
		lanes:    make(map[string]*lane),
		recorded: make(map[string]struct{}),
	}
}

// Subscribe registers fn for state changes and returns its unsubscribe func.
func (c *Controller) Subscribe(fn Listener) func() {
	return c.listeners.add(fn)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	entries := make([]sound.Entry, len(c.entries))
	copy(entries, c.entries)

	var open []string
	for _, e := range c.entries {
		if s := c.slots[e.ID]; s != nil && s.handle != nil {
			open = append(open, e.ID)
		}
	}

	volumes := make(map[string]float64, len(c.volumes))
	for id, v := range c.volumes {
		volumes[id] = v
	}

	return Snapshot{
		Entries:        entries,
		Playing:        c.playing,
		Volumes:        volumes,
		CompactVisible: c.compactVisible,
		FullVisible:    c.fullVisible,
		OpenHandles:    open,
	}
}

// Volume returns the recorded level for id.
func (c *Controller) Volume(id string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volumeLocked(id)
}

func (c *Controller) volumeLocked(id string) float64 {
	if v, ok := c.volumes[id]; ok {
		return v
	}
	return DefaultVolume
}

// ShowSounds replaces the mix with list and starts playing it on the compact surface.
func (c *Controller) ShowSounds(list []sound.Entry) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	entries := uniqueEntries(list)
	if len(entries) == 0 {
		c.entries = nil
		c.hideLocked()
		c.commit()
		return
	}

	wasPlaying := c.playing
	c.entries = entries
	c.compactVisible = true
	c.playing = true
	if !wasPlaying {
		c.applyPlayingLocked(true)
	}
	c.syncLocked()
	c.recordLocked(entries)
	c.commit()
}

// Hide dismisses the player: playback stops and every handle is released.
// Entries are kept so a later show can restore them.
func (c *Controller) Hide() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.hideLocked()
	c.commit()
}

func (c *Controller) hideLocked() {
	c.compactVisible = false
	c.playing = false
	clear(c.recorded)
	c.teardownLocked()
}

// ReplaceEntries swaps the entry list without changing visibility or play state.
// An empty list hides the player.
func (c *Controller) ReplaceEntries(list []sound.Entry) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.entries = uniqueEntries(list)
	if len(c.entries) == 0 {
		c.hideLocked()
	} else {
		c.syncLocked()
	}
	c.commit()
}

// TogglePlay flips the global play state and returns the new value.
func (c *Controller) TogglePlay() bool {
	c.mu.Lock()
	if c.closed {
		defer c.mu.Unlock()
		return c.playing
	}
	c.playing = !c.playing
	playing := c.playing
	c.applyPlayingLocked(playing)
	c.commit()
	return playing
}

// SetVolume clamps level to [0, 1], records it for id and applies it to an open handle.
func (c *Controller) SetVolume(id string, level float64) {
	level = player.ClampLevel(level)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.volumes[id] = level
	if s := c.slots[id]; s != nil {
		c.enqueue(id, func() {
			c.withHandle(id, s, "volume", func(h player.Handle) error { return h.SetVolume(level) })
		})
	}
	c.commit()
}

// RemoveSound drops id from the mix and releases its handle.
// Removing the last entry hides the player.
func (c *Controller) RemoveSound(id string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	i := sound.Index(c.entries, id)
	if i < 0 {
		c.mu.Unlock()
		return
	}
	c.entries = append(c.entries[:i:i], c.entries[i+1:]...)
	c.releaseLocked(id)
	if len(c.entries) == 0 {
		c.hideLocked()
	}
	c.commit()
}

// SetFullVisible records whether the full surface owns the screen.
func (c *Controller) SetFullVisible(visible bool) {
	c.mu.Lock()
	if c.closed || c.fullVisible == visible {
		c.mu.Unlock()
		return
	}
	c.fullVisible = visible
	c.syncLocked()
	c.commit()
}

// RestoreCompact hands the screen back to the compact surface with entries.
// Play state is left as is and no history is recorded.
func (c *Controller) RestoreCompact(list []sound.Entry) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.fullVisible = false
	c.entries = uniqueEntries(list)
	if len(c.entries) == 0 {
		c.hideLocked()
	} else {
		c.compactVisible = true
		c.syncLocked()
	}
	c.commit()
}

// RefreshURI points entry id at uri if it is still part of the mix.
// The open handle keeps playing its current source. Reports whether the entry was updated.
func (c *Controller) RefreshURI(id, uri string) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	i := sound.Index(c.entries, id)
	if i < 0 {
		c.mu.Unlock()
		c.log.WithField("sound_id", id).Debug("uri refresh for removed entry ignored")
		return false
	}
	entries := make([]sound.Entry, len(c.entries))
	copy(entries, c.entries)
	entries[i] = entries[i].WithURI(uri)
	c.entries = entries
	c.commit()
	return true
}

// Close releases every handle and waits for queued handle work and history writes.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.playing = false
	c.teardownLocked()
	c.mu.Unlock()

	c.cancel()
	c.tasks.Wait()
	return nil
}

// commit unlocks c.mu and notifies listeners with the new state.
func (c *Controller) commit() {
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

func (c *Controller) notify(snap Snapshot) {
	for _, fn := range c.listeners.snapshot() {
		fn(snap)
	}
}

// syncLocked opens handles for entries missing one and releases handles of
// entries no longer in the mix. Nothing opens while both surfaces are hidden.
func (c *Controller) syncLocked() {
	active := c.compactVisible || c.fullVisible
	for id := range c.slots {
		if !active || !sound.Contains(c.entries, id) {
			c.releaseLocked(id)
		}
	}
	if !active {
		return
	}
	for _, e := range c.entries {
		if _, ok := c.slots[e.ID]; ok {
			continue
		}
		s := &slot{uri: e.URI}
		c.slots[e.ID] = s
		c.openLocked(e.ID, s)
	}
}

func (c *Controller) teardownLocked() {
	for id := range c.slots {
		c.releaseLocked(id)
	}
}

func (c *Controller) applyPlayingLocked(playing bool) {
	op := "pause"
	if playing {
		op = "play"
	}
	for id, s := range c.slots {
		c.enqueue(id, func() {
			c.withHandle(id, s, op, func(h player.Handle) error {
				if playing {
					return h.Play()
				}
				return h.Pause()
			})
		})
	}
}

// openLocked queues the open of s. Open options are read when the lane reaches it.
func (c *Controller) openLocked(id string, s *slot) {
	c.enqueue(id, func() {
		c.mu.Lock()
		if c.slots[id] != s {
			c.mu.Unlock()
			return
		}
		opts := player.Options{
			Loop:     true,
			Autoplay: c.playing,
			Volume:   c.volumeLocked(id),
		}
		c.mu.Unlock()

		log := c.log.WithFields(logrus.Fields{"sound_id": id, "uri": s.uri})
		h, err := c.engine.Open(c.ctx, s.uri, opts)

		c.mu.Lock()
		current := c.slots[id] == s
		if err != nil {
			if current {
				delete(c.slots, id)
			}
			c.mu.Unlock()
			log.WithError(err).Warn("open sound failed")
			return
		}
		if !current {
			c.mu.Unlock()
			log.Debug("closing handle opened for removed entry")
			closeHandle(log, h)
			return
		}
		s.handle = h
		c.commit()
	})
}

// releaseLocked forgets the slot of id and queues its teardown.
func (c *Controller) releaseLocked(id string) {
	s, ok := c.slots[id]
	if !ok {
		return
	}
	delete(c.slots, id)
	c.enqueue(id, func() {
		c.mu.Lock()
		h := s.handle
		s.handle = nil
		c.mu.Unlock()
		if h != nil {
			closeHandle(c.log.WithField("sound_id", id), h)
		}
	})
}

func closeHandle(log logrus.FieldLogger, h player.Handle) {
	if err := h.Stop(); err != nil {
		log.WithError(err).Warn("stop sound failed")
	}
	if err := h.Close(); err != nil {
		log.WithError(err).Warn("close sound failed")
	}
}

// withHandle runs fn against the handle of s if it opened successfully.
func (c *Controller) withHandle(id string, s *slot, op string, fn func(player.Handle) error) {
	c.mu.Lock()
	h := s.handle
	c.mu.Unlock()
	if h == nil {
		return
	}
	if err := fn(h); err != nil {
		c.log.WithFields(logrus.Fields{"sound_id": id, "op": op}).WithError(err).Warn("sound operation failed")
	}
}

// enqueue schedules fn on the lane of id. Caller holds c.mu.
func (c *Controller) enqueue(id string, fn func()) {
	l, ok := c.lanes[id]
	if !ok {
		l = &lane{}
		c.lanes[id] = l
	}
	if l.push(fn) {
		c.tasks.Go(l.drain)
	}
}

// recordLocked writes a history entry for a new playback start, once per
// visible session. Mixes get a fresh generated id on every call.
func (c *Controller) recordLocked(entries []sound.Entry) {
	if c.history == nil || c.identity == nil {
		return
	}
	userID, ok := c.identity.UserID()
	if !ok {
		return
	}

	var item sound.Item
	if len(entries) > 1 {
		item = sound.MixItem(sound.MixID(c.now()), entries)
	} else {
		item = sound.SoundItem(entries[0])
	}
	if _, done := c.recorded[item.ID]; done {
		return
	}
	c.recorded[item.ID] = struct{}{}

	log := c.log.WithFields(logrus.Fields{"item_id": item.ID, "type": item.Kind})
	c.tasks.Go(func() {
		if err := c.history.Record(c.ctx, userID, item); err != nil {
			log.WithError(err).Warn("record history failed")
		}
	})
}

func uniqueEntries(list []sound.Entry) []sound.Entry {
	if len(list) == 0 {
		return nil
	}
	return lo.UniqBy(list, func(e sound.Entry) string { return e.ID })
}
