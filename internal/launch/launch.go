// Package launch starts playback from library selections: single sounds,
// preset mixes and saved favorites or history items.
package launch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/hush/internal/assets"
	"github.com/llehouerou/hush/internal/errmsg"
	"github.com/llehouerou/hush/internal/playback"
	"github.com/llehouerou/hush/internal/sound"
)

var ErrEmptyItem = errors.New("nothing to play")

// Controller is the part of the playback controller the launcher drives.
type Controller interface {
	Snapshot() playback.Snapshot
	ShowSounds(list []sound.Entry)
	RefreshURI(id, uri string) bool
}

// Resolver maps source paths to playable locations.
type Resolver interface {
	Resolve(ctx context.Context, sourcePath string, onReady assets.ReadyFunc) (string, error)
	Fetch(ctx context.Context, sourcePath string) (string, error)
}

// Error is a launch failure with a message ready for display.
type Error struct {
	Op   errmsg.Op
	Name string
	Err  error
}

func (e *Error) Error() string { return errmsg.FormatWith(e.Op, e.Name, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Launcher turns library selections into controller calls.
type Launcher struct {
	ctrl     Controller
	resolver Resolver
	log      logrus.FieldLogger
}

// New creates a launcher.
func New(ctrl Controller, resolver Resolver, log logrus.FieldLogger) *Launcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Launcher{ctrl: ctrl, resolver: resolver, log: log}
}

// AddSound adds e to the current mix and shows it. Adding a sound that is
// already playing does nothing. While hidden, e starts a new mix.
// The remote location is used until the local copy is downloaded.
func (l *Launcher) AddSound(ctx context.Context, e sound.Entry) error {
	snap := l.ctrl.Snapshot()
	var current []sound.Entry
	if snap.Surface() != playback.SurfaceHidden {
		current = snap.Entries
	}
	if sound.Contains(current, e.ID) {
		return nil
	}

	uri, err := l.resolve(ctx, e)
	if err != nil {
		return &Error{Op: errmsg.OpSoundAdd, Name: e.Name, Err: err}
	}

	next := make([]sound.Entry, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, e.WithURI(uri))
	l.ctrl.ShowSounds(next)
	return nil
}

func (l *Launcher) resolve(ctx context.Context, e sound.Entry) (string, error) {
	id := e.ID
	return l.resolver.Resolve(ctx, e.SourcePath(), func(_, local string) {
		if !l.ctrl.RefreshURI(id, local) {
			l.log.WithField("sound_id", id).Debug("downloaded sound no longer in mix")
		}
	})
}

// PlayMix downloads every sound of mix, then replaces the current mix with it.
func (l *Launcher) PlayMix(ctx context.Context, mix sound.Mix) error {
	entries, err := l.fetchAll(ctx, mix.Sounds)
	if err != nil {
		return &Error{Op: errmsg.OpMixPlay, Name: mix.Name, Err: err}
	}
	l.ctrl.ShowSounds(entries)
	return nil
}

// Replay plays a saved favorite or history item in place of the current mix.
func (l *Launcher) Replay(ctx context.Context, item sound.Item) error {
	entries := item.Entries()
	if len(entries) == 0 {
		return &Error{Op: errmsg.OpItemReplay, Name: item.Name, Err: ErrEmptyItem}
	}

	if item.Kind != sound.KindMix {
		e := entries[0]
		uri, err := l.resolve(ctx, e)
		if err != nil {
			return &Error{Op: errmsg.OpItemReplay, Name: item.Name, Err: err}
		}
		l.ctrl.ShowSounds([]sound.Entry{e.WithURI(uri)})
		return nil
	}

	resolved, err := l.fetchAll(ctx, entries)
	if err != nil {
		return &Error{Op: errmsg.OpItemReplay, Name: item.Name, Err: err}
	}
	l.ctrl.ShowSounds(resolved)
	return nil
}

// fetchAll downloads entries concurrently and returns them pointing at
// their local copies, in the original order.
func (l *Launcher) fetchAll(ctx context.Context, entries []sound.Entry) ([]sound.Entry, error) {
	entries = lo.UniqBy(entries, func(e sound.Entry) string { return e.ID })
	if len(entries) == 0 {
		return nil, ErrEmptyItem
	}

	out := make([]sound.Entry, len(entries))
	errs := make([]error, len(entries))
	var wg sync.WaitGroup
	for i, e := range entries {
		wg.Go(func() {
			local, err := l.resolver.Fetch(ctx, e.SourcePath())
			if err != nil {
				l.log.WithError(err).WithField("sound_id", e.ID).Warn("fetch sound failed")
				errs[i] = fmt.Errorf("%s: %w", e.Name, err)
				return
			}
			out[i] = e.WithURI(local)
		})
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}
