package mpris

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/hush/internal/playback"
	"github.com/llehouerou/hush/internal/sound"
	"github.com/llehouerou/hush/internal/ui/miniplayer"
)

// Controller is the part of the playback controller exposed over MPRIS.
type Controller interface {
	Snapshot() playback.Snapshot
	TogglePlay() bool
	Hide()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Hush", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter and the loop
// and shuffle extensions. The whole mix is one looping "track".
type playerAdapter struct {
	ctrl Controller
}

func (p *playerAdapter) Next() error {
	return nil // Not supported
}

func (p *playerAdapter) Previous() error {
	return nil // Not supported
}

func (p *playerAdapter) Pause() error {
	if p.ctrl.Snapshot().Playing {
		p.ctrl.TogglePlay()
	}
	return nil
}

func (p *playerAdapter) PlayPause() error {
	if len(p.ctrl.Snapshot().Entries) > 0 {
		p.ctrl.TogglePlay()
	}
	return nil
}

func (p *playerAdapter) Stop() error {
	p.ctrl.Hide()
	return nil
}

func (p *playerAdapter) Play() error {
	snap := p.ctrl.Snapshot()
	if !snap.Playing && len(snap.Entries) > 0 {
		p.ctrl.TogglePlay()
	}
	return nil
}

func (p *playerAdapter) Seek(_ types.Microseconds) error {
	return nil // Loops have no position
}

func (p *playerAdapter) SetPosition(_ string, _ types.Microseconds) error {
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return playbackStatus(p.ctrl.Snapshot()), nil
}

func playbackStatus(s playback.Snapshot) types.PlaybackStatus {
	switch {
	case s.Surface() == playback.SurfaceHidden || len(s.Entries) == 0:
		return types.PlaybackStatusStopped
	case s.Playing:
		return types.PlaybackStatusPlaying
	default:
		return types.PlaybackStatusPaused
	}
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	return metadata(p.ctrl.Snapshot().Entries), nil
}

func metadata(entries []sound.Entry) types.Metadata {
	if len(entries) == 0 {
		return types.Metadata{}
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(sound.IDs(entries))),
		Title:   miniplayer.Label(entries),
		Artist:  []string{"Hush"},
		Album:   strings.Join(names, ", "),
	}
}

func (p *playerAdapter) Volume() (float64, error) {
	return 1.0, nil // Volumes are per sound
}

func (p *playerAdapter) SetVolume(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Position() (int64, error) {
	return 0, nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return len(p.ctrl.Snapshot().Entries) > 0, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	return types.LoopStatusTrack, nil
}

// SetLoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
// Sounds always loop.
func (p *playerAdapter) SetLoopStatus(_ types.LoopStatus) error {
	return nil
}

// Shuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) Shuffle() (bool, error) {
	return false, nil
}

// SetShuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) SetShuffle(_ bool) error {
	return nil
}

func formatTrackID(ids []string) string {
	h := fnv.New64a()
	h.Write([]byte(strings.Join(ids, "\x00")))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
