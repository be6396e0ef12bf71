// Package miniplayer is the compact now-playing bar shown while the full
// player is closed.
package miniplayer

import (
	"fmt"

	"github.com/llehouerou/hush/internal/playback"
	"github.com/llehouerou/hush/internal/sound"
)

// Controller is the part of the playback controller the bar drives.
type Controller interface {
	Snapshot() playback.Snapshot
	TogglePlay() bool
	SetFullVisible(visible bool)
	Hide()
}

// Presenter relays bar intents to the controller.
type Presenter struct {
	ctrl     Controller
	openFull func(entries []sound.Entry)
}

// New creates a presenter. openFull is the host's navigation to the full player.
func New(ctrl Controller, openFull func(entries []sound.Entry)) *Presenter {
	return &Presenter{ctrl: ctrl, openFull: openFull}
}

// Visible reports whether the bar should be drawn for s.
func Visible(s playback.Snapshot) bool {
	return s.CompactVisible && len(s.Entries) > 0 && !s.FullVisible
}

// Label is "<name>" for one entry and "<first> +<n-1>" for a mix.
func Label(entries []sound.Entry) string {
	switch len(entries) {
	case 0:
		return ""
	case 1:
		return entries[0].Name
	default:
		return fmt.Sprintf("%s +%d", entries[0].Name, len(entries)-1)
	}
}

// Toggle flips play/pause.
func (p *Presenter) Toggle() {
	p.ctrl.TogglePlay()
}

// Expand hands the current entries to the full player.
func (p *Presenter) Expand() {
	snap := p.ctrl.Snapshot()
	if len(snap.Entries) == 0 {
		return
	}
	p.ctrl.SetFullVisible(true)
	if p.openFull != nil {
		p.openFull(snap.Entries)
	}
}

// Dismiss hides the player.
func (p *Presenter) Dismiss() {
	p.ctrl.Hide()
}
