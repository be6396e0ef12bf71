// Package app is the terminal UI: the library screen, the compact bar and
// the full player.
package app

import (
	"time"

	"github.com/llehouerou/hush/internal/sound"
	"github.com/llehouerou/hush/internal/store"
	"github.com/llehouerou/hush/internal/ui/mainplayer"
)

// wakeMsg asks the event loop to process messages posted from other goroutines.
type wakeMsg struct{}

// snapshotMsg reports a playback state change.
type snapshotMsg struct{}

// openFullMsg is the compact bar's request to show the full player.
type openFullMsg struct{ entries []sound.Entry }

// backMsg is the full player's request to return to the library.
type backMsg struct{}

// favoritesCheckedMsg reports finished favorite lookups in the full player.
type favoritesCheckedMsg struct{}

// noticeMsg is a notice to show on the status line.
type noticeMsg mainplayer.Notice

// statusMsg shows a line on the status bar; Err marks it as a failure.
type statusMsg struct {
	Text string
	Err  bool
}

// clearStatusMsg clears the status line if it has not changed since.
type clearStatusMsg struct{ version int }

// launchDoneMsg reports the end of a launcher call.
type launchDoneMsg struct{ err error }

// favoriteDoneMsg reports the end of an add-to-favorites request.
type favoriteDoneMsg struct{ err error }

// favoritesLoadedMsg carries the favorites tab content.
type favoritesLoadedMsg struct {
	items []store.Favorite
	err   error
}

// historyLoadedMsg carries the history tab content.
type historyLoadedMsg struct {
	items []store.HistoryEntry
	err   error
}

// libraryChangedMsg asks for the favorites and history tabs to be reloaded.
type libraryChangedMsg struct{ err error }

// volumeCommitMsg commits previewed volumes once adjustments settle.
type volumeCommitMsg struct{ version int }

// timerTickMsg refreshes the sleep timer countdown.
type timerTickMsg time.Time
