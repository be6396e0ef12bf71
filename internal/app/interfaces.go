package app

import (
	"context"

	"github.com/llehouerou/hush/internal/playback"
	"github.com/llehouerou/hush/internal/sound"
	"github.com/llehouerou/hush/internal/store"
	"github.com/llehouerou/hush/internal/ui/mainplayer"
)

// Controller is the playback controller as seen by the TUI.
type Controller interface {
	mainplayer.Controller
	Subscribe(fn playback.Listener) func()
}

// Launcher starts playback from library selections.
type Launcher interface {
	AddSound(ctx context.Context, e sound.Entry) error
	PlayMix(ctx context.Context, mix sound.Mix) error
	Replay(ctx context.Context, item sound.Item) error
}

// Library is the persisted per-user data shown in the library tabs.
type Library interface {
	mainplayer.Favorites
	Favorites(ctx context.Context, userID string) ([]store.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, favoriteID string) error
	History(ctx context.Context, userID string, limit int) ([]store.HistoryEntry, error)
	ClearHistory(ctx context.Context, userID string) error
	SaveVolume(ctx context.Context, soundID string, level float64) error
}
