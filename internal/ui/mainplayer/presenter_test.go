package mainplayer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/hush/internal/playback"
	"github.com/llehouerou/hush/internal/player"
	"github.com/llehouerou/hush/internal/sound"
	"github.com/llehouerou/hush/internal/store"
)

type fakeIdentity struct{ userID string }

func (f fakeIdentity) UserID() (string, bool) { return f.userID, f.userID != "" }

type fakeFavorites struct {
	mu       sync.Mutex
	existing map[string]bool
	lookup   error
	added    []sound.Item
	addErr   error
}

func (f *fakeFavorites) AddFavorite(_ context.Context, _ string, item sound.Item) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return "", f.addErr
	}
	f.added = append(f.added, item)
	return "fav-" + item.ID, nil
}

func (f *fakeFavorites) IsFavorite(_ context.Context, _ string, itemID string) (store.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookup != nil {
		return store.Status{}, f.lookup
	}
	if f.existing[itemID] {
		return store.Status{IsFavorite: true, FavoriteID: "fav-" + itemID}, nil
	}
	return store.Status{}, nil
}

func (f *fakeFavorites) Added() []sound.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sound.Item(nil), f.added...)
}

type fixture struct {
	engine *player.MockEngine
	ctrl   *playback.Controller
	favs   *fakeFavorites
	notes  *recordingNotifier
	hook   *logtest.Hook
	backs  int
	p      *Presenter
}

func newFixture(t *testing.T, userID string) *fixture {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	f := &fixture{
		engine: player.NewMockEngine(),
		favs:   &fakeFavorites{existing: map[string]bool{}},
		notes:  &recordingNotifier{},
		hook:   hook,
	}
	f.ctrl = playback.New(f.engine, playback.Options{Logger: logger})
	f.p = New(f.ctrl, Options{
		Favorites:    f.favs,
		Identity:     fakeIdentity{userID: userID},
		Notifier:     f.notes,
		Logger:       logger,
		Back:         func() { f.backs++ },
		TimerMinutes: 30,
		Now:          func() time.Time { return time.UnixMilli(1700000000000) },
	})
	t.Cleanup(func() {
		f.p.Close()
		_ = f.ctrl.Close()
	})
	return f
}

func entry(id string) sound.Entry {
	return sound.Entry{ID: id, Name: strings.ToUpper(id[:1]) + id[1:], Icon: "rainy-outline", URI: id + ".mp3"}
}

func TestPresenter_ActivateShowsFullAndChecksFavorites(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "user-1")
		f.favs.existing["rain"] = true

		f.p.Activate(t.Context(), []sound.Entry{entry("rain"), entry("fan")})
		f.p.Wait()
		synctest.Wait()

		snap := f.ctrl.Snapshot()
		assert.True(t, snap.FullVisible)
		assert.Equal(t, []string{"rain", "fan"}, sound.IDs(snap.Entries))
		assert.True(t, f.p.Active())
		assert.True(t, f.p.IsFavorite("rain"))
		assert.False(t, f.p.IsFavorite("fan"))
		assert.Len(t, f.engine.Live(), 2)
	})
}

func TestPresenter_ActivateSkipsLookupsWhenSignedOut(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.favs.existing["rain"] = true

		f.p.Activate(t.Context(), []sound.Entry{entry("rain")})
		f.p.Wait()

		assert.False(t, f.p.IsFavorite("rain"))
	})
}

func TestPresenter_LookupFailureIsLoggedAsNotFavorite(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "user-1")
		f.favs.lookup = errors.New("db down")

		f.p.Activate(t.Context(), []sound.Entry{entry("rain")})
		f.p.Wait()

		assert.False(t, f.p.IsFavorite("rain"))
		var found bool
		for _, e := range f.hook.AllEntries() {
			if e.Message == "favorite lookup failed" {
				found = true
			}
		}
		assert.True(t, found)
	})
}

func TestPresenter_PreviewDoesNotCommit(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.p.Activate(t.Context(), []sound.Entry{entry("rain")})
		synctest.Wait()

		f.p.PreviewVolume("rain", 0.2)
		synctest.Wait()

		assert.InDelta(t, 0.2, f.p.DisplayVolume("rain"), 1e-9)
		assert.InDelta(t, playback.DefaultVolume, f.ctrl.Volume("rain"), 1e-9)
		assert.InDelta(t, playback.DefaultVolume, f.engine.Handle("rain.mp3").Volume(), 1e-9)

		f.p.SetVolumeFor("rain", 0.3)
		synctest.Wait()

		assert.InDelta(t, 0.3, f.p.DisplayVolume("rain"), 1e-9)
		assert.InDelta(t, 0.3, f.ctrl.Volume("rain"), 1e-9)
		assert.InDelta(t, 0.3, f.engine.Handle("rain.mp3").Volume(), 1e-9)
	})
}

func TestPresenter_PreviewClamps(t *testing.T) {
	f := &Presenter{preview: map[string]float64{}}
	f.PreviewVolume("rain", 4)
	assert.InDelta(t, 1.0, f.preview["rain"], 1e-9)
}

func TestPresenter_Minimize(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.ctrl.ShowSounds([]sound.Entry{entry("rain")})
		f.p.Activate(t.Context(), []sound.Entry{entry("rain"), entry("fan")})
		require.NoError(t, f.p.Timer.Arm(15))
		synctest.Wait()

		f.p.Minimize()
		synctest.Wait()

		snap := f.ctrl.Snapshot()
		assert.False(t, snap.FullVisible)
		assert.True(t, snap.CompactVisible)
		assert.True(t, snap.Playing)
		assert.Equal(t, []string{"rain", "fan"}, sound.IDs(snap.Entries))
		assert.Equal(t, 1, f.backs)
		assert.False(t, f.p.Active())
		assert.Equal(t, TimerIdle, f.p.Timer.State())
		// The rain handle survives the surface switch.
		assert.Len(t, f.engine.Opens(), 2)
	})
}

func TestPresenter_CloseCompletely(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.ctrl.ShowSounds([]sound.Entry{entry("rain")})
		f.p.Activate(t.Context(), []sound.Entry{entry("rain")})
		synctest.Wait()

		f.p.CloseCompletely()
		synctest.Wait()

		snap := f.ctrl.Snapshot()
		assert.Equal(t, playback.SurfaceHidden, snap.Surface())
		assert.False(t, snap.Playing)
		assert.Empty(t, f.engine.Live())
		assert.Equal(t, 1, f.backs)
	})
}

func TestPresenter_RemoveLastEntryNavigatesBack(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.p.Activate(t.Context(), []sound.Entry{entry("rain"), entry("fan")})
		synctest.Wait()

		f.p.RemoveEntry("rain")
		synctest.Wait()
		assert.Equal(t, 0, f.backs)
		assert.Equal(t, []string{"fan"}, sound.IDs(f.ctrl.Snapshot().Entries))

		f.p.RemoveEntry("fan")
		synctest.Wait()
		assert.Equal(t, 1, f.backs)
		assert.Empty(t, f.engine.Live())
	})
}

func TestPresenter_AddFavoriteRequiresAuth(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.p.Activate(t.Context(), []sound.Entry{entry("rain")})

		err := f.p.AddCurrentToFavorites(t.Context())
		require.ErrorIs(t, err, ErrAuthRequired)
		assert.Empty(t, f.favs.Added())
	})
}

func TestPresenter_AddSingleSoundFavorite(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "user-1")
		f.p.Activate(t.Context(), []sound.Entry{entry("rain")})
		f.p.Wait()

		require.NoError(t, f.p.AddCurrentToFavorites(t.Context()))
		added := f.favs.Added()
		require.Len(t, added, 1)
		assert.Equal(t, sound.KindSound, added[0].Kind)
		assert.Equal(t, "rain", added[0].ID)
		assert.True(t, f.p.IsFavorite("rain"))
		assert.Equal(t, Notice{Title: "Success", Body: "Sound added to favorites!"}, f.notes.Last())

		err := f.p.AddCurrentToFavorites(t.Context())
		require.ErrorIs(t, err, ErrAlreadyFavorited)
		assert.Len(t, f.favs.Added(), 1)
		assert.Equal(t, "Already in Favorites", f.notes.Last().Title)
	})
}

func TestPresenter_AddMixFavorite(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "user-1")
		f.p.Activate(t.Context(), []sound.Entry{entry("rain"), entry("fan")})
		f.p.Wait()

		require.NoError(t, f.p.AddCurrentToFavorites(t.Context()))
		added := f.favs.Added()
		require.Len(t, added, 1)
		assert.Equal(t, sound.KindMix, added[0].Kind)
		assert.Equal(t, "mix-1700000000000", added[0].ID)
		assert.Equal(t, []string{"rain", "fan"}, sound.IDs(added[0].Sounds))
		assert.Equal(t, "Mix added to favorites!", f.notes.Last().Body)
	})
}

func TestPresenter_AddFavoriteStoreError(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "user-1")
		f.favs.addErr = errors.New("disk full")
		f.p.Activate(t.Context(), []sound.Entry{entry("rain")})
		f.p.Wait()

		err := f.p.AddCurrentToFavorites(t.Context())
		require.Error(t, err)
		assert.False(t, f.p.IsFavorite("rain"))
		assert.Empty(t, f.notes.Titles())
	})
}

func TestPresenter_TimerExpiryPausesController(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.ctrl.ShowSounds([]sound.Entry{entry("rain")})
		f.p.Activate(t.Context(), []sound.Entry{entry("rain")})
		require.NoError(t, f.p.Timer.Arm(5))

		time.Sleep(5*time.Minute + time.Second)
		synctest.Wait()

		assert.False(t, f.ctrl.Snapshot().Playing)
		assert.False(t, f.engine.Handle("rain.mp3").Playing())
		assert.Equal(t, "Timer Ended", f.notes.Last().Title)
	})
}

func TestRender_ShowsEntriesAndTimer(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.p.Activate(t.Context(), []sound.Entry{entry("rain"), entry("fan")})
		synctest.Wait()

		out := Render(f.p.View(0, 100, 20))
		assert.Contains(t, out, "Rain")
		assert.Contains(t, out, "Fan")
		assert.Contains(t, out, "100%")
		assert.Contains(t, out, "Sleep timer: off (30 min)")

		require.NoError(t, f.p.Timer.Arm(10))
		out = Render(f.p.View(1, 100, 20))
		assert.Contains(t, out, "10:00 left")
	})
}
