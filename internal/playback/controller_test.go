package playback

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/hush/internal/player"
	"github.com/llehouerou/hush/internal/sound"
)

type fakeIdentity struct{ userID string }

func (f fakeIdentity) UserID() (string, bool) { return f.userID, f.userID != "" }

type fakeHistory struct {
	mu    sync.Mutex
	items []sound.Item
	users []string
	err   error
}

func (f *fakeHistory) Record(_ context.Context, userID string, item sound.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, userID)
	f.items = append(f.items, item)
	return f.err
}

func (f *fakeHistory) Items() []sound.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sound.Item(nil), f.items...)
}

func entry(id string) sound.Entry {
	return sound.Entry{ID: id, Name: id, URI: id + ".mp3"}
}

type fixture struct {
	engine  *player.MockEngine
	history *fakeHistory
	hook    *logtest.Hook
	ctrl    *Controller
}

func newFixture(t *testing.T, userID string) *fixture {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	f := &fixture{
		engine:  player.NewMockEngine(),
		history: &fakeHistory{},
		hook:    hook,
	}
	f.ctrl = New(f.engine, Options{
		History:  f.history,
		Identity: fakeIdentity{userID: userID},
		Logger:   logger,
	})
	t.Cleanup(func() { _ = f.ctrl.Close() })
	return f
}

func (f *fixture) logged(msg string) bool {
	for _, e := range f.hook.AllEntries() {
		if e.Message == msg {
			return true
		}
	}
	return false
}

func TestShowSounds_OpensLoopingHandles(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.ctrl.ShowSounds([]sound.Entry{entry("rain"), entry("fan")})
		synctest.Wait()

		snap := f.ctrl.Snapshot()
		assert.Len(t, snap.Entries, 2)
		assert.True(t, snap.CompactVisible)
		assert.True(t, snap.Playing)
		assert.Equal(t, []string{"rain", "fan"}, snap.OpenHandles)
		assert.Equal(t, SurfaceCompact, snap.Surface())

		opens := f.engine.Opens()
		require.Len(t, opens, 2)
		for _, o := range opens {
			assert.Equal(t, player.Options{Loop: true, Autoplay: true, Volume: 1}, o.Options)
		}
	})
}

func TestShowSounds_KeepsExistingHandles(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.ctrl.ShowSounds([]sound.Entry{entry("rain")})
		synctest.Wait()
		f.ctrl.ShowSounds([]sound.Entry{entry("rain"), entry("fan")})
		synctest.Wait()

		assert.Len(t, f.engine.Opens(), 2)
		assert.Len(t, f.engine.Live(), 2)
	})
}

func TestShowSounds_DuplicateIDs(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.ctrl.ShowSounds([]sound.Entry{entry("rain"), entry("rain")})
		synctest.Wait()

		assert.Len(t, f.ctrl.Snapshot().Entries, 1)
		assert.Len(t, f.engine.Opens(), 1)
	})
}

func TestShowSounds_EmptyHides(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.ctrl.ShowSounds(nil)

		snap := f.ctrl.Snapshot()
		assert.Empty(t, snap.Entries)
		assert.False(t, snap.CompactVisible)
		assert.False(t, snap.Playing)
	})
}

func TestShowSounds_ResumesPausedHandles(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.ctrl.ShowSounds([]sound.Entry{entry("rain")})
		synctest.Wait()
		f.ctrl.TogglePlay()
		synctest.Wait()

		f.ctrl.ShowSounds([]sound.Entry{entry("rain")})
		synctest.Wait()

		h := f.engine.Handle("rain.mp3")
		assert.True(t, h.Playing())
		assert.Equal(t, []string{"pause", "play"}, h.Calls())
	})
}

func TestHistory_MixRecordedOnce(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "user-1")
		f.ctrl.ShowSounds([]sound.Entry{entry("rain"), entry("fan")})
		synctest.Wait()

		items := f.history.Items()
		require.Len(t, items, 1)
		assert.Equal(t, sound.KindMix, items[0].Kind)
		assert.True(t, strings.HasPrefix(items[0].ID, "mix-"))
		assert.Equal(t, []string{"rain", "fan"}, sound.IDs(items[0].Sounds))
		assert.Equal(t, []string{"user-1"}, f.history.users)
	})
}

func TestHistory_SoundDedupedPerSession(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "user-1")
		f.ctrl.ShowSounds([]sound.Entry{entry("rain")})
		f.ctrl.ShowSounds([]sound.Entry{entry("rain")})
		synctest.Wait()

		items := f.history.Items()
		require.Len(t, items, 1)
		assert.Equal(t, sound.KindSound, items[0].Kind)
		assert.Equal(t, "rain", items[0].ID)

		f.ctrl.Hide()
		f.ctrl.ShowSounds([]sound.Entry{entry("rain")})
		synctest.Wait()
		assert.Len(t, f.history.Items(), 2)
	})
}

func TestHistory_MixesGetFreshIDs(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "user-1")
		mix := []sound.Entry{entry("rain"), entry("fan")}
		f.ctrl.ShowSounds(mix)
		time.Sleep(time.Millisecond)
		f.ctrl.ShowSounds(mix)
		synctest.Wait()

		items := f.history.Items()
		require.Len(t, items, 2)
		assert.NotEqual(t, items[0].ID, items[1].ID)
	})
}

func TestHistory_SkippedWhenAnonymous(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.ctrl.ShowSounds([]sound.Entry{entry("rain")})
		synctest.Wait()
		assert.Empty(t, f.history.Items())
	})
}

func TestHistory_FailureIsLogged(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "user-1")
		f.history.err = errors.New("offline")
		f.ctrl.ShowSounds([]sound.Entry{entry("rain")})
		synctest.Wait()

		assert.True(t, f.logged("record history failed"))
		assert.True(t, f.ctrl.Snapshot().Playing)
	})
}

func TestTogglePlay_Twice(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.ctrl.ShowSounds([]sound.Entry{entry("rain"), entry("fan")})
		synctest.Wait()

		assert.False(t, f.ctrl.TogglePlay())
		assert.True(t, f.ctrl.TogglePlay())
		synctest.Wait()

		assert.True(t, f.ctrl.Snapshot().Playing)
		for _, h := range f.engine.Handles() {
			assert.Equal(t, []string{"pause", "play"}, h.Calls(), h.URI())
			assert.True(t, h.Playing())
		}
	})
}

func TestTogglePlay_HandleFailureKeepsFlag(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.ctrl.ShowSounds([]sound.Entry{entry("rain"), entry("fan")})
		synctest.Wait()
		f.engine.Handle("rain.mp3").FailWith(errors.New("device gone"))

		f.ctrl.TogglePlay()
		synctest.Wait()

		assert.False(t, f.ctrl.Snapshot().Playing)
		assert.False(t, f.engine.Handle("fan.mp3").Playing())
		assert.True(t, f.logged("sound operation failed"))
	})
}

func TestTogglePlay_WhileOpening(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		release := f.engine.Hold()
		f.ctrl.ShowSounds([]sound.Entry{entry("rain")})
		synctest.Wait()

		f.ctrl.TogglePlay()
		release()
		synctest.Wait()

		h := f.engine.Handle("rain.mp3")
		require.NotNil(t, h)
		assert.False(t, h.Playing())
		assert.Equal(t, []string{"pause"}, h.Calls())
	})
}

func TestSetVolume_Clamps(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.ctrl.ShowSounds([]sound.Entry{entry("rain")})
		synctest.Wait()

		f.ctrl.SetVolume("rain", -0.5)
		assert.InDelta(t, 0.0, f.ctrl.Volume("rain"), 1e-9)

		f.ctrl.SetVolume("rain", 1.7)
		assert.InDelta(t, 1.0, f.ctrl.Volume("rain"), 1e-9)

		f.ctrl.SetVolume("rain", 0.4)
		synctest.Wait()
		assert.InDelta(t, 0.4, f.engine.Handle("rain.mp3").Volume(), 1e-9)
		assert.InDelta(t, 0.4, f.ctrl.Snapshot().Volume("rain"), 1e-9)
	})
}

func TestSetVolume_BeforeHandleOpens(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		release := f.engine.Hold()
		f.ctrl.ShowSounds([]sound.Entry{entry("rain")})
		synctest.Wait()

		f.ctrl.SetVolume("rain", 0.3)
		assert.InDelta(t, 0.3, f.ctrl.Volume("rain"), 1e-9)

		release()
		synctest.Wait()
		assert.InDelta(t, 0.3, f.engine.Handle("rain.mp3").Volume(), 1e-9)
	})
}

func TestSetVolume_WhileHidden(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.ctrl.SetVolume("rain", 0.3)
		f.ctrl.ShowSounds([]sound.Entry{entry("rain")})
		synctest.Wait()

		opens := f.engine.Opens()
		require.Len(t, opens, 1)
		assert.InDelta(t, 0.3, opens[0].Options.Volume, 1e-9)
	})
}

func TestRemoveSound_LastEntryHides(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.ctrl.ShowSounds([]sound.Entry{entry("fan")})
		synctest.Wait()

		f.ctrl.RemoveSound("fan")
		synctest.Wait()

		snap := f.ctrl.Snapshot()
		assert.Empty(t, snap.Entries)
		assert.False(t, snap.CompactVisible)
		assert.False(t, snap.Playing)
		assert.True(t, f.engine.Handle("fan.mp3").Closed())
	})
}

func TestRemoveSound_KeepsOthers(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.ctrl.ShowSounds([]sound.Entry{entry("rain"), entry("fan")})
		synctest.Wait()

		f.ctrl.RemoveSound("rain")
		f.ctrl.RemoveSound("missing")
		synctest.Wait()

		snap := f.ctrl.Snapshot()
		assert.Equal(t, []string{"fan"}, sound.IDs(snap.Entries))
		assert.Equal(t, []string{"fan"}, snap.OpenHandles)
		assert.True(t, snap.CompactVisible)
		assert.Equal(t, []string{"stop", "close"}, f.engine.Handle("rain.mp3").Calls())
	})
}

func TestRemoveSound_WhileOpening(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		release := f.engine.Hold()
		f.ctrl.ShowSounds([]sound.Entry{entry("rain"), entry("fan")})
		synctest.Wait()

		f.ctrl.RemoveSound("rain")
		release()
		synctest.Wait()

		snap := f.ctrl.Snapshot()
		assert.Equal(t, []string{"fan"}, snap.OpenHandles)
		assert.True(t, f.engine.Handle("rain.mp3").Closed())
		assert.False(t, f.engine.Handle("fan.mp3").Closed())
	})
}

func TestHide_Idempotent(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.ctrl.ShowSounds([]sound.Entry{entry("rain"), entry("fan")})
		synctest.Wait()

		f.ctrl.Hide()
		synctest.Wait()
		once := f.ctrl.Snapshot()

		f.ctrl.Hide()
		synctest.Wait()
		twice := f.ctrl.Snapshot()

		assert.Equal(t, once, twice)
		assert.Len(t, once.Entries, 2)
		assert.False(t, once.CompactVisible)
		assert.False(t, once.Playing)
		assert.Empty(t, once.OpenHandles)
		assert.Empty(t, f.engine.Live())
	})
}

func TestHandlesFollowEntries(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		steps := []func(){
			func() { f.ctrl.ShowSounds([]sound.Entry{entry("a"), entry("b"), entry("c")}) },
			func() { f.ctrl.RemoveSound("b") },
			func() { f.ctrl.ShowSounds([]sound.Entry{entry("c"), entry("d")}) },
			func() { f.ctrl.RemoveSound("c") },
			func() { f.ctrl.ShowSounds([]sound.Entry{entry("a"), entry("d"), entry("e")}) },
			func() { f.ctrl.RemoveSound("d") },
		}
		for _, step := range steps {
			step()
			synctest.Wait()

			snap := f.ctrl.Snapshot()
			ids := sound.IDs(snap.Entries)
			for _, id := range snap.OpenHandles {
				assert.Contains(t, ids, id)
			}
			assert.Len(t, snap.OpenHandles, len(ids))
			assert.Len(t, f.engine.Live(), len(ids))
			if len(ids) == 0 {
				assert.False(t, snap.CompactVisible)
			}
		}
	})
}

func TestOpenFailure_IsolatedAndRetried(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.engine.FailOpen("fan.mp3", errors.New("corrupt"))
		f.ctrl.ShowSounds([]sound.Entry{entry("rain"), entry("fan")})
		synctest.Wait()

		snap := f.ctrl.Snapshot()
		assert.Equal(t, []string{"rain"}, snap.OpenHandles)
		assert.Len(t, snap.Entries, 2)
		assert.True(t, f.logged("open sound failed"))

		f.ctrl.ShowSounds([]sound.Entry{entry("rain"), entry("fan")})
		synctest.Wait()
		assert.Len(t, f.engine.Opens(), 3)
	})
}

func TestRefreshURI(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.ctrl.ShowSounds([]sound.Entry{entry("rain")})
		synctest.Wait()

		assert.True(t, f.ctrl.RefreshURI("rain", "/cache/rain.mp3"))
		synctest.Wait()

		e, ok := f.ctrl.Snapshot().Entry("rain")
		require.True(t, ok)
		assert.Equal(t, "/cache/rain.mp3", e.URI)
		assert.Len(t, f.engine.Opens(), 1)
		assert.Empty(t, f.engine.Handle("rain.mp3").Calls())
	})
}

func TestRefreshURI_StaleCompletion(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.ctrl.ShowSounds([]sound.Entry{entry("rain"), entry("fan")})
		synctest.Wait()
		f.ctrl.RemoveSound("rain")
		synctest.Wait()
		before := f.ctrl.Snapshot()

		assert.False(t, f.ctrl.RefreshURI("rain", "/cache/rain.mp3"))
		synctest.Wait()

		assert.Equal(t, before, f.ctrl.Snapshot())
		assert.Len(t, f.engine.Opens(), 2)
	})
}

func TestReplaceEntries(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "user-1")
		f.ctrl.ShowSounds([]sound.Entry{entry("rain"), entry("fan")})
		synctest.Wait()
		f.ctrl.TogglePlay()

		f.ctrl.ReplaceEntries([]sound.Entry{entry("fan")})
		synctest.Wait()

		snap := f.ctrl.Snapshot()
		assert.False(t, snap.Playing)
		assert.True(t, snap.CompactVisible)
		assert.Equal(t, []string{"fan"}, snap.OpenHandles)
		assert.Len(t, f.history.Items(), 1)

		f.ctrl.ReplaceEntries(nil)
		assert.False(t, f.ctrl.Snapshot().CompactVisible)
	})
}

func TestFullVisible_ReopensAfterHide(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.ctrl.ShowSounds([]sound.Entry{entry("rain")})
		synctest.Wait()
		f.ctrl.Hide()
		synctest.Wait()

		f.ctrl.SetFullVisible(true)
		synctest.Wait()

		snap := f.ctrl.Snapshot()
		assert.Equal(t, SurfaceFull, snap.Surface())
		assert.Equal(t, []string{"rain"}, snap.OpenHandles)
		opens := f.engine.Opens()
		require.Len(t, opens, 2)
		assert.False(t, opens[1].Options.Autoplay)

		f.ctrl.SetFullVisible(false)
		synctest.Wait()
		assert.Empty(t, f.engine.Live())
	})
}

func TestRestoreCompact(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "user-1")
		f.ctrl.ShowSounds([]sound.Entry{entry("rain"), entry("fan")})
		f.ctrl.SetFullVisible(true)
		f.ctrl.TogglePlay()
		synctest.Wait()

		f.ctrl.RestoreCompact([]sound.Entry{entry("rain")})
		synctest.Wait()

		snap := f.ctrl.Snapshot()
		assert.False(t, snap.FullVisible)
		assert.True(t, snap.CompactVisible)
		assert.False(t, snap.Playing)
		assert.Equal(t, []string{"rain"}, snap.OpenHandles)
		assert.Len(t, f.history.Items(), 1)
	})
}

func TestSubscribe(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		var mu sync.Mutex
		var got []Snapshot
		unsubscribe := f.ctrl.Subscribe(func(s Snapshot) {
			mu.Lock()
			got = append(got, s)
			mu.Unlock()
		})

		f.ctrl.ShowSounds([]sound.Entry{entry("rain")})
		synctest.Wait()

		mu.Lock()
		require.Len(t, got, 2)
		assert.Empty(t, got[0].OpenHandles)
		assert.Equal(t, []string{"rain"}, got[1].OpenHandles)
		mu.Unlock()

		unsubscribe()
		unsubscribe()
		f.ctrl.TogglePlay()

		mu.Lock()
		assert.Len(t, got, 2)
		mu.Unlock()
	})
}

func TestClose(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.ctrl.ShowSounds([]sound.Entry{entry("rain"), entry("fan")})
		synctest.Wait()

		require.NoError(t, f.ctrl.Close())
		assert.Empty(t, f.engine.Live())

		f.ctrl.ShowSounds([]sound.Entry{entry("owl")})
		assert.Len(t, f.engine.Opens(), 2)
		require.NoError(t, f.ctrl.Close())
	})
}

func TestClose_CancelsPendingOpen(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "")
		f.engine.Hold()
		f.ctrl.ShowSounds([]sound.Entry{entry("rain")})
		synctest.Wait()

		require.NoError(t, f.ctrl.Close())
		assert.Empty(t, f.engine.Handles())
	})
}

func TestSurface_String(t *testing.T) {
	assert.Equal(t, "Hidden", SurfaceHidden.String())
	assert.Equal(t, "Compact", SurfaceCompact.String())
	assert.Equal(t, "Full", SurfaceFull.String())
	assert.Equal(t, "Unknown", Surface(9).String())
}
