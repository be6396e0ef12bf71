package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storage struct {
	srv      *httptest.Server
	requests atomic.Int32
	gate     chan struct{}
}

func newStorage(t *testing.T, files map[string]string) *storage {
	t.Helper()
	s := &storage{}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		if s.gate != nil {
			<-s.gate
		}
		if r.URL.Query().Get("alt") != "media" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func newResolver(t *testing.T, s *storage) *Resolver {
	t.Helper()
	r := New(Config{
		BaseURL:  s.srv.URL + "/o/",
		CacheDir: t.TempDir(),
		Client:   s.srv.Client(),
	})
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRemoteURL_Firebase(t *testing.T) {
	r := New(Config{Bucket: "hush-sounds.appspot.com"})
	assert.Equal(t,
		"https://firebasestorage.googleapis.com/v0/b/hush-sounds.appspot.com/o/whiteNoises%2FRain%20On%20Tent.mp3?alt=media",
		r.RemoteURL("whiteNoises/Rain On Tent.mp3"))
}

func TestLocalPath_StaysInCache(t *testing.T) {
	r := New(Config{CacheDir: "/cache"})
	assert.Equal(t, filepath.FromSlash("/cache/whiteNoises/Rain.mp3"), r.LocalPath("whiteNoises/Rain.mp3"))
	assert.Equal(t, filepath.FromSlash("/cache/etc/passwd"), r.LocalPath("../../etc/passwd"))
}

func TestResolve_MissThenHit(t *testing.T) {
	s := newStorage(t, map[string]string{"/o/whiteNoises/Rain.mp3": "rain-bytes"})
	r := newResolver(t, s)

	var mu sync.Mutex
	var ready []string
	uri, err := r.Resolve(context.Background(), "whiteNoises/Rain.mp3", func(src, local string) {
		mu.Lock()
		ready = append(ready, src+"="+local)
		mu.Unlock()
	})
	require.NoError(t, err)
	assert.Equal(t, r.RemoteURL("whiteNoises/Rain.mp3"), uri)

	r.Wait()
	local := r.LocalPath("whiteNoises/Rain.mp3")
	assert.Equal(t, []string{"whiteNoises/Rain.mp3=" + local}, ready)

	data, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, "rain-bytes", string(data))

	uri, err = r.Resolve(context.Background(), "whiteNoises/Rain.mp3", nil)
	require.NoError(t, err)
	assert.Equal(t, local, uri)
	assert.Equal(t, int32(1), s.requests.Load())
}

func TestResolve_DeduplicatesDownloads(t *testing.T) {
	s := newStorage(t, map[string]string{"/o/whiteNoises/Fan.mp3": "fan"})
	s.gate = make(chan struct{})
	r := newResolver(t, s)

	var calls atomic.Int32
	onReady := func(string, string) { calls.Add(1) }
	for range 3 {
		_, err := r.Resolve(context.Background(), "whiteNoises/Fan.mp3", onReady)
		require.NoError(t, err)
	}

	close(s.gate)
	r.Wait()
	assert.Equal(t, int32(1), s.requests.Load())
	assert.Equal(t, int32(3), calls.Load())
}

func TestResolve_EmptySourcePath(t *testing.T) {
	r := New(Config{})
	_, err := r.Resolve(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrNoSourcePath)
	_, err = r.Fetch(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoSourcePath)
}

func TestFetch_Waits(t *testing.T) {
	s := newStorage(t, map[string]string{"/o/whiteNoises/Owls.mp3": "owls"})
	r := newResolver(t, s)

	local, err := r.Fetch(context.Background(), "whiteNoises/Owls.mp3")
	require.NoError(t, err)
	assert.Equal(t, r.LocalPath("whiteNoises/Owls.mp3"), local)
	assert.True(t, r.Cached("whiteNoises/Owls.mp3"))
}

func TestFetch_NotFound(t *testing.T) {
	s := newStorage(t, map[string]string{})
	r := newResolver(t, s)

	_, err := r.Fetch(context.Background(), "whiteNoises/Nope.mp3")
	require.ErrorContains(t, err, "status 404")
	assert.False(t, r.Cached("whiteNoises/Nope.mp3"))

	entries, err := os.ReadDir(filepath.Dir(r.LocalPath("whiteNoises/Nope.mp3")))
	if err == nil {
		assert.Empty(t, entries)
	}
}

func TestFetch_CallerCancelKeepsDownloading(t *testing.T) {
	s := newStorage(t, map[string]string{"/o/whiteNoises/River.mp3": "river"})
	s.gate = make(chan struct{})
	r := newResolver(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := r.Fetch(ctx, "whiteNoises/River.mp3")
		errc <- err
	}()
	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)

	close(s.gate)
	r.Wait()
	assert.True(t, r.Cached("whiteNoises/River.mp3"))
}

func TestWriteAtomic_EmptyBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b.mp3")
	_, err := writeAtomic(path, http.NoBody)
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
