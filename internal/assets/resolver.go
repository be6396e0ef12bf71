// Package assets resolves sound source paths to playable locations and
// keeps a local cache of downloaded sounds.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

const firebaseStorageURL = "https://firebasestorage.googleapis.com/v0/b/"

var ErrNoSourcePath = errors.New("no source path")

// ReadyFunc is called once a source has been downloaded to localPath.
type ReadyFunc func(sourcePath, localPath string)

// Config configures a Resolver.
type Config struct {
	Bucket   string
	BaseURL  string // replaces the Firebase Storage prefix when set
	CacheDir string
	Client   *http.Client
	Logger   logrus.FieldLogger
}

type download struct {
	done    chan struct{}
	local   string
	err     error
	waiters []ReadyFunc
}

// Resolver maps source paths to local cache files or remote URLs.
// Each source path is downloaded at most once at a time.
type Resolver struct {
	baseURL  string
	cacheDir string
	client   *http.Client
	log      logrus.FieldLogger

	ctx    context.Context
	cancel context.CancelFunc
	tasks  sync.WaitGroup

	mu       sync.Mutex
	inflight map[string]*download
}

func New(cfg Config) *Resolver {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if base == "" {
		base = firebaseStorageURL + cfg.Bucket + "/o"
	}
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.Out = io.Discard
		cfg.Logger = l
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Resolver{
		baseURL:  base,
		cacheDir: cfg.CacheDir,
		client:   cfg.Client,
		log:      cfg.Logger.WithField("component", "assets"),
		ctx:      ctx,
		cancel:   cancel,
		inflight: make(map[string]*download),
	}
}

// RemoteURL returns the download URL of sourcePath.
func (r *Resolver) RemoteURL(sourcePath string) string {
	return r.baseURL + "/" + url.PathEscape(sourcePath) + "?alt=media"
}

// LocalPath returns where sourcePath is cached.
func (r *Resolver) LocalPath(sourcePath string) string {
	return filepath.Join(r.cacheDir, filepath.FromSlash(filepath.Clean("/"+sourcePath)))
}

// Cached reports whether sourcePath has a non-empty cache file.
func (r *Resolver) Cached(sourcePath string) bool {
	fi, err := os.Stat(r.LocalPath(sourcePath))
	return err == nil && fi.Mode().IsRegular() && fi.Size() > 0
}

// Resolve returns a playable location for sourcePath without waiting for the network.
// On a cache miss it returns the remote URL and downloads in the background;
// onReady, if not nil, is called from the download goroutine when the local copy exists.
func (r *Resolver) Resolve(_ context.Context, sourcePath string, onReady ReadyFunc) (string, error) {
	if sourcePath == "" {
		return "", ErrNoSourcePath
	}
	if r.Cached(sourcePath) {
		return r.LocalPath(sourcePath), nil
	}
	r.start(sourcePath, onReady)
	return r.RemoteURL(sourcePath), nil
}

// Fetch returns the local path of sourcePath, downloading it first if needed.
// Cancelling ctx stops the wait, not the download.
func (r *Resolver) Fetch(ctx context.Context, sourcePath string) (string, error) {
	if sourcePath == "" {
		return "", ErrNoSourcePath
	}
	if r.Cached(sourcePath) {
		return r.LocalPath(sourcePath), nil
	}
	d := r.start(sourcePath, nil)
	select {
	case <-d.done:
		return d.local, d.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (r *Resolver) start(sourcePath string, onReady ReadyFunc) *download {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d, ok := r.inflight[sourcePath]; ok {
		if onReady != nil {
			d.waiters = append(d.waiters, onReady)
		}
		return d
	}

	d := &download{done: make(chan struct{})}
	if onReady != nil {
		d.waiters = append(d.waiters, onReady)
	}
	r.inflight[sourcePath] = d

	r.tasks.Go(func() {
		local, err := r.download(sourcePath)

		r.mu.Lock()
		delete(r.inflight, sourcePath)
		d.local, d.err = local, err
		waiters := d.waiters
		r.mu.Unlock()
		close(d.done)

		if err != nil {
			r.log.WithField("source", sourcePath).WithError(err).Warn("download failed")
			return
		}
		for _, fn := range waiters {
			fn(sourcePath, local)
		}
	})
	return d
}

func (r *Resolver) download(sourcePath string) (string, error) {
	remote := r.RemoteURL(sourcePath)
	req, err := http.NewRequestWithContext(r.ctx, http.MethodGet, remote, nil)
	if err != nil {
		return "", err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: status %d", sourcePath, resp.StatusCode)
	}

	local := r.LocalPath(sourcePath)
	n, err := writeAtomic(local, resp.Body)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", sourcePath, err)
	}

	r.log.WithFields(logrus.Fields{
		"source": sourcePath,
		"size":   humanize.Bytes(uint64(n)), //nolint:gosec // byte count
	}).Info("sound cached")
	return local, nil
}

// writeAtomic streams body into a temp file next to path and renames it into place.
func writeAtomic(path string, body io.Reader) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, body)
	if err != nil {
		tmp.Close()
		return 0, err
	}
	if n == 0 {
		tmp.Close()
		return 0, errors.New("empty body")
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	return n, os.Rename(tmp.Name(), path)
}

// Wait blocks until every background download has finished.
func (r *Resolver) Wait() {
	r.tasks.Wait()
}

// Close aborts background downloads and waits for them.
func (r *Resolver) Close() error {
	r.cancel()
	r.tasks.Wait()
	return nil
}
