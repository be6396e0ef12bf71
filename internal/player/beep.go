package player

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/sirupsen/logrus"
)

const (
	DefaultSampleRate = 44100
	DefaultBuffer     = 100 * time.Millisecond
)

// EngineConfig configures the speaker-backed engine.
type EngineConfig struct {
	SampleRate int
	Buffer     time.Duration
	Client     *http.Client
	Logger     logrus.FieldLogger
}

// BeepEngine mixes every opened handle on the shared speaker.
// The speaker is initialised on the first successful decode.
type BeepEngine struct {
	rate   beep.SampleRate
	buffer time.Duration
	client *http.Client
	log    logrus.FieldLogger

	initOnce sync.Once
	initErr  error
}

var _ Engine = (*BeepEngine)(nil)

func NewBeepEngine(cfg EngineConfig) *BeepEngine {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = DefaultBuffer
	}
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.Out = io.Discard
		cfg.Logger = l
	}
	return &BeepEngine{
		rate:   beep.SampleRate(cfg.SampleRate),
		buffer: cfg.Buffer,
		client: cfg.Client,
		log:    cfg.Logger,
	}
}

func (e *BeepEngine) initSpeaker() error {
	e.initOnce.Do(func() {
		e.initErr = speaker.Init(e.rate, e.rate.N(e.buffer))
	})
	return e.initErr
}

// load opens and decodes uri without touching the speaker.
func (e *BeepEngine) load(ctx context.Context, uri string) (beep.StreamSeekCloser, beep.Format, error) {
	src, err := openSource(ctx, e.client, uri)
	if err != nil {
		return nil, beep.Format{}, err
	}
	streamer, format, err := decode(src)
	if err != nil {
		src.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", uri, err)
	}
	e.log.WithFields(logrus.Fields{"uri": uri, "source": src.String()}).Debug("decoded")
	return streamer, format, nil
}

func (e *BeepEngine) Open(ctx context.Context, uri string, opts Options) (Handle, error) {
	streamer, format, err := e.load(ctx, uri)
	if err != nil {
		return nil, err
	}
	if err := e.initSpeaker(); err != nil {
		streamer.Close()
		return nil, fmt.Errorf("init speaker: %w", err)
	}

	var s beep.Streamer = streamer
	if opts.Loop {
		s, err = beep.Loop2(streamer)
		if err != nil {
			streamer.Close()
			return nil, err
		}
	}
	if format.SampleRate != e.rate {
		s = beep.Resample(4, format.SampleRate, e.rate, s)
	}

	level := ClampLevel(opts.Volume)
	h := &beepHandle{
		streamer: streamer,
		ctrl:     &beep.Ctrl{Streamer: s, Paused: !opts.Autoplay},
	}
	h.volume = &effects.Volume{
		Streamer: h.ctrl,
		Base:     2,
		Volume:   levelToVolume(level),
		Silent:   level <= 0,
	}

	speaker.Play(h.volume)
	return h, nil
}

type beepHandle struct {
	mu       sync.Mutex
	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	stopped  bool
	closed   bool
}

func (h *beepHandle) Play() error  { return h.setPaused(false) }
func (h *beepHandle) Pause() error { return h.setPaused(true) }

func (h *beepHandle) setPaused(paused bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	speaker.Lock()
	h.ctrl.Paused = paused
	speaker.Unlock()
	return nil
}

func (h *beepHandle) SetVolume(level float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	level = ClampLevel(level)
	speaker.Lock()
	h.volume.Volume = levelToVolume(level)
	h.volume.Silent = level <= 0
	speaker.Unlock()
	return nil
}

// Stop detaches the stream from the mixer. A stopped handle stays silent until closed.
func (h *beepHandle) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	h.detach()
	return nil
}

func (h *beepHandle) detach() {
	if h.stopped {
		return
	}
	speaker.Lock()
	h.ctrl.Streamer = nil
	speaker.Unlock()
	h.stopped = true
}

func (h *beepHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.detach()
	h.closed = true
	return h.streamer.Close()
}
