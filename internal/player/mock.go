package player

import (
	"context"
	"sync"
)

// OpenCall records one Open request made to a MockEngine.
type OpenCall struct {
	URI     string
	Options Options
}

// MockEngine is a test double for Engine.
type MockEngine struct {
	mu       sync.Mutex
	opens    []OpenCall
	handles  []*MockHandle
	failures map[string]error
	gate     chan struct{}
}

var _ Engine = (*MockEngine)(nil)

// NewMockEngine creates a new mock engine for testing.
func NewMockEngine() *MockEngine {
	return &MockEngine{failures: make(map[string]error)}
}

// FailOpen makes every subsequent Open of uri return err.
func (m *MockEngine) FailOpen(uri string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[uri] = err
}

// Hold blocks subsequent Open calls until release is called.
func (m *MockEngine) Hold() (release func()) {
	m.mu.Lock()
	gate := make(chan struct{})
	m.gate = gate
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			if m.gate == gate {
				m.gate = nil
			}
			m.mu.Unlock()
			close(gate)
		})
	}
}

func (m *MockEngine) Open(ctx context.Context, uri string, opts Options) (Handle, error) {
	m.mu.Lock()
	m.opens = append(m.opens, OpenCall{URI: uri, Options: opts})
	gate := m.gate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures[uri]; err != nil {
		return nil, err
	}
	h := &MockHandle{
		uri:     uri,
		opts:    opts,
		playing: opts.Autoplay,
		volume:  opts.Volume,
	}
	m.handles = append(m.handles, h)
	return h, nil
}

// Opens returns every Open request in call order.
func (m *MockEngine) Opens() []OpenCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]OpenCall, len(m.opens))
	copy(out, m.opens)
	return out
}

// Handles returns every handle successfully opened.
func (m *MockEngine) Handles() []*MockHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*MockHandle, len(m.handles))
	copy(out, m.handles)
	return out
}

// Handle returns the most recently opened handle for uri, or nil.
func (m *MockEngine) Handle(uri string) *MockHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.handles) - 1; i >= 0; i-- {
		if m.handles[i].uri == uri {
			return m.handles[i]
		}
	}
	return nil
}

// Live returns handles that have not been closed.
func (m *MockEngine) Live() []*MockHandle {
	var out []*MockHandle
	for _, h := range m.Handles() {
		if !h.Closed() {
			out = append(out, h)
		}
	}
	return out
}

// MockHandle is a test double for Handle.
type MockHandle struct {
	mu      sync.Mutex
	uri     string
	opts    Options
	calls   []string
	playing bool
	volume  float64
	stopped bool
	closed  bool
	err     error
}

var _ Handle = (*MockHandle)(nil)

// FailWith makes every subsequent call return err.
func (h *MockHandle) FailWith(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

func (h *MockHandle) record(call string, apply func()) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, call)
	if h.err != nil {
		return h.err
	}
	if h.closed {
		return ErrClosed
	}
	apply()
	return nil
}

func (h *MockHandle) Play() error  { return h.record("play", func() { h.playing = true }) }
func (h *MockHandle) Pause() error { return h.record("pause", func() { h.playing = false }) }

func (h *MockHandle) SetVolume(level float64) error {
	return h.record("volume", func() { h.volume = level })
}

func (h *MockHandle) Stop() error {
	return h.record("stop", func() {
		h.stopped = true
		h.playing = false
	})
}

func (h *MockHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, "close")
	h.closed = true
	h.playing = false
	return h.err
}

func (h *MockHandle) URI() string      { return h.uri }
func (h *MockHandle) Options() Options { return h.opts }

// Calls returns method names in call order.
func (h *MockHandle) Calls() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.calls))
	copy(out, h.calls)
	return out
}

func (h *MockHandle) Playing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playing
}

func (h *MockHandle) Volume() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.volume
}

func (h *MockHandle) Stopped() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stopped
}

func (h *MockHandle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}
