package playback

import "sync"

// lane runs the handle operations of one entry in call order.
type lane struct {
	mu      sync.Mutex
	pending []func()
	running bool
}

// push queues fn and reports whether the caller must start a drain goroutine.
func (l *lane) push(fn func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = append(l.pending, fn)
	if l.running {
		return false
	}
	l.running = true
	return true
}

// pop returns the next queued operation, or false once the lane is idle.
func (l *lane) pop() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.pending) == 0 {
		l.running = false
		return nil, false
	}
	fn := l.pending[0]
	l.pending[0] = nil
	l.pending = l.pending[1:]
	return fn, true
}

func (l *lane) drain() {
	for {
		fn, ok := l.pop()
		if !ok {
			return
		}
		fn()
	}
}
