package playback

import "sync"

// Listener receives a snapshot after every state change.
// Listeners run synchronously on the goroutine that made the change and must not block.
type Listener func(Snapshot)

type listeners struct {
	mu   sync.Mutex
	next int
	fns  map[int]Listener
}

func (l *listeners) add(fn Listener) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]Listener)
	}
	id := l.next
	l.next++
	l.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.fns, id)
			l.mu.Unlock()
		})
	}
}

func (l *listeners) snapshot() []Listener {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Listener, 0, len(l.fns))
	for i := range l.next {
		if fn, ok := l.fns[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}
