package app

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/hush/internal/notify"
	"github.com/llehouerou/hush/internal/ui/mainplayer"
)

// bridge queues messages raised by presenters and controller listeners.
// Those callbacks can run inside Update, where program.Send would block,
// so messages are queued and drained by the event loop instead.
type bridge struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	pending []tea.Msg
}

// attach sets the function used to wake the event loop.
func (b *bridge) attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

func (b *bridge) post(msg tea.Msg) {
	b.mu.Lock()
	b.pending = append(b.pending, msg)
	send := b.send
	b.mu.Unlock()

	if send != nil {
		go send(wakeMsg{})
	}
}

func (b *bridge) drain() []tea.Msg {
	b.mu.Lock()
	defer b.mu.Unlock()
	msgs := b.pending
	b.pending = nil
	return msgs
}

// notifier shows notices on the status line and as desktop notifications.
type notifier struct {
	b       *bridge
	desktop *notify.Desktop
}

func (n notifier) Notify(notice mainplayer.Notice) {
	n.b.post(noticeMsg(notice))
	n.desktop.Send(notice.Title, notice.Body)
}
