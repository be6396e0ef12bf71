package mainplayer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/llehouerou/hush/internal/playback"
)

const (
	TimerStep       = 5
	TimerMaxMinutes = 120
	tickInterval    = time.Second
)

var ErrInvalidDuration = errors.New("timer duration must be positive")

// TimerState is the sleep timer state. Expiry and cancellation are
// transitions back to TimerIdle, not resting states.
type TimerState int

const (
	TimerIdle TimerState = iota
	TimerArmed
)

func (s TimerState) String() string {
	switch s {
	case TimerIdle:
		return "Idle"
	case TimerArmed:
		return "Armed"
	default:
		return "Unknown"
	}
}

// Notice is a one-time message for the user.
type Notice struct {
	Title string
	Body  string
}

// Notifier shows notices to the user.
type Notifier interface {
	Notify(n Notice)
}

// Playback is what the timer needs from the playback controller.
type Playback interface {
	Snapshot() playback.Snapshot
	TogglePlay() bool
}

// SnapTimer rounds minutes to the nearest step within [0, TimerMaxMinutes].
func SnapTimer(minutes int) int {
	minutes = min(max(minutes, 0), TimerMaxMinutes)
	return (minutes + TimerStep/2) / TimerStep * TimerStep
}

// SleepTimer pauses playback once its deadline passes.
type SleepTimer struct {
	playback Playback
	notifier Notifier

	mu       sync.Mutex
	state    TimerState
	selected int
	duration int
	deadline time.Time
	gen      int
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewSleepTimer creates an idle timer with defaultMinutes preselected.
func NewSleepTimer(p Playback, n Notifier, defaultMinutes int) *SleepTimer {
	return &SleepTimer{
		playback: p,
		notifier: n,
		selected: SnapTimer(defaultMinutes),
	}
}

// Select updates the candidate duration without arming. Returns the snapped value.
func (t *SleepTimer) Select(minutes int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selected = SnapTimer(minutes)
	return t.selected
}

// Selected returns the candidate duration.
func (t *SleepTimer) Selected() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selected
}

// State returns the current state.
func (t *SleepTimer) State() TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Duration returns the armed duration in minutes, or 0 when idle.
func (t *SleepTimer) Duration() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.duration
}

// Deadline returns the armed deadline, or the zero time when idle.
func (t *SleepTimer) Deadline() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.deadline
}

// Remaining returns the time left before expiry, or 0 when idle.
func (t *SleepTimer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TimerArmed {
		return 0
	}
	return max(time.Until(t.deadline), 0)
}

// Arm starts (or restarts) the countdown for minutes, snapped to the step.
func (t *SleepTimer) Arm(minutes int) error {
	minutes = SnapTimer(minutes)
	if minutes <= 0 {
		return ErrInvalidDuration
	}

	t.mu.Lock()
	t.stopLocked()
	t.gen++
	gen := t.gen
	stop := make(chan struct{})
	t.stop = stop
	t.state = TimerArmed
	t.selected = minutes
	t.duration = minutes
	t.deadline = time.Now().Add(time.Duration(minutes) * time.Minute)
	t.wg.Go(func() { t.countdown(gen, stop) })
	t.mu.Unlock()

	t.notify(Notice{
		Title: "Timer Set",
		Body:  fmt.Sprintf("Playback will stop in %d minute%s.", minutes, plural(minutes)),
	})
	return nil
}

// Cancel disarms the timer. Does nothing when idle.
func (t *SleepTimer) Cancel() {
	t.mu.Lock()
	if t.state != TimerArmed {
		t.mu.Unlock()
		return
	}
	t.resetLocked()
	t.mu.Unlock()

	t.notify(Notice{Title: "Timer Cancelled", Body: "The sleep timer has been cancelled."})
}

// Stop disarms the timer silently and waits for the countdown goroutine.
func (t *SleepTimer) Stop() {
	t.mu.Lock()
	if t.state == TimerArmed {
		t.resetLocked()
	}
	t.mu.Unlock()
	t.wg.Wait()
}

func (t *SleepTimer) countdown(gen int, stop <-chan struct{}) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			t.mu.Lock()
			due := t.gen == gen && !now.Before(t.deadline)
			t.mu.Unlock()
			if due {
				t.expire(gen)
				return
			}
		}
	}
}

func (t *SleepTimer) expire(gen int) {
	t.mu.Lock()
	if t.gen != gen || t.state != TimerArmed {
		t.mu.Unlock()
		return
	}
	t.resetLocked()
	t.mu.Unlock()

	if t.playback.Snapshot().Playing {
		t.playback.TogglePlay()
	}
	t.notify(Notice{Title: "Timer Ended", Body: "Playback has been stopped."})
}

// resetLocked returns to idle, clearing duration and deadline.
func (t *SleepTimer) resetLocked() {
	t.stopLocked()
	t.gen++
	t.state = TimerIdle
	t.duration = 0
	t.deadline = time.Time{}
}

func (t *SleepTimer) stopLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *SleepTimer) notify(n Notice) {
	if t.notifier != nil {
		t.notifier.Notify(n)
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// FormatRemaining renders d as m:ss, or h:mm:ss from one hour.
func FormatRemaining(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	s := int(d/time.Second) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
