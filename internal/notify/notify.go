// Package notify shows desktop notifications over the freedesktop
// notifications interface.
package notify

import (
	"errors"
	"math"
	"time"
)

// ErrUnavailable is returned by New when no notification service can be reached.
var ErrUnavailable = errors.New("desktop notifications unavailable")

// Urgency levels of the freedesktop notifications interface.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification is one desktop notice.
type Notification struct {
	Title      string
	Body       string
	Icon       string // icon name or image path
	Timeout    time.Duration
	ReplacesID uint32 // 0 opens a new notification
	Urgency    Urgency
}

// Notifier delivers notifications and closes them by id.
type Notifier interface {
	Notify(n Notification) (uint32, error)
	Close(id uint32) error
}

// Discard accepts every notification and shows nothing.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Notification) (uint32, error) { return 0, nil }
func (discard) Close(uint32) error                  { return nil }

// expireMillis converts a timeout to the wire value: -1 lets the server
// decide, 0 never expires.
func expireMillis(d time.Duration) int32 {
	if d < 0 {
		return -1
	}
	return int32(min(d.Milliseconds(), math.MaxInt32))
}
