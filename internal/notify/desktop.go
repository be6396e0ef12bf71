package notify

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultIcon    = "audio-volume-high"
	defaultTimeout = 5 * time.Second
)

// Desktop shows one-line notices as desktop notifications. Each notice
// replaces the previous one so timer updates do not pile up.
type Desktop struct {
	n   Notifier
	log logrus.FieldLogger

	mu   sync.Mutex
	last uint32
}

// NewDesktop wraps n. A nil n disables delivery.
func NewDesktop(n Notifier, log logrus.FieldLogger) *Desktop {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Desktop{n: n, log: log}
}

// Send shows title and body. Delivery failures are logged.
func (d *Desktop) Send(title, body string) {
	if d == nil || d.n == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	id, err := d.n.Notify(Notification{
		Title:      title,
		Body:       body,
		Icon:       defaultIcon,
		Timeout:    defaultTimeout,
		ReplacesID: d.last,
		Urgency:    UrgencyNormal,
	})
	if err != nil {
		d.log.WithError(err).WithField("title", title).Warn("desktop notification failed")
		return
	}
	d.last = id
}

// Dismiss closes the last notification, if any.
func (d *Desktop) Dismiss() {
	if d == nil || d.n == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.last == 0 {
		return
	}
	if err := d.n.Close(d.last); err != nil {
		d.log.WithError(err).Debug("close notification failed")
	}
	d.last = 0
}
