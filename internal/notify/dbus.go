//go:build linux

package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	busName      = "org.freedesktop.Notifications"
	busPath      = "/org/freedesktop/Notifications"
	appName      = "Hush"
	desktopEntry = "hush"
)

type busNotifier struct {
	obj dbus.BusObject
}

// New connects to the session bus.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return &busNotifier{obj: conn.Object(busName, busPath)}, nil
}

func (n *busNotifier) Notify(notif Notification) (uint32, error) {
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(notif.Urgency)),
		"desktop-entry": dbus.MakeVariant(desktopEntry),
		"category":      dbus.MakeVariant("x-hush.timer"),
	}

	// Notify(app_name, replaces_id, app_icon, summary, body, actions, hints, expire_timeout)
	call := n.obj.Call(busName+".Notify", 0,
		appName,
		notif.ReplacesID,
		notif.Icon,
		notif.Title,
		notif.Body,
		[]string{},
		hints,
		expireMillis(notif.Timeout),
	)
	if call.Err != nil {
		return 0, call.Err
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (n *busNotifier) Close(id uint32) error {
	return n.obj.Call(busName+".CloseNotification", 0, id).Err
}
