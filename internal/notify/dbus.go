//go:build linux

package notify

import (
	"github.com/godbus/dbus/v5"
	log "github.com/sirupsen/logrus"
)

const (
	dbusNotifyDest      = "org.freedesktop.Notifications"
	dbusNotifyPath      = "/org/freedesktop/Notifications"
	dbusNotifyInterface = "org.freedesktop.Notifications"

	appName      = "Wavecast"
	desktopEntry = "wavecast"
)

type dbusNotifier struct {
	obj dbus.BusObject
}

// New connects to the session bus. Without one it returns a notifier that
// drops everything, so callers need no special case.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		log.WithField("module", "notify").WithError(err).Debug("no session bus, notifications off")
		return noopNotifier{}, nil //nolint:nilerr // notifications are optional
	}
	return &dbusNotifier{obj: conn.Object(dbusNotifyDest, dbusNotifyPath)}, nil
}

// hints builds the freedesktop hint map for n.
func hints(n Notification) map[string]dbus.Variant {
	h := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(n.Urgency)),
		"desktop-entry": dbus.MakeVariant(desktopEntry),
	}
	if n.Image != "" {
		h["image-path"] = dbus.MakeVariant(n.Image)
	}
	if n.Category != "" {
		h["category"] = dbus.MakeVariant(n.Category)
	}
	if n.Transient {
		h["transient"] = dbus.MakeVariant(true)
	}
	return h
}

func (d *dbusNotifier) Notify(n Notification) (uint32, error) {
	// Notify(app_name, replaces_id, app_icon, summary, body, actions, hints, expire_timeout) -> id
	call := d.obj.Call(
		dbusNotifyInterface+".Notify", 0,
		appName,
		n.Replaces,
		n.Icon,
		n.Summary,
		n.Body,
		[]string{},
		hints(n),
		n.expireTimeout(),
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

func (d *dbusNotifier) Close(id uint32) error {
	return d.obj.Call(dbusNotifyInterface+".CloseNotification", 0, id).Err
}
