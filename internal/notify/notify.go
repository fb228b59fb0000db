// Package notify posts now-playing desktop notifications through the
// freedesktop notification service.
package notify

import "time"

// Urgency is the freedesktop urgency level.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// CategoryMusic is the category music players use so servers can group
// and style track notifications.
const CategoryMusic = "x-gnome.music"

// Notification is one desktop notification.
type Notification struct {
	Summary string
	Body    string
	// Icon is a themed icon name shown when Image is empty or unsupported.
	Icon string
	// Image is a cover URI, sent as the image-path hint.
	Image    string
	Category string
	// Transient notifications skip the server's history.
	Transient bool
	// Timeout of zero lets the server decide.
	Timeout  time.Duration
	Replaces uint32
	Urgency  Urgency
}

// expireTimeout converts Timeout to the wire value: milliseconds, or -1
// for the server default.
func (n Notification) expireTimeout() int32 {
	if n.Timeout <= 0 {
		return -1
	}
	return int32(min(n.Timeout.Milliseconds(), int64(1<<31-1)))
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify shows n and returns its server id, or 0 when notifications
	// are unavailable.
	Notify(n Notification) (uint32, error)
	// Close withdraws the notification with the given id.
	Close(id uint32) error
}

// noopNotifier is used where no notification service exists.
type noopNotifier struct{}

func (noopNotifier) Notify(Notification) (uint32, error) { return 0, nil }
func (noopNotifier) Close(uint32) error                  { return nil }
