//go:build !linux

package notify

// New returns a notifier that drops everything; only Linux has a
// freedesktop notification service.
func New() (Notifier, error) {
	return noopNotifier{}, nil
}
