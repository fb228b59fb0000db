package notify

import (
	"context"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/wavecast/internal/playback"
)

const (
	trackIcon    = "audio-x-generic"
	trackTimeout = 5 * time.Second
)

// TrackWatcher posts a notification each time a new track starts and
// withdraws it when playback stops. Successive notifications replace each
// other.
type TrackWatcher struct {
	notifier Notifier
	logger   *log.Entry

	mu     sync.Mutex
	lastID uint32
}

// NewTrackWatcher creates a watcher that sends through n.
func NewTrackWatcher(n Notifier) *TrackWatcher {
	return &TrackWatcher{
		notifier: n,
		logger:   log.WithField("module", "notify"),
	}
}

// Run consumes coordinator events until ctx is cancelled or sub is closed.
func (w *TrackWatcher) Run(ctx context.Context, sub *playback.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case tc := <-sub.TrackChanged:
			if tc.Current != nil {
				w.TrackStarted(*tc.Current)
			}
		case sc := <-sub.StateChanged:
			if sc.Current == playback.StateStopped || sc.Current == playback.StateIdle {
				w.Stopped()
			}
		}
	}
}

// TrackStarted sends the now-playing notification for t.
func (w *TrackWatcher) TrackStarted(t playback.Track) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id, err := w.notifier.Notify(TrackNotification(t, w.lastID))
	if err != nil {
		w.logger.WithError(err).WithField("track", t.ID).Debug("notification failed")
		return
	}
	if id != 0 {
		w.lastID = id
	}
}

// Stopped withdraws the current notification, if any.
func (w *TrackWatcher) Stopped() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.lastID == 0 {
		return
	}
	if err := w.notifier.Close(w.lastID); err != nil {
		w.logger.WithError(err).Debug("closing notification failed")
	}
	w.lastID = 0
}

// TrackNotification builds the notification shown when t starts. The cover
// is attached as an image when the track has one.
func TrackNotification(t playback.Track, replaces uint32) Notification {
	var body []string
	if t.Artist != "" {
		body = append(body, t.Artist)
	}
	if t.Album != "" {
		body = append(body, t.Album)
	}
	summary := t.Title
	if summary == "" {
		summary = t.ID
	}
	return Notification{
		Summary:   summary,
		Body:      strings.Join(body, " - "),
		Icon:      trackIcon,
		Image:     t.CoverURL,
		Category:  CategoryMusic,
		Transient: true,
		Timeout:   trackTimeout,
		Replaces:  replaces,
		Urgency:   UrgencyLow,
	}
}
