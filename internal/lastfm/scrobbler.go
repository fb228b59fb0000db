package lastfm

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/state"
)

const (
	// RetryInterval is how often queued scrobbles are resubmitted.
	RetryInterval = 5 * time.Minute

	maxAttempts   = 10
	maxPendingAge = 14 * 24 * time.Hour

	// Position jumps larger than this are seeks, not listening time.
	maxPositionStep = 5 * time.Second
)

// Scrobbler follows coordinator events and reports plays to Last.fm.
// Scrobbles that fail are queued in the store and retried later.
type Scrobbler struct {
	api    API
	store  state.ScrobbleStore
	logger *log.Entry
	now    func() time.Time

	mu      sync.Mutex
	current *playback.Track
	st      ScrobbleState
}

// NewScrobbler creates a scrobbler.
func NewScrobbler(api API, store state.ScrobbleStore) *Scrobbler {
	return &Scrobbler{
		api:    api,
		store:  store,
		logger: log.WithFields(log.Fields{"module": "lastfm"}),
		now:    time.Now,
	}
}

// Run consumes events from sub until ctx is cancelled or the subscription
// is closed. Pending scrobbles are retried on start and every RetryInterval.
func (s *Scrobbler) Run(ctx context.Context, sub *playback.Subscription) {
	retry := time.NewTicker(RetryInterval)
	defer retry.Stop()

	s.retryAndLog()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case tc := <-sub.TrackChanged:
			s.TrackChanged(tc.Current)
		case pc := <-sub.PositionChanged:
			s.PositionChanged(pc.Position)
		case <-retry.C:
			s.retryAndLog()
		}
	}
}

// TrackChanged resets the listening state and sends "now playing".
func (s *Scrobbler) TrackChanged(t *playback.Track) {
	s.mu.Lock()
	if t == nil {
		s.current = nil
		s.st = ScrobbleState{}
		s.mu.Unlock()
		return
	}
	cur := *t
	started := s.now()
	s.current = &cur
	s.st = ScrobbleState{TrackID: cur.ID, StartedAt: started}
	s.mu.Unlock()

	if !Scrobbleable(cur) || !s.api.IsAuthenticated() {
		return
	}

	err := s.api.UpdateNowPlaying(FromTrack(cur, started))
	if err != nil {
		s.logger.WithError(err).WithField("track", cur.ID).Warn("now playing update failed")
		return
	}

	s.mu.Lock()
	if s.st.TrackID == cur.ID {
		s.st.NowPlayingSent = true
	}
	s.mu.Unlock()
}

// PositionChanged accumulates listening time and scrobbles the current
// track once the threshold is reached.
func (s *Scrobbler) PositionChanged(pos time.Duration) {
	s.mu.Lock()
	if s.current == nil || s.st.Scrobbled {
		s.mu.Unlock()
		return
	}
	delta := pos - s.st.LastPosition
	if delta > 0 && delta <= maxPositionStep {
		s.st.Listened += delta
	}
	s.st.LastPosition = pos

	t := *s.current
	if !Scrobbleable(t) || s.st.Listened < Threshold(t.Duration) {
		s.mu.Unlock()
		return
	}
	s.st.Scrobbled = true
	track := FromTrack(t, s.st.StartedAt)
	s.mu.Unlock()

	s.submit(track)
}

// State returns the scrobble state of the current track.
func (s *Scrobbler) State() ScrobbleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}

func (s *Scrobbler) submit(track ScrobbleTrack) {
	err := ErrNotAuthenticated
	if s.api.IsAuthenticated() {
		err = s.api.Scrobble(track)
	}
	if err == nil {
		return
	}

	s.logger.WithError(err).WithField("track", track.Track).Warn("scrobble failed, queued for retry")
	qerr := s.store.AddPendingScrobble(state.PendingScrobble{
		Artist:       track.Artist,
		Track:        track.Track,
		Album:        track.Album,
		DurationSecs: int(track.Duration.Seconds()),
		Timestamp:    track.Timestamp,
	})
	if qerr != nil {
		s.logger.WithError(qerr).Error("queue scrobble")
	}
}

// RetryPending resubmits queued scrobbles in batches.
func (s *Scrobbler) RetryPending() (succeeded, failed int, err error) {
	if !s.api.IsAuthenticated() {
		return 0, 0, nil
	}
	if err := s.store.DeleteOldPendingScrobbles(maxPendingAge); err != nil {
		return 0, 0, err
	}

	pending, err := s.store.GetPendingScrobbles()
	if err != nil {
		return 0, 0, err
	}

	var retry []state.PendingScrobble
	for _, p := range pending {
		if p.Attempts < maxAttempts {
			retry = append(retry, p)
		}
	}

	for start := 0; start < len(retry); start += MaxBatch {
		batch := retry[start:min(start+MaxBatch, len(retry))]
		tracks := make([]ScrobbleTrack, len(batch))
		for i, p := range batch {
			tracks[i] = ScrobbleTrack{
				Artist:    p.Artist,
				Track:     p.Track,
				Album:     p.Album,
				Duration:  time.Duration(p.DurationSecs) * time.Second,
				Timestamp: p.Timestamp,
			}
		}

		if berr := s.api.ScrobbleBatch(tracks); berr != nil {
			failed += len(batch)
			for _, p := range batch {
				_ = s.store.UpdatePendingScrobbleAttempt(p.ID, berr.Error())
			}
			continue
		}
		succeeded += len(batch)
		for _, p := range batch {
			_ = s.store.DeletePendingScrobble(p.ID)
		}
	}

	return succeeded, failed, nil
}

func (s *Scrobbler) retryAndLog() {
	ok, failed, err := s.RetryPending()
	if err != nil {
		s.logger.WithError(err).Warn("retry pending scrobbles")
		return
	}
	if ok+failed > 0 {
		s.logger.WithFields(log.Fields{"succeeded": ok, "failed": failed}).Info("retried pending scrobbles")
	}
}
