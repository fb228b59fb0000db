package lastfm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/player"
	"github.com/llehouerou/wavecast/internal/state"
)

type fakeAPI struct {
	mu         sync.Mutex
	authed     bool
	err        error
	nowPlaying []ScrobbleTrack
	scrobbles  []ScrobbleTrack
	batches    [][]ScrobbleTrack
}

func (f *fakeAPI) IsAuthenticated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authed
}

func (f *fakeAPI) UpdateNowPlaying(t ScrobbleTrack) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nowPlaying = append(f.nowPlaying, t)
	return f.err
}

func (f *fakeAPI) Scrobble(t ScrobbleTrack) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.scrobbles = append(f.scrobbles, t)
	return nil
}

func (f *fakeAPI) ScrobbleBatch(ts []ScrobbleTrack) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, ts)
	return nil
}

func (f *fakeAPI) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeAPI) scrobbled() []ScrobbleTrack {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ScrobbleTrack(nil), f.scrobbles...)
}

func song(id string, d time.Duration) playback.Track {
	return playback.Track{
		ID:       id,
		Title:    "Song " + id,
		Artist:   "Band",
		Album:    "Record",
		Duration: d,
		AudioURL: "https://cdn.example.com/" + id + ".mp3",
	}
}

// listen feeds position updates every step up to until.
func listen(s *Scrobbler, from, until, step time.Duration) {
	for pos := from; pos <= until; pos += step {
		s.PositionChanged(pos)
	}
}

func TestThreshold(t *testing.T) {
	tests := []struct {
		duration time.Duration
		want     time.Duration
	}{
		{time.Minute, 30 * time.Second},
		{3 * time.Minute, 90 * time.Second},
		{8 * time.Minute, 4 * time.Minute},
		{20 * time.Minute, 4 * time.Minute},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Threshold(tt.duration), "Threshold(%v)", tt.duration)
	}
}

func TestScrobbleable(t *testing.T) {
	assert.True(t, Scrobbleable(song("a", 30*time.Second)))
	assert.False(t, Scrobbleable(song("a", 29*time.Second)))

	noArtist := song("a", time.Minute)
	noArtist.Artist = ""
	assert.False(t, Scrobbleable(noArtist))
}

func TestScrobbler_NowPlaying(t *testing.T) {
	api := &fakeAPI{authed: true}
	s := NewScrobbler(api, state.NewMock())

	tr := song("a", 3*time.Minute)
	s.TrackChanged(&tr)

	require.Len(t, api.nowPlaying, 1)
	assert.Equal(t, "Song a", api.nowPlaying[0].Track)
	assert.Equal(t, "Band", api.nowPlaying[0].Artist)
	assert.True(t, s.State().NowPlayingSent)
}

func TestScrobbler_ScrobblesAfterThreshold(t *testing.T) {
	api := &fakeAPI{authed: true}
	s := NewScrobbler(api, state.NewMock())

	tr := song("a", 3*time.Minute)
	s.TrackChanged(&tr)

	listen(s, 0, 89*time.Second, time.Second)
	assert.Empty(t, api.scrobbled())

	listen(s, 90*time.Second, 3*time.Minute, time.Second)
	got := api.scrobbled()
	require.Len(t, got, 1)
	assert.Equal(t, "Song a", got[0].Track)
	assert.True(t, s.State().Scrobbled)
}

func TestScrobbler_SeekDoesNotCount(t *testing.T) {
	api := &fakeAPI{authed: true}
	s := NewScrobbler(api, state.NewMock())

	tr := song("a", 3*time.Minute)
	s.TrackChanged(&tr)

	listen(s, 0, 10*time.Second, time.Second)
	s.PositionChanged(170 * time.Second) // seek near the end
	listen(s, 171*time.Second, 3*time.Minute, time.Second)

	assert.Empty(t, api.scrobbled())
	assert.Equal(t, 20*time.Second, s.State().Listened)
}

func TestScrobbler_ShortTrackNeverScrobbled(t *testing.T) {
	api := &fakeAPI{authed: true}
	s := NewScrobbler(api, state.NewMock())

	tr := song("a", 20*time.Second)
	s.TrackChanged(&tr)
	listen(s, 0, 20*time.Second, time.Second)

	assert.Empty(t, api.nowPlaying)
	assert.Empty(t, api.scrobbled())
}

func TestScrobbler_ReplayScrobblesAgain(t *testing.T) {
	api := &fakeAPI{authed: true}
	s := NewScrobbler(api, state.NewMock())

	tr := song("a", time.Minute)
	for range 2 {
		s.TrackChanged(&tr)
		listen(s, 0, time.Minute, time.Second)
	}

	assert.Len(t, api.scrobbled(), 2)
}

func TestScrobbler_FailureQueues(t *testing.T) {
	api := &fakeAPI{authed: true, err: errors.New("service unavailable")}
	store := state.NewMock()
	s := NewScrobbler(api, store)

	tr := song("a", time.Minute)
	s.TrackChanged(&tr)
	listen(s, 0, time.Minute, time.Second)

	pending, _ := store.GetPendingScrobbles()
	require.Len(t, pending, 1)
	assert.Equal(t, "Song a", pending[0].Track)
	assert.Equal(t, 60, pending[0].DurationSecs)
}

func TestScrobbler_UnauthenticatedQueues(t *testing.T) {
	api := &fakeAPI{}
	store := state.NewMock()
	s := NewScrobbler(api, store)

	tr := song("a", time.Minute)
	s.TrackChanged(&tr)
	listen(s, 0, time.Minute, time.Second)

	assert.Empty(t, api.nowPlaying)
	pending, _ := store.GetPendingScrobbles()
	assert.Len(t, pending, 1)
}

func TestRetryPending(t *testing.T) {
	api := &fakeAPI{authed: true}
	store := state.NewMock()
	s := NewScrobbler(api, store)

	for i := range MaxBatch + 3 {
		_ = store.AddPendingScrobble(state.PendingScrobble{
			Artist: "Band", Track: "Song", DurationSecs: 180 + i, Timestamp: time.Now(),
		})
	}

	ok, failed, err := s.RetryPending()
	require.NoError(t, err)
	assert.Equal(t, MaxBatch+3, ok)
	assert.Equal(t, 0, failed)
	require.Len(t, api.batches, 2)
	assert.Len(t, api.batches[0], MaxBatch)
	assert.Len(t, api.batches[1], 3)

	pending, _ := store.GetPendingScrobbles()
	assert.Empty(t, pending)
}

func TestRetryPending_FailureRecordsAttempt(t *testing.T) {
	api := &fakeAPI{authed: true, err: errors.New("timeout")}
	store := state.NewMock()
	s := NewScrobbler(api, store)
	_ = store.AddPendingScrobble(state.PendingScrobble{Artist: "Band", Track: "Song", Timestamp: time.Now()})

	ok, failed, err := s.RetryPending()
	require.NoError(t, err)
	assert.Equal(t, 0, ok)
	assert.Equal(t, 1, failed)

	pending, _ := store.GetPendingScrobbles()
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].Attempts)
	assert.Equal(t, "timeout", pending[0].LastError)
}

func TestRetryPending_SkipsExhausted(t *testing.T) {
	api := &fakeAPI{authed: true}
	store := state.NewMock()
	s := NewScrobbler(api, store)
	_ = store.AddPendingScrobble(state.PendingScrobble{Artist: "Band", Track: "Song", Timestamp: time.Now()})
	pending, _ := store.GetPendingScrobbles()
	for range maxAttempts {
		_ = store.UpdatePendingScrobbleAttempt(pending[0].ID, "boom")
	}

	ok, failed, err := s.RetryPending()
	require.NoError(t, err)
	assert.Equal(t, 0, ok+failed)
	assert.Empty(t, api.batches)
}

func TestScrobbler_Run(t *testing.T) {
	api := &fakeAPI{authed: true}
	engine := player.NewMock()
	coord := playback.New(engine)
	defer coord.Close()

	s := NewScrobbler(api, state.NewMock())
	ctx, cancel := context.WithCancel(context.Background())
	sub := coord.Subscribe()
	done := make(chan struct{})
	go func() {
		s.Run(ctx, sub)
		close(done)
	}()

	tr := song("a", time.Minute)
	coord.Play(ctx, tr)
	assert.Eventually(t, func() bool { return s.State().NowPlayingSent }, time.Second, 5*time.Millisecond)

	h := engine.Last()
	for pos := time.Second; pos <= 40*time.Second; pos += time.Second {
		h.Emit(player.Status{Position: pos, Duration: time.Minute, Playing: true})
		time.Sleep(time.Millisecond)
	}
	assert.Eventually(t, func() bool { return len(api.scrobbled()) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
