//go:build linux

package mpris

import (
	"context"
	"testing"
	"time"

	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/player"
)

func newTestAdapter(t *testing.T) (*playerAdapter, *playback.Coordinator) {
	t.Helper()
	c := playback.New(player.NewMock())
	t.Cleanup(func() { _ = c.Close() })
	return &playerAdapter{service: c}, c
}

func track(id string) playback.Track {
	return playback.Track{
		ID:       id,
		Title:    "Song " + id,
		Artist:   "Band",
		Album:    "Record",
		Duration: 3 * time.Minute,
		CoverURL: "https://cdn.example.com/" + id + ".jpg",
		AudioURL: "https://cdn.example.com/" + id + ".mp3",
	}
}

func TestPlaybackStatus(t *testing.T) {
	p, c := newTestAdapter(t)
	ctx := context.Background()

	status, _ := p.PlaybackStatus()
	assert.Equal(t, types.PlaybackStatusStopped, status)

	c.Play(ctx, track("a"))
	status, _ = p.PlaybackStatus()
	assert.Equal(t, types.PlaybackStatusPlaying, status)

	require.NoError(t, p.PlayPause())
	status, _ = p.PlaybackStatus()
	assert.Equal(t, types.PlaybackStatusPaused, status)

	require.NoError(t, p.Stop())
	status, _ = p.PlaybackStatus()
	assert.Equal(t, types.PlaybackStatusStopped, status)
}

func TestPlay(t *testing.T) {
	p, c := newTestAdapter(t)

	// Nothing loaded: starts the queue.
	c.SetQueue([]playback.Track{track("a"), track("b")})
	require.NoError(t, p.Play())
	assert.Equal(t, "a", c.CurrentTrack().ID)

	require.NoError(t, p.Pause())
	require.NoError(t, p.Play())
	assert.Equal(t, playback.StatePlaying, c.Snapshot().State)

	require.NoError(t, p.Stop())
	require.NoError(t, p.Play())
	assert.Equal(t, playback.StatePlaying, c.Snapshot().State)
	assert.Equal(t, "a", c.CurrentTrack().ID)
}

func TestNextPrevious(t *testing.T) {
	p, c := newTestAdapter(t)
	c.SetQueue([]playback.Track{track("a"), track("b"), track("c")})

	ok, _ := p.CanGoNext()
	assert.False(t, ok)

	c.Play(context.Background(), track("a"))
	ok, _ = p.CanGoNext()
	assert.True(t, ok)
	ok, _ = p.CanGoPrevious()
	assert.True(t, ok)

	require.NoError(t, p.Next())
	assert.Equal(t, "b", c.CurrentTrack().ID)
	require.NoError(t, p.Previous())
	require.NoError(t, p.Previous())
	assert.Equal(t, "c", c.CurrentTrack().ID)
}

func TestMetadata(t *testing.T) {
	p, c := newTestAdapter(t)

	meta, err := p.Metadata()
	require.NoError(t, err)
	assert.Empty(t, meta.Title)

	c.Play(context.Background(), track("a"))
	meta, err = p.Metadata()
	require.NoError(t, err)
	assert.Equal(t, "Song a", meta.Title)
	assert.Equal(t, []string{"Band"}, meta.Artist)
	assert.Equal(t, "Record", meta.Album)
	assert.Equal(t, "https://cdn.example.com/a.jpg", meta.ArtUrl)
	assert.Equal(t, types.Microseconds((3 * time.Minute).Microseconds()), meta.Length)
	assert.Equal(t, formatTrackID("a"), string(meta.TrackId))
}

func TestSeek(t *testing.T) {
	p, c := newTestAdapter(t)
	c.Play(context.Background(), track("a"))

	require.NoError(t, p.SetPosition(formatTrackID("a"), types.Microseconds(time.Minute.Microseconds())))
	pos, _ := p.Position()
	assert.Equal(t, time.Minute.Microseconds(), pos)

	require.NoError(t, p.Seek(types.Microseconds((10 * time.Second).Microseconds())))
	pos, _ = p.Position()
	assert.Equal(t, (70 * time.Second).Microseconds(), pos)

	// Stale track id is ignored.
	require.NoError(t, p.SetPosition(formatTrackID("b"), 0))
	pos, _ = p.Position()
	assert.Equal(t, (70 * time.Second).Microseconds(), pos)
}

func TestFormatTrackID(t *testing.T) {
	assert.Equal(t, formatTrackID("a"), formatTrackID("a"))
	assert.NotEqual(t, formatTrackID("a"), formatTrackID("b"))
	assert.Contains(t, formatTrackID("a"), "/org/mpris/MediaPlayer2/Track/")
}
