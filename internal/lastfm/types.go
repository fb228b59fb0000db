package lastfm

import (
	"time"

	"github.com/llehouerou/wavecast/internal/playback"
)

const (
	// MinTrackLength is the shortest track Last.fm accepts scrobbles for.
	MinTrackLength = 30 * time.Second
	// MaxScrobbleThreshold caps the listening time required before scrobbling.
	MaxScrobbleThreshold = 4 * time.Minute
)

// ScrobbleTrack contains track metadata for scrobbling.
type ScrobbleTrack struct {
	Artist    string
	Track     string
	Album     string
	Duration  time.Duration
	Timestamp time.Time // When playback started
}

// FromTrack builds the scrobble payload for a catalog track.
func FromTrack(t playback.Track, startedAt time.Time) ScrobbleTrack {
	return ScrobbleTrack{
		Artist:    t.Artist,
		Track:     t.Title,
		Album:     t.Album,
		Duration:  t.Duration,
		Timestamp: startedAt,
	}
}

// Scrobbleable reports whether a track can be scrobbled at all.
func Scrobbleable(t playback.Track) bool {
	return t.Artist != "" && t.Title != "" && t.Duration >= MinTrackLength
}

// Threshold returns how long a track of the given duration must be listened
// to before it is scrobbled: half its length, at most four minutes.
func Threshold(duration time.Duration) time.Duration {
	return min(duration/2, MaxScrobbleThreshold)
}

// ScrobbleState tracks the scrobbling status of the current track.
type ScrobbleState struct {
	TrackID        string        // ID of current track (for dedup)
	StartedAt      time.Time     // When playback started
	Listened       time.Duration // Playback time accumulated so far
	LastPosition   time.Duration // Position of the previous update
	Scrobbled      bool          // Whether this track has been scrobbled
	NowPlayingSent bool          // Whether now playing was sent
}
