package playback

import "time"

// Track is a catalog entry handed to the coordinator. Values are never
// mutated once returned by the catalog.
type Track struct {
	ID       string
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
	CoverURL string
	AudioURL string
}

// Key returns the identifier used to locate the track in a queue.
func (t Track) Key() string { return t.ID }

// Playable reports whether the track has an audio locator.
func (t Track) Playable() bool { return t.AudioURL != "" }
