package playback

import "time"

// StateChange is emitted when the playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when a new track has been loaded and started.
//
// Emitted by Play, Next, Previous and the automatic advance on completion.
// Not emitted by SetQueue, Pause, Resume, Stop or Seek.
type TrackChange struct {
	Previous *Track
	Current  *Track
}

// QueueChange is emitted when the queue is replaced.
type QueueChange struct {
	Tracks []Track
}

// PositionChange is emitted on engine status updates and seeks.
type PositionChange struct {
	Position time.Duration
	Duration time.Duration
}

// ErrorEvent describes a failure the coordinator swallowed.
type ErrorEvent struct {
	Op      string // e.g. "load", "pause", "seek"
	TrackID string // empty if no track was involved
	Err     error
	At      time.Time
}

// Error implements the error interface so the event can be reported as-is.
func (e ErrorEvent) Error() string {
	if e.TrackID == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.TrackID + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e ErrorEvent) Unwrap() error { return e.Err }
