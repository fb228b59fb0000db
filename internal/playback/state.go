// internal/playback/state.go
package playback

import "time"

// State is the coordinator's playback state.
//
//	Idle ──play──▶ Loading ──ok──▶ Playing ◀──resume── Paused
//	  ▲              │                │ ──────pause──────▶ │
//	  └────failed────┘                └──stop──▶ Stopped ◀─┘
//
// Play is accepted from every state, including Loading and Stopped.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
	StatePaused
	StateStopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateLoading:
		return "Loading"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// HasHandle returns true for states in which an engine handle is live.
func (s State) HasHandle() bool {
	return s == StatePlaying || s == StatePaused
}

// Snapshot is a point-in-time copy of the playback state.
type Snapshot struct {
	State    State
	Current  *Track
	Playing  bool
	Position time.Duration
	Duration time.Duration

	// Generation identifies the live handle; it increases on every load and release.
	Generation uint64

	// LastError is the most recent swallowed failure, or nil.
	LastError *ErrorEvent
}
