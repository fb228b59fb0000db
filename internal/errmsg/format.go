// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Catalog operations
	OpCatalogSearch Op = "search tracks"
	OpCatalogTrack  Op = "load track"
	OpCatalogAlbum  Op = "load album"

	// Playback operations
	OpPlaybackStart  Op = "start playback"
	OpPlaybackPause  Op = "pause playback"
	OpPlaybackResume Op = "resume playback"
	OpPlaybackStop   Op = "stop playback"
	OpPlaybackSeek   Op = "seek"
	OpPlaybackUnload Op = "release audio"

	// Favorites
	OpFavoriteToggle Op = "update favorites"
	OpFavoriteLoad   Op = "load favorites"

	// Session
	OpSessionLoad  Op = "load session"
	OpSessionSave  Op = "save session"
	OpSessionClear Op = "sign out"

	// Last.fm
	OpLastfmAuth     Op = "link Last.fm account"
	OpLastfmScrobble Op = "scrobble track"

	// Remote control
	OpRemoteStart Op = "start remote control"

	// Initialization
	OpInitialize Op = "initialize application"
)

// playbackOps maps coordinator operation names to user-facing ops.
var playbackOps = map[string]Op{
	"load":   OpPlaybackStart,
	"pause":  OpPlaybackPause,
	"resume": OpPlaybackResume,
	"stop":   OpPlaybackStop,
	"seek":   OpPlaybackSeek,
	"unload": OpPlaybackUnload,
}

// PlaybackOp returns the user-facing op for a coordinator operation name.
func PlaybackOp(name string) Op {
	if op, ok := playbackOps[name]; ok {
		return op
	}
	return Op(name)
}

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
