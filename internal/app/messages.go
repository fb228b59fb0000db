package app

import (
	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/state"
)

// SearchResultMsg carries catalog search results for Query.
type SearchResultMsg struct {
	Query  string
	Tracks []playback.Track
	Err    error
}

// FavoritesLoadedMsg carries the stored favorites.
type FavoritesLoadedMsg struct {
	Favorites []state.Favorite
	Err       error
}

// FavoriteToggledMsg reports the outcome of a like/unlike.
type FavoriteToggledMsg struct {
	Track playback.Track
	Liked bool
	Err   error
}

// Coordinator events, re-armed after each delivery.
type (
	StateChangedMsg    playback.StateChange
	TrackChangedMsg    playback.TrackChange
	PositionChangedMsg playback.PositionChange
	QueueChangedMsg    playback.QueueChange
	PlaybackErrorMsg   playback.ErrorEvent
)

// ServiceClosedMsg is sent once the coordinator closes the subscription.
type ServiceClosedMsg struct{}

// StderrMsg is a line written to stderr by a native library.
type StderrMsg struct {
	Line string
}
