// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit        Action = "quit"
	ActionSwitchFocus Action = "switch_focus"
	ActionSearch      Action = "search"
	ActionHelp        Action = "help"
	ActionLastfm      Action = "lastfm"

	// View switching
	ActionViewResults   Action = "view_results"
	ActionViewFavorites Action = "view_favorites"
	ActionViewQueue     Action = "view_queue"

	// Playback actions
	ActionPlayPause   Action = "play_pause"
	ActionStop        Action = "stop"
	ActionNextTrack   Action = "next_track"
	ActionPrevTrack   Action = "prev_track"
	ActionSeekForward Action = "seek_forward"
	ActionSeekBack    Action = "seek_back"

	// List actions
	ActionMoveUp    Action = "move_up"
	ActionMoveDown  Action = "move_down"
	ActionJumpStart Action = "jump_start"
	ActionJumpEnd   Action = "jump_end"
	ActionPageUp    Action = "page_up"
	ActionPageDown  Action = "page_down"

	ActionSelect         Action = "select"          // enter - play list from here
	ActionShufflePlay    Action = "shuffle_play"    // S
	ActionToggleFavorite Action = "toggle_favorite" // f
)
