package keymap

// Binding maps keys to an action. Context groups bindings in the help view.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "list"
}

// Bindings contains every key binding.
var Bindings = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionSwitchFocus, []string{"tab"}, "Switch focus", "global"},
	{ActionSearch, []string{"/"}, "Search", "global"},
	{ActionViewResults, []string{"1", "f1"}, "Search results", "global"},
	{ActionViewFavorites, []string{"2", "f2"}, "Favorites", "global"},
	{ActionViewQueue, []string{"3", "f3"}, "Queue", "global"},
	{ActionLastfm, []string{"L"}, "Last.fm account", "global"},
	{ActionHelp, []string{"?"}, "Show help", "global"},

	// Playback
	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionStop, []string{"s"}, "Stop", "playback"},
	{ActionNextTrack, []string{"n", "pgdown"}, "Next track", "playback"},
	{ActionPrevTrack, []string{"p", "pgup"}, "Previous track", "playback"},
	{ActionSeekBack, []string{"shift+left", "<"}, "Seek -5s", "playback"},
	{ActionSeekForward, []string{"shift+right", ">"}, "Seek +5s", "playback"},

	// List
	{ActionMoveUp, []string{"k", "up"}, "Move up", "list"},
	{ActionMoveDown, []string{"j", "down"}, "Move down", "list"},
	{ActionJumpStart, []string{"g", "home"}, "First item", "list"},
	{ActionJumpEnd, []string{"G", "end"}, "Last item", "list"},
	{ActionPageUp, []string{"ctrl+u"}, "Page up", "list"},
	{ActionPageDown, []string{"ctrl+d"}, "Page down", "list"},
	{ActionSelect, []string{"enter"}, "Play from here", "list"},
	{ActionShufflePlay, []string{"S"}, "Shuffle play", "list"},
	{ActionToggleFavorite, []string{"f"}, "Like/unlike", "list"},
}

// Contexts lists binding contexts in display order.
var Contexts = []string{"global", "playback", "list"}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, b := range Bindings {
		if b.Context == context {
			result = append(result, b)
		}
	}
	return result
}
