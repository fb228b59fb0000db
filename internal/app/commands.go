package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/state"
)

// watchEvents waits for the next coordinator event.
func watchEvents(sub *playback.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return StateChangedMsg(e)
		case e := <-sub.TrackChanged:
			return TrackChangedMsg(e)
		case e := <-sub.PositionChanged:
			return PositionChangedMsg(e)
		case e := <-sub.QueueChanged:
			return QueueChangedMsg(e)
		case e := <-sub.Error:
			return PlaybackErrorMsg(e)
		case <-sub.Done:
			return ServiceClosedMsg{}
		}
	}
}

// waitForChannel converts the next value of ch into a message.
// onResult receives false once ch is closed.
func waitForChannel[T any](ch <-chan T, onResult func(T, bool) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		v, ok := <-ch
		return onResult(v, ok)
	}
}

func watchStderr(ch <-chan string) tea.Cmd {
	return waitForChannel(ch, func(line string, ok bool) tea.Msg {
		if !ok {
			return nil
		}
		return StderrMsg{Line: line}
	})
}

func searchCmd(c Catalog, query string) tea.Cmd {
	return func() tea.Msg {
		tracks, err := c.Search(context.Background(), query)
		return SearchResultMsg{Query: query, Tracks: tracks, Err: err}
	}
}

func loadFavoritesCmd(store state.FavoriteStore) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		favs, err := store.Favorites()
		return FavoritesLoadedMsg{Favorites: favs, Err: err}
	}
}

func toggleFavoriteCmd(store state.FavoriteStore, t playback.Track) tea.Cmd {
	return func() tea.Msg {
		liked, err := store.ToggleFavorite(t)
		return FavoriteToggledMsg{Track: t, Liked: liked, Err: err}
	}
}

// transportCmd runs a coordinator operation off the update loop, since
// loading a track fetches it over the network. The result arrives as events.
func transportCmd(op func(context.Context)) tea.Cmd {
	return func() tea.Msg {
		op(context.Background())
		return nil
	}
}
