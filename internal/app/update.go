package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/keymap"
	"github.com/llehouerou/wavecast/internal/lastfm"
	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/playlist"
	"github.com/llehouerou/wavecast/internal/ui/lastfmauth"
	"github.com/llehouerou/wavecast/internal/ui/playerbar"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SearchResultMsg:
		return m.handleSearchResult(msg), nil
	case FavoritesLoadedMsg:
		return m.handleFavoritesLoaded(msg), nil
	case FavoriteToggledMsg:
		return m.handleFavoriteToggled(msg)

	case StateChangedMsg, PositionChangedMsg:
		m.snap = m.service.Snapshot()
		return m, watchEvents(m.sub)
	case TrackChangedMsg:
		m.snap = m.service.Snapshot()
		m.errMsg = ""
		return m, watchEvents(m.sub)
	case QueueChangedMsg:
		m.lists[ViewQueue].SetTracks(msg.Tracks)
		return m, watchEvents(m.sub)
	case PlaybackErrorMsg:
		m.snap = m.service.Snapshot()
		m.errMsg = m.playbackError(playback.ErrorEvent(msg))
		return m, watchEvents(m.sub)
	case ServiceClosedMsg:
		m.sub = nil
		return m, nil

	case StderrMsg:
		m.errMsg = msg.Line
		return m, watchStderr(m.stderr)

	case lastfm.TokenResultMsg, lastfm.TokenReceivedMsg, lastfm.SessionResultMsg, lastfmauth.ActionMsg:
		return m.handleLastfmMsg(msg)
	}

	if m.focus == FocusSearch {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// layout sizes the lists to the space left by the header, search line,
// player bar and status line.
func (m *Model) layout() {
	m.search.Width = max(m.width-4, 10)
	h := max(m.height-3-playerbar.Height, 0)
	for i := range m.lists {
		m.lists[i].SetSize(m.width, h)
	}
	m.lastfmPanel.SetSize(min(m.width, 70), 0)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.stopAuthServer()
		return m, tea.Quit
	}

	if m.lastfmOpen {
		return m, m.lastfmPanel.HandleKey(msg)
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.focus == FocusSearch {
		return m.handleSearchKey(msg)
	}

	return m.handleAction(m.keys.Resolve(msg.String()))
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type { //nolint:exhaustive // remaining keys go to the input
	case tea.KeyEsc, tea.KeyTab:
		m.setFocus(FocusList)
		return m, nil
	case tea.KeyEnter:
		m.query = strings.TrimSpace(m.search.Value())
		m.setView(ViewResults)
		m.setFocus(FocusList)
		if m.query == "" {
			m.lists[ViewResults].SetTracks(nil)
			m.status = ""
			return m, nil
		}
		m.searching = true
		m.status = "Searching..."
		return m, searchCmd(m.catalog, m.query)
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleAction(a keymap.Action) (tea.Model, tea.Cmd) {
	svc := m.service
	list := m.list()

	switch a { //nolint:exhaustive // unbound keys resolve to ""
	case keymap.ActionQuit:
		m.stopAuthServer()
		return m, tea.Quit
	case keymap.ActionSwitchFocus, keymap.ActionSearch:
		m.setView(ViewResults)
		m.setFocus(FocusSearch)
		return m, textinput.Blink
	case keymap.ActionViewResults:
		m.setView(ViewResults)
	case keymap.ActionViewFavorites:
		m.setView(ViewFavorites)
	case keymap.ActionViewQueue:
		m.setView(ViewQueue)
	case keymap.ActionHelp:
		m.showHelp = true
	case keymap.ActionLastfm:
		return m.openLastfm()

	case keymap.ActionPlayPause:
		return m, transportCmd(svc.Toggle)
	case keymap.ActionStop:
		return m, transportCmd(svc.Stop)
	case keymap.ActionNextTrack:
		return m, transportCmd(svc.Next)
	case keymap.ActionPrevTrack:
		return m, transportCmd(svc.Previous)
	case keymap.ActionSeekForward:
		return m, transportCmd(func(ctx context.Context) { svc.SeekBy(ctx, seekStep) })
	case keymap.ActionSeekBack:
		return m, transportCmd(func(ctx context.Context) { svc.SeekBy(ctx, -seekStep) })

	case keymap.ActionMoveUp:
		list.Move(-1)
	case keymap.ActionMoveDown:
		list.Move(1)
	case keymap.ActionJumpStart:
		list.JumpStart()
	case keymap.ActionJumpEnd:
		list.JumpEnd()
	case keymap.ActionPageUp:
		list.Move(-max(list.PageSize(), 1))
	case keymap.ActionPageDown:
		list.Move(max(list.PageSize(), 1))

	case keymap.ActionSelect:
		return m.playSelected(false)
	case keymap.ActionShufflePlay:
		return m.playSelected(true)
	case keymap.ActionToggleFavorite:
		return m.toggleFavorite()
	}
	return m, nil
}

// playSelected plays the list from the cursor. In the queue view the
// queue is kept as is; elsewhere the list replaces it.
func (m Model) playSelected(shuffle bool) (tea.Model, tea.Cmd) {
	list := m.list()
	t, ok := list.Selected()
	if !ok {
		return m, nil
	}
	if !t.Playable() {
		m.errMsg = fmt.Sprintf("'%s' is not available for streaming", t.Title)
		return m, nil
	}

	svc := m.service
	if m.view == ViewQueue && !shuffle {
		return m, transportCmd(func(ctx context.Context) { svc.Play(ctx, t) })
	}

	tracks := append([]playback.Track(nil), list.Tracks()...)
	index := list.Index()
	if shuffle {
		tracks = playlist.ShuffledFrom(tracks, t.ID, m.rng)
		index = 0
	}
	return m, transportCmd(func(ctx context.Context) { svc.PlayQueue(ctx, tracks, index) })
}

// toggleFavorite likes or unlikes the selected track, or the current
// track when the list is empty.
func (m Model) toggleFavorite() (tea.Model, tea.Cmd) {
	if m.favStore == nil {
		return m, nil
	}
	t, ok := m.list().Selected()
	if !ok {
		cur := m.snap.Current
		if cur == nil {
			return m, nil
		}
		t = *cur
	}
	return m, toggleFavoriteCmd(m.favStore, t)
}

func (m Model) handleSearchResult(msg SearchResultMsg) Model {
	if msg.Query != m.query {
		return m
	}
	m.searching = false
	if msg.Err != nil {
		m.status = ""
		m.errMsg = errmsg.FormatWith(errmsg.OpCatalogSearch, msg.Query, msg.Err)
		return m
	}
	results := &m.lists[ViewResults]
	results.SetTracks(msg.Tracks)
	results.JumpStart()
	results.SetTitle(fmt.Sprintf("Results for %q", msg.Query))
	m.status = fmt.Sprintf("%d tracks", len(msg.Tracks))
	m.errMsg = ""
	return m
}

func (m Model) handleFavoritesLoaded(msg FavoritesLoadedMsg) Model {
	if msg.Err != nil {
		m.errMsg = errmsg.Format(errmsg.OpFavoriteLoad, msg.Err)
		return m
	}
	m.favorites = make(map[string]time.Time, len(msg.Favorites))
	tracks := make([]playback.Track, len(msg.Favorites))
	for i, f := range msg.Favorites {
		m.favorites[f.Track.ID] = f.LikedAt
		tracks[i] = f.Track
	}
	m.lists[ViewFavorites].SetTracks(tracks)
	return m
}

func (m Model) handleFavoriteToggled(msg FavoriteToggledMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.errMsg = errmsg.FormatWith(errmsg.OpFavoriteToggle, msg.Track.Title, msg.Err)
		return m, nil
	}
	if msg.Liked {
		m.status = "Liked " + msg.Track.Title
	} else {
		m.status = "Removed " + msg.Track.Title + " from favorites"
	}
	return m, loadFavoritesCmd(m.favStore)
}

func (m Model) playbackError(e playback.ErrorEvent) string {
	target := e.TrackID
	if cur := m.snap.Current; cur != nil && cur.ID == e.TrackID {
		target = cur.Title
	}
	return errmsg.FormatWith(errmsg.PlaybackOp(e.Op), target, e.Err)
}
