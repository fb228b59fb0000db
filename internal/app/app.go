// Package app is the terminal UI: search the catalog, browse favorites
// and the queue, and drive the playback coordinator.
package app

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavecast/internal/keymap"
	"github.com/llehouerou/wavecast/internal/lastfm"
	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/state"
	"github.com/llehouerou/wavecast/internal/ui/lastfmauth"
	"github.com/llehouerou/wavecast/internal/ui/tracklist"
)

// seekStep is the relative seek applied by the seek keys.
const seekStep = 5 * time.Second

// Catalog is the part of the catalog client the UI searches with.
type Catalog interface {
	Search(ctx context.Context, query string) ([]playback.Track, error)
}

// Deps are the services the UI drives. Lastfm and Stderr may be nil.
type Deps struct {
	Service     playback.Service
	Catalog     Catalog
	Favorites   state.FavoriteStore
	Lastfm      *lastfm.Client
	LastfmStore state.ScrobbleStore
	Stderr      <-chan string

	// LastfmCallback is the callback server address; empty uses the default.
	LastfmCallback string
}

// ViewMode selects which list fills the main area.
type ViewMode int

const (
	ViewResults ViewMode = iota
	ViewFavorites
	ViewQueue
)

// FocusTarget is the component receiving keys.
type FocusTarget int

const (
	FocusList FocusTarget = iota
	FocusSearch
)

// Model is the root application model.
type Model struct {
	service     playback.Service
	catalog     Catalog
	favStore    state.FavoriteStore
	lastfm      *lastfm.Client
	lastfmStore state.ScrobbleStore
	stderr      <-chan string

	keys *keymap.Resolver
	sub  *playback.Subscription
	rng  *rand.Rand

	search    textinput.Model
	query     string
	searching bool

	view  ViewMode
	focus FocusTarget
	lists [3]tracklist.Model

	favorites map[string]time.Time
	snap      playback.Snapshot

	status   string
	errMsg   string
	showHelp bool

	lastfmOpen  bool
	lastfmPanel lastfmauth.Model
	lastfmToken    string
	lastfmCallback string
	authServer     *lastfm.AuthServer

	width, height int
}

// New creates the model and subscribes it to the coordinator.
func New(d Deps) Model {
	in := textinput.New()
	in.Placeholder = "Search tracks"
	in.Prompt = "/ "
	in.CharLimit = 200

	m := Model{
		service:     d.Service,
		catalog:     d.Catalog,
		favStore:    d.Favorites,
		lastfm:      d.Lastfm,
		lastfmStore: d.LastfmStore,
		stderr:      d.Stderr,
		keys:        keymap.NewResolver(keymap.Bindings),
		sub:         d.Service.Subscribe(),
		rng:         rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)), //nolint:gosec // shuffle order
		search:      in,
		favorites:   make(map[string]time.Time),
		snap:        d.Service.Snapshot(),
		lists: [3]tracklist.Model{
			tracklist.New("Results"),
			tracklist.New("Favorites"),
			tracklist.New("Queue"),
		},
		lastfmPanel:    lastfmauth.New(),
		lastfmCallback: d.LastfmCallback,
	}
	m.lists[ViewQueue].SetTracks(d.Service.Queue())
	m.setFocus(FocusList)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		watchEvents(m.sub),
		loadFavoritesCmd(m.favStore),
		watchStderr(m.stderr),
	)
}

func (m *Model) list() *tracklist.Model {
	return &m.lists[m.view]
}

func (m *Model) setFocus(f FocusTarget) {
	m.focus = f
	if f == FocusSearch {
		m.search.Focus()
	} else {
		m.search.Blur()
	}
	for i := range m.lists {
		m.lists[i].SetFocused(f == FocusList && ViewMode(i) == m.view)
	}
}

func (m *Model) setView(v ViewMode) {
	m.view = v
	m.setFocus(m.focus)
}

func (m Model) favoriteNote(t playback.Track) string {
	if _, ok := m.favorites[t.ID]; ok {
		return "♥"
	}
	return ""
}

func (m Model) isFavorite(id string) bool {
	_, ok := m.favorites[id]
	return ok
}
