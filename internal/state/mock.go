// internal/state/mock.go
package state

import (
	"database/sql"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/llehouerou/wavecast/internal/playback"
)

// Mock is an in-memory test double for Manager.
type Mock struct {
	mu        sync.Mutex
	favorites []Favorite
	session   *Session
	deviceID  string
	lastfm    *LastfmSession
	pending   []PendingScrobble
	nextID    int64
	closed    bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{deviceID: uuid.NewString()}
}

func (m *Mock) DB() *sql.DB { return nil }

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *Mock) Favorites() ([]Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.favorites), nil
}

func (m *Mock) SaveFavorites(favs []Favorite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.favorites = slices.Clone(favs)
	return nil
}

func (m *Mock) ToggleFavorite(track playback.Track) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var liked bool
	m.favorites, liked = toggle(m.favorites, track, time.Now())
	return liked, nil
}

func (m *Mock) IsFavorite(trackID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.ContainsFunc(m.favorites, func(f Favorite) bool { return f.Track.ID == trackID }), nil
}

func (m *Mock) Session() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, nil //nolint:nilnil // nil session means signed out
	}
	s := *m.session
	return &s, nil
}

func (m *Mock) SaveSession(s Session) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.DeviceID = m.deviceID
	s.SavedAt = time.Now()
	m.session = &s
	return s, nil
}

func (m *Mock) ClearSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}

func (m *Mock) DeviceID() (string, error) {
	return m.deviceID, nil
}

func (m *Mock) GetLastfmSession() (*LastfmSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastfm == nil {
		return nil, nil //nolint:nilnil // nil session means not linked
	}
	s := *m.lastfm
	return &s, nil
}

func (m *Mock) SaveLastfmSession(username, sessionKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastfm = &LastfmSession{Username: username, SessionKey: sessionKey, LinkedAt: time.Now()}
	return nil
}

func (m *Mock) DeleteLastfmSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastfm = nil
	return nil
}

func (m *Mock) AddPendingScrobble(s PendingScrobble) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	s.ID = m.nextID
	s.Attempts = 0
	s.LastError = ""
	s.CreatedAt = time.Now()
	m.pending = append(m.pending, s)
	return nil
}

func (m *Mock) GetPendingScrobbles() ([]PendingScrobble, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.pending), nil
}

func (m *Mock) DeletePendingScrobble(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = slices.DeleteFunc(m.pending, func(s PendingScrobble) bool { return s.ID == id })
	return nil
}

func (m *Mock) UpdatePendingScrobbleAttempt(id int64, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.pending {
		if m.pending[i].ID == id {
			m.pending[i].Attempts++
			m.pending[i].LastError = errMsg
		}
	}
	return nil
}

func (m *Mock) DeleteOldPendingScrobbles(maxAge time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-maxAge)
	m.pending = slices.DeleteFunc(m.pending, func(s PendingScrobble) bool { return s.CreatedAt.Before(cutoff) })
	return nil
}

// Test helpers

func (m *Mock) SetLastfmSession(s *LastfmSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastfm = s
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
