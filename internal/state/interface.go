// internal/state/interface.go
package state

import (
	"database/sql"
	"time"

	"github.com/llehouerou/wavecast/internal/playback"
)

// FavoriteStore is the liked-tracks store.
type FavoriteStore interface {
	Favorites() ([]Favorite, error)
	SaveFavorites(favs []Favorite) error
	ToggleFavorite(track playback.Track) (bool, error)
	IsFavorite(trackID string) (bool, error)
}

// SessionStore stores the catalog account session.
type SessionStore interface {
	Session() (*Session, error)
	SaveSession(s Session) (Session, error)
	ClearSession() error
	DeviceID() (string, error)
}

// ScrobbleStore stores the Last.fm link and the scrobble retry queue.
type ScrobbleStore interface {
	GetLastfmSession() (*LastfmSession, error)
	SaveLastfmSession(username, sessionKey string) error
	DeleteLastfmSession() error
	AddPendingScrobble(s PendingScrobble) error
	GetPendingScrobbles() ([]PendingScrobble, error)
	DeletePendingScrobble(id int64) error
	UpdatePendingScrobbleAttempt(id int64, errMsg string) error
	DeleteOldPendingScrobbles(maxAge time.Duration) error
}

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	FavoriteStore
	SessionStore
	ScrobbleStore
	DB() *sql.DB
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
