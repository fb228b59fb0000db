package state

import (
	"database/sql"
	"time"

	"github.com/llehouerou/wavecast/internal/playback"
)

// Favorite is a liked track. The list is stored and replaced as a whole.
type Favorite struct {
	Track   playback.Track
	LikedAt time.Time
}

// Favorites returns the liked tracks in the order they were saved.
func (m *Manager) Favorites() ([]Favorite, error) {
	return getFavorites(m.db)
}

// SaveFavorites replaces the stored favorites with favs.
func (m *Manager) SaveFavorites(favs []Favorite) error {
	return withTx(m.db, func(tx *sql.Tx) error {
		return replaceFavorites(tx, favs)
	})
}

// ToggleFavorite adds track to the favorites, or removes it if already
// present. It returns whether the track is liked afterwards.
func (m *Manager) ToggleFavorite(track playback.Track) (bool, error) {
	var liked bool
	err := withTx(m.db, func(tx *sql.Tx) error {
		favs, err := getFavorites(tx)
		if err != nil {
			return err
		}
		var next []Favorite
		next, liked = toggle(favs, track, time.Now())
		return replaceFavorites(tx, next)
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

// IsFavorite reports whether trackID is liked.
func (m *Manager) IsFavorite(trackID string) (bool, error) {
	var n int
	err := m.db.QueryRow(`SELECT COUNT(*) FROM favorites WHERE track_id = ?`, trackID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// toggle returns favs with track added at the front, or with it removed.
func toggle(favs []Favorite, track playback.Track, now time.Time) ([]Favorite, bool) {
	for i, f := range favs {
		if f.Track.ID == track.ID {
			next := make([]Favorite, 0, len(favs)-1)
			next = append(next, favs[:i]...)
			return append(next, favs[i+1:]...), false
		}
	}
	next := make([]Favorite, 0, len(favs)+1)
	next = append(next, Favorite{Track: track, LikedAt: now})
	return append(next, favs...), true
}

type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func getFavorites(q querier) ([]Favorite, error) {
	rows, err := q.Query(`
		SELECT track_id, title, artist, album, duration_ms, cover_url, audio_url, liked_at
		FROM favorites
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favs []Favorite
	for rows.Next() {
		var f Favorite
		var album, cover sql.NullString
		var durationMS, likedAt int64

		err := rows.Scan(
			&f.Track.ID, &f.Track.Title, &f.Track.Artist, &album,
			&durationMS, &cover, &f.Track.AudioURL, &likedAt,
		)
		if err != nil {
			return nil, err
		}

		f.Track.Album = stringValue(album)
		f.Track.CoverURL = stringValue(cover)
		f.Track.Duration = time.Duration(durationMS) * time.Millisecond
		f.LikedAt = time.Unix(likedAt, 0)
		favs = append(favs, f)
	}

	return favs, rows.Err()
}

func replaceFavorites(tx *sql.Tx, favs []Favorite) error {
	if _, err := tx.Exec(`DELETE FROM favorites`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO favorites
		(track_id, position, title, artist, album, duration_ms, cover_url, audio_url, liked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, f := range favs {
		t := f.Track
		_, err := stmt.Exec(
			t.ID, i, t.Title, t.Artist, nullString(t.Album),
			t.Duration.Milliseconds(), nullString(t.CoverURL), t.AudioURL, f.LikedAt.Unix(),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
