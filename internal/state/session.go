package state

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session is the signed-in catalog account.
type Session struct {
	UserID   string
	Username string
	Token    string
	DeviceID string
	SavedAt  time.Time
}

// Session returns the stored session, or nil if signed out.
func (m *Manager) Session() (*Session, error) {
	var s Session
	var savedAt int64

	err := m.db.QueryRow(`
		SELECT user_id, username, token, saved_at FROM session WHERE id = 1
	`).Scan(&s.UserID, &s.Username, &s.Token, &savedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // nil session means signed out, not an error
	}
	if err != nil {
		return nil, err
	}

	deviceID, err := m.DeviceID()
	if err != nil {
		return nil, err
	}
	s.DeviceID = deviceID
	s.SavedAt = time.Unix(savedAt, 0)
	return &s, nil
}

// SaveSession stores s and returns it with DeviceID and SavedAt filled in.
func (m *Manager) SaveSession(s Session) (Session, error) {
	deviceID, err := m.DeviceID()
	if err != nil {
		return Session{}, err
	}
	s.DeviceID = deviceID
	s.SavedAt = time.Now().Truncate(time.Second)

	_, err = m.db.Exec(`
		INSERT INTO session (id, user_id, username, token, saved_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			username = excluded.username,
			token = excluded.token,
			saved_at = excluded.saved_at
	`, s.UserID, s.Username, s.Token, s.SavedAt.Unix())
	if err != nil {
		return Session{}, err
	}
	return s, nil
}

// ClearSession signs out. The device id is kept.
func (m *Manager) ClearSession() error {
	_, err := m.db.Exec(`DELETE FROM session WHERE id = 1`)
	return err
}

// DeviceID returns the installation's device id, generating it on first use.
func (m *Manager) DeviceID() (string, error) {
	_, err := m.db.Exec(`
		INSERT OR IGNORE INTO device (id, device_id) VALUES (1, ?)
	`, uuid.NewString())
	if err != nil {
		return "", err
	}

	var id string
	err = m.db.QueryRow(`SELECT device_id FROM device WHERE id = 1`).Scan(&id)
	return id, err
}
