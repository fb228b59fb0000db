package lastfm

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// authTimeout bounds how long the callback server waits for the browser.
const authTimeout = 5 * time.Minute

// Message types for the Last.fm account linking flow.

// TokenResultMsg contains the result of requesting an auth token.
type TokenResultMsg struct {
	Token   string
	AuthURL string
	Err     error
}

// TokenReceivedMsg is sent when the callback flow ends. Err is
// context.DeadlineExceeded when the browser never came back.
type TokenReceivedMsg struct {
	Token string
	Err   error
}

// SessionResultMsg contains the result of exchanging token for session.
type SessionResultMsg struct {
	Username   string
	SessionKey string
	Err        error
}

// GetTokenCmd requests an authentication token from Last.fm.
func GetTokenCmd(client *Client) tea.Cmd {
	return func() tea.Msg {
		token, err := client.GetToken()
		if err != nil {
			return TokenResultMsg{Err: err}
		}
		authURL := client.GetAuthURL(token)
		return TokenResultMsg{Token: token, AuthURL: authURL}
	}
}

// TokenWaiter yields the token delivered to a callback server.
type TokenWaiter interface {
	Wait(ctx context.Context) (string, error)
}

// WaitForAuthCallbackCmd waits up to authTimeout for w to receive a token.
func WaitForAuthCallbackCmd(w TokenWaiter) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()
		token, err := w.Wait(ctx)
		return TokenReceivedMsg{Token: token, Err: err}
	}
}

// GetSessionCmd exchanges the authorized token for a session key.
func GetSessionCmd(client *Client, token string) tea.Cmd {
	return func() tea.Msg {
		username, sessionKey, err := client.GetSession(token)
		return SessionResultMsg{
			Username:   username,
			SessionKey: sessionKey,
			Err:        err,
		}
	}
}
