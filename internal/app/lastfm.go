package app

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/lastfm"
	"github.com/llehouerou/wavecast/internal/state"
	"github.com/llehouerou/wavecast/internal/ui/lastfmauth"
)

const lastfmNotConfigured = "Last.fm is not configured (set lastfm.api_key and lastfm.api_secret)"

func (m Model) openLastfm() (tea.Model, tea.Cmd) {
	if m.lastfm == nil || m.lastfmStore == nil {
		m.errMsg = lastfmNotConfigured
		return m, nil
	}
	session, err := m.lastfmStore.GetLastfmSession()
	if err != nil {
		m.errMsg = errmsg.Format(errmsg.OpLastfmAuth, err)
		return m, nil
	}
	m.lastfmPanel.SetSession(session)
	m.lastfmOpen = true
	return m, nil
}

// handleLastfmMsg handles the account linking flow.
func (m Model) handleLastfmMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case lastfmauth.ActionMsg:
		return m.handleLastfmAction(msg.Action)

	case lastfm.TokenResultMsg:
		if msg.Err != nil {
			m.lastfmPanel.SetError(msg.Err.Error())
			return m, nil
		}
		// Desktop flow: the user confirms in the panel once authorized.
		m.lastfmToken = msg.Token
		m.lastfmPanel.SetWaitingCallback()
		if err := lastfm.OpenBrowser(msg.AuthURL); err != nil {
			log.WithField("module", "app").WithError(err).Warn("open browser")
		}
		return m, nil

	case lastfm.TokenReceivedMsg:
		m.stopAuthServer()
		switch {
		case errors.Is(msg.Err, context.DeadlineExceeded):
			m.lastfmPanel.SetError("authorization timed out")
			return m, nil
		case msg.Err != nil:
			m.lastfmPanel.SetError(errmsg.Format(errmsg.OpLastfmAuth, msg.Err))
			return m, nil
		}
		return m, lastfm.GetSessionCmd(m.lastfm, msg.Token)

	case lastfm.SessionResultMsg:
		if msg.Err != nil {
			m.lastfmPanel.SetError(msg.Err.Error())
			return m, nil
		}
		if err := m.lastfmStore.SaveLastfmSession(msg.Username, msg.SessionKey); err != nil {
			m.lastfmPanel.SetError(errmsg.Format(errmsg.OpLastfmAuth, err))
			return m, nil
		}
		m.lastfm.SetSessionKey(msg.SessionKey)
		m.lastfmPanel.SetSession(&state.LastfmSession{
			Username:   msg.Username,
			SessionKey: msg.SessionKey,
			LinkedAt:   time.Now(),
		})
		m.status = "Last.fm linked as " + msg.Username
	}
	return m, nil
}

func (m Model) handleLastfmAction(a lastfmauth.Action) (tea.Model, tea.Cmd) {
	switch a { //nolint:exhaustive // ActionNone requires no handling
	case lastfmauth.ActionClose:
		m.lastfmToken = ""
		m.stopAuthServer()
		m.lastfmOpen = false

	case lastfmauth.ActionStartAuth:
		// Prefer the callback flow; fall back to the desktop flow when the
		// callback port is taken.
		srv, err := lastfm.StartAuthServer(m.lastfmCallback)
		if err != nil {
			log.WithField("module", "app").WithError(err).Debug("auth callback server unavailable")
			return m, lastfm.GetTokenCmd(m.lastfm)
		}
		m.authServer = srv
		m.lastfmPanel.SetWaitingCallback()
		if err := lastfm.OpenBrowser(m.lastfm.GetCallbackAuthURL(srv.CallbackURL())); err != nil {
			log.WithField("module", "app").WithError(err).Warn("open browser")
		}
		return m, lastfm.WaitForAuthCallbackCmd(srv)

	case lastfmauth.ActionConfirmAuth:
		if m.lastfmToken != "" {
			token := m.lastfmToken
			m.lastfmToken = ""
			return m, lastfm.GetSessionCmd(m.lastfm, token)
		}

	case lastfmauth.ActionUnlink:
		if err := m.lastfmStore.DeleteLastfmSession(); err != nil {
			m.lastfmPanel.SetError(errmsg.Format(errmsg.OpLastfmAuth, err))
			return m, nil
		}
		m.lastfm.SetSessionKey("")
		m.lastfmPanel.SetSession(nil)
	}
	return m, nil
}

func (m *Model) stopAuthServer() {
	if m.authServer != nil {
		m.authServer.Shutdown()
		m.authServer = nil
	}
}
