// Package lastfmauth provides the Last.fm account linking panel.
package lastfmauth

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavecast/internal/state"
	"github.com/llehouerou/wavecast/internal/ui"
	"github.com/llehouerou/wavecast/internal/ui/styles"
)

type authState int

const (
	stateNotLinked authState = iota
	stateWaitingCallback
	stateLinked
	stateError
)

// Action is what the user asked for in the panel.
type Action int

const (
	ActionNone Action = iota
	ActionClose
	ActionStartAuth
	ActionUnlink
	// ActionConfirmAuth means the user says they authorized in the browser.
	ActionConfirmAuth
)

// ActionMsg carries an Action back to the parent model.
type ActionMsg struct {
	Action Action
}

const keyEsc = "esc"

// Model is the Last.fm linking panel.
type Model struct {
	ui.Base
	state    authState
	username string
	errMsg   string
}

// New creates a panel in the not-linked state.
func New() Model {
	return Model{state: stateNotLinked}
}

// SetSession shows the linked account, or the not-linked state for nil.
func (m *Model) SetSession(session *state.LastfmSession) {
	m.errMsg = ""
	if session == nil {
		m.state = stateNotLinked
		m.username = ""
		return
	}
	m.state = stateLinked
	m.username = session.Username
}

// SetWaitingCallback shows the waiting-for-browser state.
func (m *Model) SetWaitingCallback() {
	m.state = stateWaitingCallback
	m.errMsg = ""
}

// SetError shows err with a retry hint.
func (m *Model) SetError(err string) {
	m.state = stateError
	m.errMsg = err
}

// Linked reports whether an account is linked.
func (m Model) Linked() bool {
	return m.state == stateLinked
}

// HandleKey maps a key press to an action command.
func (m *Model) HandleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == keyEsc {
		return emit(ActionClose)
	}

	switch m.state {
	case stateNotLinked, stateError:
		if key == "enter" {
			return emit(ActionStartAuth)
		}
	case stateWaitingCallback:
		if key == "enter" {
			return emit(ActionConfirmAuth)
		}
	case stateLinked:
		if key == "u" || key == "U" {
			return emit(ActionUnlink)
		}
	}
	return nil
}

func emit(a Action) tea.Cmd {
	return func() tea.Msg { return ActionMsg{Action: a} }
}

// View renders the panel.
func (m Model) View() string {
	t := styles.T()
	st := t.S()
	title := lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Render("Last.fm")
	value := lipgloss.NewStyle().Foreground(t.Secondary)
	label := st.Base.Render("Status: ")

	var body string
	switch m.state {
	case stateNotLinked:
		body = label + value.Render("Not linked") + "\n\n" +
			st.Subtle.Render("[Enter] Link  [Esc] Close")
	case stateWaitingCallback:
		body = label + value.Render("Authorizing...") + "\n\n" +
			st.Base.Render("Authorize Wavecast in the browser window, then press Enter.") + "\n\n" +
			st.Subtle.Render("[Enter] I've authorized  [Esc] Cancel")
	case stateLinked:
		body = label + st.Success.Render("Linked") + "\n" +
			st.Base.Render("Username: ") + value.Render(m.username) + "\n" +
			st.Base.Render("Scrobbling: ") + st.Success.Render("Active") + "\n\n" +
			st.Subtle.Render("[u] Unlink  [Esc] Close")
	case stateError:
		body = label + st.Error.Render("Error") + "\n\n" +
			st.Error.Render(m.errMsg) + "\n\n" +
			st.Subtle.Render("[Enter] Retry  [Esc] Close")
	}

	panel := t.Panel(true).Padding(1, 2)
	if w := m.Width(); w > 0 {
		panel = panel.Width(max(w-ui.BorderSize, 0))
	}
	return panel.Render(title + "\n\n" + body)
}
