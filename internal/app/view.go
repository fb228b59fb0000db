package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/wavecast/internal/keymap"
	"github.com/llehouerou/wavecast/internal/ui/playerbar"
	"github.com/llehouerou/wavecast/internal/ui/render"
	"github.com/llehouerou/wavecast/internal/ui/styles"
)

var viewNames = [...]string{"1 Results", "2 Favorites", "3 Queue"}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.showHelp {
		return m.helpView()
	}

	var sections []string
	sections = append(sections, m.headerView(), m.search.View())

	if m.lastfmOpen {
		sections = append(sections, lipgloss.Place(
			m.width, m.lists[m.view].Height(),
			lipgloss.Center, lipgloss.Center,
			m.lastfmPanel.View(),
		))
	} else {
		list := m.lists[m.view]
		list.Note = m.favoriteNote
		playing := ""
		if cur := m.snap.Current; cur != nil {
			playing = cur.ID
		}
		sections = append(sections, list.View(playing))
	}

	if bar := m.playerBarView(); bar != "" {
		sections = append(sections, bar)
	} else {
		sections = append(sections, strings.Repeat("\n", playerbar.Height-1))
	}
	sections = append(sections, m.statusView())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) headerView() string {
	t := styles.T()
	st := t.S()
	tabs := make([]string, len(viewNames))
	for i, name := range viewNames {
		if ViewMode(i) == m.view {
			tabs[i] = lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Render("[" + name + "]")
		} else {
			tabs[i] = st.Muted.Render(" " + name + " ")
		}
	}
	left := st.Title.Render("wavecast") + "  " + strings.Join(tabs, " ")
	return render.Row(left, st.Subtle.Render("? help"), m.width)
}

func (m Model) playerBarView() string {
	cur := m.snap.Current
	fav := cur != nil && m.isFavorite(cur.ID)
	return playerbar.Render(playerbar.NewState(m.snap, fav), m.width)
}

func (m Model) statusView() string {
	st := styles.T().S()
	if m.errMsg != "" {
		return st.Error.Render(render.Truncate(m.errMsg, m.width))
	}

	status := m.status
	if m.view == ViewFavorites && m.focus == FocusList {
		if t, ok := m.lists[ViewFavorites].Selected(); ok {
			if at, ok := m.favorites[t.ID]; ok {
				status = "Liked " + humanize.Time(at)
			}
		}
	}
	return st.Muted.Render(render.Truncate(status, m.width))
}

func (m Model) helpView() string {
	st := styles.T().S()
	labels := map[string]string{"global": "Global", "playback": "Playback", "list": "Lists"}

	var b strings.Builder
	b.WriteString(st.Title.Render("Key bindings"))
	b.WriteString("\n")
	for _, ctx := range keymap.Contexts {
		b.WriteString("\n")
		b.WriteString(st.Muted.Render(labels[ctx]))
		b.WriteString("\n")
		for _, kb := range keymap.ByContext(ctx) {
			keys := make([]string, len(kb.Keys))
			for i, k := range kb.Keys {
				keys[i] = keyLabel(k)
			}
			b.WriteString("  ")
			b.WriteString(render.TruncateAndPad(strings.Join(keys, ", "), 22))
			b.WriteString(st.Base.Render(kb.Description))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(st.Subtle.Render("Press any key to close"))
	return styles.T().Panel(true).Padding(0, 1).Render(b.String())
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
