// Package tracklist provides a scrollable, selectable list of tracks.
package tracklist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/ui"
	"github.com/llehouerou/wavecast/internal/ui/render"
	"github.com/llehouerou/wavecast/internal/ui/styles"
)

const durationWidth = 8

// Model is a track list with a cursor. The parent owns key handling and
// calls the movement methods.
type Model struct {
	ui.Base
	title  string
	tracks []playback.Track
	pos    int
	offset int

	// Note renders an optional right-aligned annotation per row.
	Note func(playback.Track) string
}

// New creates an empty list with a header title.
func New(title string) Model {
	return Model{title: title}
}

// SetTitle replaces the header.
func (m *Model) SetTitle(title string) { m.title = title }

// SetTracks replaces the rows and clamps the cursor.
func (m *Model) SetTracks(tracks []playback.Track) {
	m.tracks = tracks
	m.clamp()
}

// Tracks returns the rows.
func (m Model) Tracks() []playback.Track { return m.tracks }

// Len returns the number of rows.
func (m Model) Len() int { return len(m.tracks) }

// Index returns the cursor position.
func (m Model) Index() int { return m.pos }

// Selected returns the track under the cursor.
func (m Model) Selected() (playback.Track, bool) {
	if m.pos < 0 || m.pos >= len(m.tracks) {
		return playback.Track{}, false
	}
	return m.tracks[m.pos], true
}

// Move moves the cursor by delta rows.
func (m *Model) Move(delta int) {
	m.pos += delta
	m.clamp()
}

// JumpStart moves to the first row.
func (m *Model) JumpStart() {
	m.pos = 0
	m.clamp()
}

// JumpEnd moves to the last row.
func (m *Model) JumpEnd() {
	m.pos = len(m.tracks) - 1
	m.clamp()
}

// PageSize is the number of visible rows.
func (m Model) PageSize() int {
	return m.InnerHeight(ui.PanelOverhead)
}

func (m *Model) clamp() {
	m.pos = min(max(m.pos, 0), max(len(m.tracks)-1, 0))

	rows := m.PageSize()
	if rows <= 0 {
		m.offset = 0
		return
	}
	margin := min(ui.ScrollMargin, (rows-1)/2)
	if m.pos < m.offset+margin {
		m.offset = m.pos - margin
	}
	if m.pos >= m.offset+rows-margin {
		m.offset = m.pos - rows + margin + 1
	}
	m.offset = min(max(m.offset, 0), max(len(m.tracks)-rows, 0))
}

// VisibleRange returns the [start, end) rows on screen.
func (m Model) VisibleRange() (start, end int) {
	return m.offset, min(m.offset+m.PageSize(), len(m.tracks))
}

// View renders the list. playingID highlights the current track.
func (m Model) View(playingID string) string {
	t := styles.T()
	st := t.S()
	inner := max(m.Width()-ui.BorderSize, 0)

	var b strings.Builder
	header := st.Title.Render(m.title)
	if n := len(m.tracks); n > 0 {
		header = render.Row(header, st.Subtle.Render(fmt.Sprintf("%d/%d", m.pos+1, n)), inner)
	}
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(st.Subtle.Render(render.Separator(inner)))

	start, end := m.VisibleRange()
	if start == end {
		b.WriteString("\n")
		b.WriteString(st.Muted.Render(render.TruncateAndPad("  nothing here", inner)))
	}
	for i := start; i < end; i++ {
		b.WriteString("\n")
		b.WriteString(m.row(i, inner, playingID))
	}

	rows := lipgloss.Height(b.String())
	for ; rows < m.InnerHeight(ui.BorderSize); rows++ {
		b.WriteString("\n")
	}

	return t.Panel(m.IsFocused()).Width(inner).Render(b.String())
}

func (m Model) row(i, width int, playingID string) string {
	st := styles.T().S()
	tr := m.tracks[i]

	note := ""
	if m.Note != nil {
		note = m.Note(tr)
	}
	right := render.Duration(tr.Duration)
	if note != "" {
		right = note + " " + right
	}
	right = runePadLeft(right, durationWidth)

	left := tr.Title
	if tr.Artist != "" {
		left += " · " + tr.Artist
	}
	if !tr.Playable() {
		left += " (unavailable)"
	}
	left = render.TruncateAndPad("  "+left, max(width-lipgloss.Width(right)-1, 0))
	line := left + " " + right

	switch {
	case i == m.pos && m.IsFocused():
		return st.Cursor.Render(line)
	case tr.ID == playingID:
		return st.Playing.Render(line)
	case !tr.Playable():
		return st.Subtle.Render(line)
	}
	return st.Base.Render(line)
}

func runePadLeft(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}
