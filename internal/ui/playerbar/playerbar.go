// Package playerbar renders the now-playing bar at the bottom of the screen.
package playerbar

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/ui/render"
	"github.com/llehouerou/wavecast/internal/ui/styles"
)

const (
	playSymbol    = "▶"
	pauseSymbol   = "⏸"
	stopSymbol    = "■"
	loadingSymbol = "…"

	minBarWidth = 5
	separator   = "   "
)

// Height is the rendered height including borders.
const Height = 3

// State holds everything needed to render the bar.
type State struct {
	Status   playback.State
	Title    string
	Artist   string
	Album    string
	Position time.Duration
	Duration time.Duration
	Favorite bool
}

// NewState builds a State from a coordinator snapshot. The zero State
// is returned when nothing is loaded.
func NewState(snap playback.Snapshot, favorite bool) State {
	if snap.Current == nil {
		return State{}
	}
	dur := snap.Duration
	if dur == 0 {
		dur = snap.Current.Duration
	}
	return State{
		Status:   snap.State,
		Title:    snap.Current.Title,
		Artist:   snap.Current.Artist,
		Album:    snap.Current.Album,
		Position: snap.Position,
		Duration: dur,
		Favorite: favorite,
	}
}

// Visible reports whether there is anything to show.
func (s State) Visible() bool {
	return s.Title != "" || s.Artist != ""
}

func barStyle() lipgloss.Style {
	return styles.T().Panel(false).Padding(0, 1)
}

// Render returns the bar for the given terminal width, or "" when
// nothing is loaded.
func Render(s State, width int) string {
	if !s.Visible() {
		return ""
	}
	st := styles.T().S()
	inner := max(width-4, 0) // border + padding

	title := s.Title
	if title == "" {
		title = "Unknown Track"
	}
	if s.Favorite {
		title = "♥ " + title
	}
	var info []string
	if s.Artist != "" {
		info = append(info, s.Artist)
	}
	if s.Album != "" {
		info = append(info, s.Album)
	}
	meta := strings.Join(info, " · ")

	timeStr := render.Duration(s.Position) + " / " + render.Duration(s.Duration)
	status := symbol(s.Status)

	fixed := lipgloss.Width(status) + 2 + lipgloss.Width(timeStr) + lipgloss.Width(separator)*2
	forText := max(inner-fixed-minBarWidth, 0)

	text := st.Title.Render(render.TruncateEllipsis(title, forText))
	used := min(lipgloss.Width(title), forText)
	if rest := forText - used - lipgloss.Width(separator); meta != "" && rest > 3 {
		m := render.TruncateEllipsis(meta, rest)
		text += separator + st.Muted.Render(m)
		used += lipgloss.Width(separator) + lipgloss.Width(m)
	}

	barWidth := max(inner-used-fixed, minBarWidth)

	var b strings.Builder
	b.WriteString(text)
	b.WriteString(separator)
	b.WriteString(status)
	b.WriteString("  ")
	b.WriteString(Progress(s.Position, s.Duration, barWidth))
	b.WriteString(separator)
	b.WriteString(st.Muted.Render(timeStr))

	return barStyle().Width(max(width-2, 0)).Render(b.String())
}

// Progress renders a width-cell progress bar.
func Progress(position, duration time.Duration, width int) string {
	if width <= 0 {
		return ""
	}
	var ratio float64
	if duration > 0 {
		ratio = float64(position) / float64(duration)
	}
	filled := min(max(int(float64(width)*ratio), 0), width)

	t := styles.T()
	return lipgloss.NewStyle().Foreground(t.Primary).Render(strings.Repeat("━", filled)) +
		lipgloss.NewStyle().Foreground(t.FgSubtle).Render(strings.Repeat("─", width-filled))
}

func symbol(s playback.State) string {
	switch s {
	case playback.StatePlaying:
		return playSymbol
	case playback.StatePaused:
		return pauseSymbol
	case playback.StateLoading:
		return loadingSymbol
	case playback.StateIdle, playback.StateStopped:
	}
	return stopSymbol
}
