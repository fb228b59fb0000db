package tracklist

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavecast/internal/playback"
)

func tracks(n int) []playback.Track {
	out := make([]playback.Track, n)
	for i := range out {
		out[i] = playback.Track{
			ID:       fmt.Sprintf("t%d", i),
			Title:    fmt.Sprintf("Song %d", i),
			Artist:   "Band",
			Duration: 3 * time.Minute,
			AudioURL: "https://cdn.example.com/a.mp3",
		}
	}
	return out
}

func TestMoveClamps(t *testing.T) {
	m := New("Results")
	m.SetSize(40, 9)
	m.SetTracks(tracks(3))

	m.Move(-1)
	if m.Index() != 0 {
		t.Errorf("Index = %d, want 0", m.Index())
	}
	m.Move(10)
	if m.Index() != 2 {
		t.Errorf("Index = %d, want 2", m.Index())
	}

	m.SetTracks(tracks(1))
	if m.Index() != 0 {
		t.Errorf("Index after shrink = %d, want 0", m.Index())
	}

	m.SetTracks(nil)
	if _, ok := m.Selected(); ok {
		t.Error("Selected on empty list should be false")
	}
}

func TestScrolling(t *testing.T) {
	m := New("Results")
	m.SetSize(40, 9) // 5 visible rows
	m.SetTracks(tracks(20))

	tests := []struct {
		name      string
		action    func()
		wantPos   int
		wantStart int
		wantEnd   int
	}{
		{"initial", func() {}, 0, 0, 5},
		{"move within margin", func() { m.Move(2) }, 2, 0, 5},
		{"scroll down", func() { m.Move(2) }, 4, 2, 7},
		{"jump end", m.JumpEnd, 19, 15, 20},
		{"jump start", m.JumpStart, 0, 0, 5},
	}

	for _, tt := range tests {
		tt.action()
		start, end := m.VisibleRange()
		if m.Index() != tt.wantPos || start != tt.wantStart || end != tt.wantEnd {
			t.Errorf("%s: pos=%d range=[%d,%d), want pos=%d range=[%d,%d)",
				tt.name, m.Index(), start, end, tt.wantPos, tt.wantStart, tt.wantEnd)
		}
	}
}

func TestSelected(t *testing.T) {
	m := New("Results")
	m.SetSize(40, 10)
	m.SetTracks(tracks(3))
	m.Move(1)

	tr, ok := m.Selected()
	if !ok || tr.ID != "t1" {
		t.Errorf("Selected = %v, %v; want t1", tr.ID, ok)
	}
}

func TestView(t *testing.T) {
	m := New("Favorites")
	m.SetSize(50, 10)
	list := tracks(2)
	list[1].AudioURL = ""
	m.SetTracks(list)
	m.Note = func(tr playback.Track) string {
		if tr.ID == "t0" {
			return "♥"
		}
		return ""
	}

	out := m.View("t0")
	for _, want := range []string{"Favorites", "1/2", "Song 0 · Band", "Song 1", "(unavailable)", "♥", "3:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("View missing %q:\n%s", want, out)
		}
	}
	if h := lipgloss.Height(out); h != 10 {
		t.Errorf("height = %d, want 10", h)
	}
	if w := lipgloss.Width(out); w != 50 {
		t.Errorf("width = %d, want 50", w)
	}
}

func TestViewEmpty(t *testing.T) {
	m := New("Results")
	m.SetSize(30, 6)
	if out := m.View(""); !strings.Contains(out, "nothing here") {
		t.Errorf("empty view:\n%s", out)
	}
}
