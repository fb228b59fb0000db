package keymap

import (
	"slices"
	"testing"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
		{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
		{ActionMoveUp, []string{"k", "up"}, "Move up", "list"},
	})

	tests := []struct {
		key  string
		want Action
	}{
		{"q", ActionQuit},
		{"ctrl+c", ActionQuit},
		{" ", ActionPlayPause},
		{"k", ActionMoveUp},
		{"up", ActionMoveUp},
		{"unknown", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := r.Resolve(tt.key); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestResolver_KeysFor(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionSelect, []string{"enter"}, "Play", "list"},
		{ActionSelect, []string{"enter", "l"}, "Play", "list"},
	})

	keys := r.KeysFor(ActionSelect)
	if len(keys) != 2 || !slices.Contains(keys, "enter") || !slices.Contains(keys, "l") {
		t.Errorf("KeysFor = %v, want [enter l]", keys)
	}
	if keys := r.KeysFor(Action("unknown")); keys != nil {
		t.Errorf("KeysFor(unknown) = %v, want nil", keys)
	}
}

func TestResolver_WithDefaultBindings(t *testing.T) {
	r := NewResolver(Bindings)

	tests := map[string]Action{
		"q":           ActionQuit,
		"tab":         ActionSwitchFocus,
		" ":           ActionPlayPause,
		"shift+right": ActionSeekForward,
		"f":           ActionToggleFavorite,
		"L":           ActionLastfm,
	}
	for key, want := range tests {
		if got := r.Resolve(key); got != want {
			t.Errorf("Resolve(%q) = %q, want %q", key, got, want)
		}
	}
}
