// internal/playlist/queue_test.go
package playlist

import (
	"math/rand/v2"
	"slices"
	"testing"
)

type item string

func (i item) Key() string { return string(i) }

func keys(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = string(it)
	}
	return out
}

func TestNewQueue_Empty(t *testing.T) {
	q := NewQueue[item]()

	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
	if !q.IsEmpty() {
		t.Error("IsEmpty() = false, want true")
	}
	if _, ok := q.After("a"); ok {
		t.Error("After on empty queue should report not found")
	}
	if _, ok := q.Before("a"); ok {
		t.Error("Before on empty queue should report not found")
	}
}

func TestQueue_ReplaceCopiesInput(t *testing.T) {
	src := []item{"a", "b"}
	q := NewQueue[item]()

	q.Replace(src)
	src[0] = "z"

	if got, _ := q.At(0); got != "a" {
		t.Errorf("At(0) = %q, want a (queue must not alias caller slice)", got)
	}
	items := q.Items()
	items[1] = "z"
	if got, _ := q.At(1); got != "b" {
		t.Errorf("At(1) = %q, want b (Items must return a copy)", got)
	}
}

func TestQueue_IndexOf(t *testing.T) {
	q := NewQueue[item]("a", "b", "a")

	tests := []struct {
		key  string
		want int
	}{
		{"a", 0},
		{"b", 1},
		{"missing", -1},
	}
	for _, tt := range tests {
		if got := q.IndexOf(tt.key); got != tt.want {
			t.Errorf("IndexOf(%q) = %d, want %d", tt.key, got, tt.want)
		}
	}
}

func TestQueue_AfterWrapsToFirst(t *testing.T) {
	q := NewQueue[item]("a", "b", "c")

	tests := []struct {
		from string
		want item
	}{
		{"a", "b"},
		{"b", "c"},
		{"c", "a"},
	}
	for _, tt := range tests {
		got, ok := q.After(tt.from)
		if !ok || got != tt.want {
			t.Errorf("After(%q) = %q, %v; want %q, true", tt.from, got, ok, tt.want)
		}
	}
}

func TestQueue_BeforeWrapsToLast(t *testing.T) {
	q := NewQueue[item]("a", "b", "c")

	tests := []struct {
		from string
		want item
	}{
		{"c", "b"},
		{"b", "a"},
		{"a", "c"},
	}
	for _, tt := range tests {
		got, ok := q.Before(tt.from)
		if !ok || got != tt.want {
			t.Errorf("Before(%q) = %q, %v; want %q, true", tt.from, got, ok, tt.want)
		}
	}
}

func TestQueue_SingleItemWrapsToItself(t *testing.T) {
	q := NewQueue[item]("only")

	if got, ok := q.After("only"); !ok || got != "only" {
		t.Errorf("After = %q, %v; want only, true", got, ok)
	}
	if got, ok := q.Before("only"); !ok || got != "only" {
		t.Errorf("Before = %q, %v; want only, true", got, ok)
	}
}

func TestQueue_UnknownKey(t *testing.T) {
	q := NewQueue[item]("a", "b")

	if _, ok := q.After("x"); ok {
		t.Error("After(x) should report not found")
	}
	if _, ok := q.Before("x"); ok {
		t.Error("Before(x) should report not found")
	}
}

func TestQueue_At(t *testing.T) {
	q := NewQueue[item]("a")

	if _, ok := q.At(-1); ok {
		t.Error("At(-1) should be out of range")
	}
	if _, ok := q.At(1); ok {
		t.Error("At(1) should be out of range")
	}
}

func TestShuffled_IsPermutation(t *testing.T) {
	in := []item{"a", "b", "c", "d", "e"}
	r := rand.New(rand.NewPCG(1, 2))

	out := Shuffled(in, r)

	if !slices.Equal(keys(in), []string{"a", "b", "c", "d", "e"}) {
		t.Error("Shuffled modified its input")
	}
	sorted := keys(out)
	slices.Sort(sorted)
	if !slices.Equal(sorted, keys(in)) {
		t.Errorf("Shuffled(%v) = %v, not a permutation", in, out)
	}
}

func TestShuffledFrom_PutsFirstInFront(t *testing.T) {
	in := []item{"a", "b", "c", "d"}
	r := rand.New(rand.NewPCG(7, 7))

	out := ShuffledFrom(in, "c", r)

	if out[0] != "c" {
		t.Errorf("out[0] = %q, want c", out[0])
	}
	if len(out) != len(in) {
		t.Errorf("len = %d, want %d", len(out), len(in))
	}
}
