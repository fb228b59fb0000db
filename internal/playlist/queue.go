// Package playlist holds the ordered playback queue.
package playlist

import "math/rand/v2"

// Keyed is implemented by queue items that carry a stable identifier.
type Keyed interface {
	Key() string
}

// Queue is an ordered list of items; insertion order is playback order.
// It does not deduplicate and is not safe for concurrent use.
type Queue[T Keyed] struct {
	items []T
}

// NewQueue creates a queue holding a copy of items.
func NewQueue[T Keyed](items ...T) *Queue[T] {
	q := &Queue[T]{}
	q.Replace(items)
	return q
}

// Replace swaps the queue contents wholesale.
func (q *Queue[T]) Replace(items []T) {
	q.items = append([]T(nil), items...)
}

// Items returns a copy of the queue contents.
func (q *Queue[T]) Items() []T {
	return append([]T(nil), q.items...)
}

// Len returns the number of items in the queue.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// IsEmpty returns true if the queue has no items.
func (q *Queue[T]) IsEmpty() bool {
	return len(q.items) == 0
}

// At returns the item at index, or false if out of range.
func (q *Queue[T]) At(index int) (T, bool) {
	var zero T
	if index < 0 || index >= len(q.items) {
		return zero, false
	}
	return q.items[index], true
}

// IndexOf returns the index of the first item with key, or -1.
func (q *Queue[T]) IndexOf(key string) int {
	for i, it := range q.items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}

// After returns the item following key. The queue is circular: the last
// item is followed by the first. Returns false when key is not queued.
func (q *Queue[T]) After(key string) (T, bool) {
	i := q.IndexOf(key)
	if i < 0 {
		var zero T
		return zero, false
	}
	if i == len(q.items)-1 {
		return q.items[0], true
	}
	return q.items[i+1], true
}

// Before returns the item preceding key, wrapping from the first item to
// the last. Returns false when key is not queued.
func (q *Queue[T]) Before(key string) (T, bool) {
	i := q.IndexOf(key)
	if i < 0 {
		var zero T
		return zero, false
	}
	if i == 0 {
		return q.items[len(q.items)-1], true
	}
	return q.items[i-1], true
}

// Shuffled returns a random permutation of items. The input is not modified.
// A nil r uses the global source.
func Shuffled[T any](items []T, r *rand.Rand) []T {
	out := append([]T(nil), items...)
	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if r == nil {
		rand.Shuffle(len(out), swap)
	} else {
		r.Shuffle(len(out), swap)
	}
	return out
}

// ShuffledFrom returns a permutation of items with first moved to the
// front, for "shuffle, starting with this one" screens.
func ShuffledFrom[T Keyed](items []T, first string, r *rand.Rand) []T {
	out := Shuffled(items, r)
	for i, it := range out {
		if it.Key() == first {
			out[0], out[i] = out[i], out[0]
			break
		}
	}
	return out
}
