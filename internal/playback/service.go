package playback

import (
	"context"
	"time"
)

// Service defines the playback coordinator contract consumed by the UI,
// MPRIS, the remote-control server and the scrobbler.
//
// Transport methods never return errors. Failures are logged, recorded in
// Snapshot().LastError and published on Subscription.Error.
type Service interface {
	// Queue
	SetQueue(tracks []Track)
	Queue() []Track
	PlayQueue(ctx context.Context, tracks []Track, index int)

	// Transport
	Play(ctx context.Context, track Track)
	Pause(ctx context.Context)
	Resume(ctx context.Context)
	Toggle(ctx context.Context)
	Stop(ctx context.Context)
	Seek(ctx context.Context, target time.Duration)
	SeekBy(ctx context.Context, delta time.Duration)
	Next(ctx context.Context)
	Previous(ctx context.Context)

	// State
	Snapshot() Snapshot
	CurrentTrack() *Track

	Subscribe() *Subscription
	Close() error
}
