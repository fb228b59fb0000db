// internal/player/interface.go
package player

import (
	"context"
	"time"
)

// Status is a snapshot reported by a loaded handle.
type Status struct {
	Position      time.Duration
	Duration      time.Duration
	Playing       bool
	DidJustFinish bool
}

// StatusFunc receives status updates pushed by a handle.
// It may be called from any goroutine.
type StatusFunc func(Status)

// LoadOptions configures a new handle.
type LoadOptions struct {
	Autoplay bool
	OnStatus StatusFunc
}

// Engine loads remote media locators into playable handles.
type Engine interface {
	Load(ctx context.Context, url string, opts LoadOptions) (Handle, error)
}

// Handle is one loaded media item. Callers must Unload a handle before
// loading the next one; the engine does not enforce it.
type Handle interface {
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Stop(ctx context.Context) error
	SetPosition(ctx context.Context, position time.Duration) error
	Unload(ctx context.Context) error
}

// Verify implementations at compile time.
var (
	_ Engine = (*StreamEngine)(nil)
	_ Handle = (*streamHandle)(nil)
	_ Engine = (*Mock)(nil)
	_ Handle = (*MockHandle)(nil)
)
