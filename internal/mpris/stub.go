//go:build !linux

// Package mpris exposes the playback coordinator over D-Bus MPRIS.
// It is a no-op outside Linux.
package mpris

import "github.com/llehouerou/wavecast/internal/playback"

// Adapter is a no-op on non-Linux platforms.
type Adapter struct{}

// New returns a no-op adapter on non-Linux platforms.
func New(_ playback.Service) (*Adapter, error) {
	return &Adapter{}, nil
}

// Close is a no-op on non-Linux platforms.
func (a *Adapter) Close() error {
	return nil
}
