//go:build linux

package mpris

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/wavecast/internal/playback"
)

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
// D-Bus calls carry no context, so every call uses a background one.
type playerAdapter struct {
	service playback.Service
}

func (p *playerAdapter) Next() error {
	p.service.Next(context.Background())
	return nil
}

func (p *playerAdapter) Previous() error {
	p.service.Previous(context.Background())
	return nil
}

func (p *playerAdapter) Pause() error {
	p.service.Pause(context.Background())
	return nil
}

func (p *playerAdapter) PlayPause() error {
	p.service.Toggle(context.Background())
	return nil
}

func (p *playerAdapter) Stop() error {
	p.service.Stop(context.Background())
	return nil
}

// Play resumes, replays the stopped track, or starts the queue.
func (p *playerAdapter) Play() error {
	ctx := context.Background()
	snap := p.service.Snapshot()
	switch snap.State {
	case playback.StatePlaying, playback.StateLoading:
		return nil
	case playback.StatePaused:
		p.service.Resume(ctx)
		return nil
	case playback.StateIdle, playback.StateStopped:
	}

	if snap.Current != nil {
		p.service.Play(ctx, *snap.Current)
		return nil
	}
	if q := p.service.Queue(); len(q) > 0 {
		p.service.Play(ctx, q[0])
	}
	return nil
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	p.service.SeekBy(context.Background(), time.Duration(offset)*time.Microsecond)
	return nil
}

// SetPosition is ignored when trackID is not the current track.
func (p *playerAdapter) SetPosition(trackID string, position types.Microseconds) error {
	cur := p.service.CurrentTrack()
	if cur == nil || trackID != formatTrackID(cur.ID) {
		return nil
	}
	p.service.Seek(context.Background(), time.Duration(position)*time.Microsecond)
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.service.Snapshot().State {
	case playback.StatePlaying, playback.StateLoading:
		return types.PlaybackStatusPlaying, nil
	case playback.StatePaused:
		return types.PlaybackStatusPaused, nil
	case playback.StateIdle, playback.StateStopped:
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	snap := p.service.Snapshot()
	track := snap.Current
	if track == nil {
		return types.Metadata{}, nil
	}

	length := track.Duration
	if snap.Duration > 0 {
		length = snap.Duration
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(track.ID)),
		Length:  types.Microseconds(length.Microseconds()),
		Title:   track.Title,
		Artist:  []string{track.Artist},
		Album:   track.Album,
		ArtUrl:  track.CoverURL,
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return 1.0, nil // Volume control not exposed via service
}

func (p *playerAdapter) SetVolume(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Position() (int64, error) {
	return p.service.Snapshot().Position.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

// The queue wraps around, so next and previous exist whenever the
// current track is queued.
func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.currentQueued(), nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.currentQueued(), nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.service.CurrentTrack() != nil || len(p.service.Queue()) > 0, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return p.service.Snapshot().State.HasHandle(), nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.service.Snapshot().State.HasHandle(), nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func (p *playerAdapter) currentQueued() bool {
	cur := p.service.CurrentTrack()
	if cur == nil {
		return false
	}
	for _, t := range p.service.Queue() {
		if t.ID == cur.ID {
			return true
		}
	}
	return false
}

func formatTrackID(id string) string {
	h := fnv.New64a()
	h.Write([]byte(id))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
