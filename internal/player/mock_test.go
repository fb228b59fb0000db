package player

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMock_CountsCreationsAndReleases(t *testing.T) {
	ctx := context.Background()
	m := NewMock()

	h1, err := m.Load(ctx, "http://x/a.mp3", LoadOptions{Autoplay: true})
	require.NoError(t, err)
	assert.Equal(t, 1, m.Live())

	require.NoError(t, h1.Unload(ctx))
	require.NoError(t, h1.Unload(ctx), "second unload is idempotent")

	_, err = m.Load(ctx, "http://x/b.mp3", LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, m.Created())
	assert.Equal(t, 1, m.Released())
	assert.Equal(t, 1, m.MaxLive())
	assert.Equal(t, []string{"http://x/a.mp3", "http://x/b.mp3"}, m.Loads())
}

func TestMock_AutoplaySetsState(t *testing.T) {
	m := NewMock()

	_, _ = m.Load(context.Background(), "a", LoadOptions{Autoplay: true})
	assert.Equal(t, Playing, m.Last().State())

	_, _ = m.Load(context.Background(), "b", LoadOptions{})
	assert.Equal(t, Paused, m.Last().State())
}

func TestMock_LoadError(t *testing.T) {
	m := NewMock()
	m.SetLoadError(errors.New("decode failed"))

	h, err := m.Load(context.Background(), "a", LoadOptions{})

	require.Error(t, err)
	assert.Nil(t, h)
	assert.Equal(t, 0, m.Created())
	assert.Equal(t, []string{"a"}, m.Loads())
}

func TestMockHandle_TransportAndSeek(t *testing.T) {
	ctx := context.Background()
	m := NewMock()
	h, _ := m.Load(ctx, "a", LoadOptions{Autoplay: true})
	mh := m.Last()

	require.NoError(t, h.Pause(ctx))
	assert.Equal(t, Paused, mh.State())
	require.NoError(t, h.Resume(ctx))
	assert.Equal(t, Playing, mh.State())
	require.NoError(t, h.SetPosition(ctx, 42*time.Second))
	assert.Equal(t, []time.Duration{42 * time.Second}, mh.SeekCalls())
	require.NoError(t, h.Stop(ctx))
	assert.Equal(t, Stopped, mh.State())
}

func TestMockHandle_EmitReachesCallback(t *testing.T) {
	var got []Status
	m := NewMock()
	_, _ = m.Load(context.Background(), "a", LoadOptions{OnStatus: func(s Status) { got = append(got, s) }})

	m.Last().Emit(Status{Position: time.Second, Playing: true})
	m.Last().SimulateFinished()

	require.Len(t, got, 2)
	assert.Equal(t, time.Second, got[0].Position)
	assert.True(t, got[1].DidJustFinish)
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Stopped, "Stopped"},
		{Playing, "Playing"},
		{Paused, "Paused"},
		{State(99), "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
	assert.True(t, Paused.IsActive())
	assert.False(t, Stopped.IsActive())
}
