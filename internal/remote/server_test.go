package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/player"
	"github.com/llehouerou/wavecast/internal/state"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeTracks struct {
	tracks    map[string]playback.Track
	albums    map[string][]playback.Track
	artists   map[string][]playback.Track
	playlists map[string][]playback.Track
	err       error
}

func (f *fakeTracks) Track(_ context.Context, id string) (playback.Track, error) {
	if f.err != nil {
		return playback.Track{}, f.err
	}
	t, ok := f.tracks[id]
	if !ok {
		return playback.Track{}, ErrTrackNotFound
	}
	return t, nil
}

func (f *fakeTracks) list(m map[string][]playback.Track, id string) ([]playback.Track, error) {
	if f.err != nil {
		return nil, f.err
	}
	tracks, ok := m[id]
	if !ok {
		return nil, ErrTrackNotFound
	}
	return tracks, nil
}

func (f *fakeTracks) AlbumTracks(_ context.Context, id string) ([]playback.Track, error) {
	return f.list(f.albums, id)
}

func (f *fakeTracks) ArtistTracks(_ context.Context, id string) ([]playback.Track, error) {
	return f.list(f.artists, id)
}

func (f *fakeTracks) PlaylistTracks(_ context.Context, id string) ([]playback.Track, error) {
	return f.list(f.playlists, id)
}

func track(id string) playback.Track {
	return playback.Track{
		ID:       id,
		Title:    "Song " + id,
		Artist:   "Band",
		Duration: 3 * time.Minute,
		AudioURL: "https://cdn.example.com/" + id + ".mp3",
	}
}

func newTestServer(t *testing.T, opts ...Option) (*Server, *playback.Coordinator, *fakeTracks) {
	t.Helper()
	c := playback.New(player.NewMock())
	t.Cleanup(func() { _ = c.Close() })

	src := &fakeTracks{tracks: map[string]playback.Track{
		"a":      track("a"),
		"b":      track("b"),
		"c":      track("c"),
		"silent": {ID: "silent", Title: "No audio"},
	}}
	src.albums = map[string][]playback.Track{"al1": {track("b"), track("c")}}
	src.artists = map[string][]playback.Track{"ar1": {track("a"), track("b"), track("c")}}
	src.playlists = map[string][]playback.Track{"pl1": {track("c"), track("a")}}
	return New(c, src, opts...), c, src
}

func do(t *testing.T, s *Server, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeStatus(t *testing.T, w *httptest.ResponseRecorder) statusJSON {
	t.Helper()
	var st statusJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	return st
}

func TestStatusIdle(t *testing.T) {
	s, _, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	st := decodeStatus(t, w)
	assert.Equal(t, "Idle", st.State)
	assert.Nil(t, st.Track)
	assert.False(t, st.Playing)
}

func TestPlayByID(t *testing.T) {
	s, c, _ := newTestServer(t)

	w := do(t, s, http.MethodPost, "/play/a", nil)
	require.Equal(t, http.StatusOK, w.Code)

	st := decodeStatus(t, w)
	assert.Equal(t, "Playing", st.State)
	require.NotNil(t, st.Track)
	assert.Equal(t, "a", st.Track.ID)
	assert.Equal(t, "a", c.CurrentTrack().ID)
}

func TestPlayErrors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		catalog  error
		wantCode int
	}{
		{name: "unknown track", path: "/play/zzz", wantCode: http.StatusNotFound},
		{name: "no audio", path: "/play/silent", wantCode: http.StatusUnprocessableEntity},
		{name: "catalog down", path: "/play/a", catalog: errors.New("boom"), wantCode: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, c, src := newTestServer(t)
			src.err = tt.catalog

			w := do(t, s, http.MethodPost, tt.path, nil)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Nil(t, c.CurrentTrack())
		})
	}
}

func TestTransportRoutes(t *testing.T) {
	s, c, _ := newTestServer(t)
	c.PlayQueue(context.Background(), []playback.Track{track("a"), track("b")}, 0)

	w := do(t, s, http.MethodPost, "/pause", nil)
	assert.Equal(t, "Paused", decodeStatus(t, w).State)

	w = do(t, s, http.MethodPost, "/resume", nil)
	assert.Equal(t, "Playing", decodeStatus(t, w).State)

	w = do(t, s, http.MethodPost, "/toggle", nil)
	assert.Equal(t, "Paused", decodeStatus(t, w).State)

	w = do(t, s, http.MethodPost, "/next", nil)
	assert.Equal(t, "b", decodeStatus(t, w).Track.ID)

	w = do(t, s, http.MethodPost, "/previous", nil)
	assert.Equal(t, "a", decodeStatus(t, w).Track.ID)

	w = do(t, s, http.MethodPost, "/stop", nil)
	st := decodeStatus(t, w)
	assert.Equal(t, "Stopped", st.State)
	assert.Equal(t, "a", st.Track.ID)
}

func TestQueueRoundTrip(t *testing.T) {
	s, c, _ := newTestServer(t)

	w := do(t, s, http.MethodPut, "/queue", setQueueRequest{IDs: []string{"c", "a"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, c.CurrentTrack(), "replacing the queue must not start playback")

	w = do(t, s, http.MethodGet, "/queue", nil)
	var q queueJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
	require.Len(t, q.Tracks, 2)
	assert.Equal(t, "c", q.Tracks[0].ID)
	assert.Equal(t, "a", q.Tracks[1].ID)
	assert.Equal(t, int64(180000), q.Tracks[0].DurationMs)
}

func TestQueueWithStart(t *testing.T) {
	s, c, _ := newTestServer(t)
	start := 1

	w := do(t, s, http.MethodPut, "/queue", setQueueRequest{IDs: []string{"a", "b"}, Start: &start})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, c.CurrentTrack())
	assert.Equal(t, "b", c.CurrentTrack().ID)
}

func TestQueueErrors(t *testing.T) {
	s, c, _ := newTestServer(t)
	bad := 5

	w := do(t, s, http.MethodPut, "/queue", setQueueRequest{IDs: []string{"a"}, Start: &bad})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodPut, "/queue", setQueueRequest{IDs: []string{"a", "missing"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, c.Queue())
}

func TestSeek(t *testing.T) {
	s, c, _ := newTestServer(t)
	c.Play(context.Background(), track("a"))

	pos := int64(60000)
	w := do(t, s, http.MethodPost, "/seek", seekRequest{PositionMs: &pos})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(60000), decodeStatus(t, w).PositionMs)

	delta := int64(-10000)
	w = do(t, s, http.MethodPost, "/seek", seekRequest{DeltaMs: &delta})
	assert.Equal(t, int64(50000), decodeStatus(t, w).PositionMs)

	w = do(t, s, http.MethodPost, "/seek", seekRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSeekOutOfRange(t *testing.T) {
	s, c, _ := newTestServer(t)
	c.Play(context.Background(), track("a"))
	c.Seek(context.Background(), 30*time.Second)

	huge := int64(math.MaxInt64)
	negHuge := int64(math.MinInt64)
	tests := []struct {
		name string
		req  seekRequest
	}{
		{"position", seekRequest{PositionMs: &huge}},
		{"negative position", seekRequest{PositionMs: &negHuge}},
		{"delta", seekRequest{DeltaMs: &huge}},
		{"negative delta", seekRequest{DeltaMs: &negHuge}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/seek", tt.req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, 30*time.Second, c.Snapshot().Position)
		})
	}
}

func TestTokenRequired(t *testing.T) {
	s, _, _ := newTestServer(t, WithToken("s3cret"))

	w := do(t, s, http.MethodGet, "/status", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, s, http.MethodGet, "/status", nil, "Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, s, http.MethodGet, "/status", nil, "Authorization", "Bearer s3cret")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWithMiddleware(t *testing.T) {
	var calls int
	s, _, _ := newTestServer(t, WithMiddleware(func(c *gin.Context) {
		calls++
		c.Next()
	}))

	do(t, s, http.MethodGet, "/status", nil)
	assert.Equal(t, 1, calls)
}

func TestWithNotFound(t *testing.T) {
	sentinel := errors.New("catalog: not found")
	c := playback.New(player.NewMock())
	t.Cleanup(func() { _ = c.Close() })
	s := New(c, &fakeTracks{err: sentinel}, WithNotFound(sentinel))

	w := do(t, s, http.MethodPost, "/play/a", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s, _, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func queueIDs(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var q queueJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
	ids := make([]string, len(q.Tracks))
	for i, tr := range q.Tracks {
		ids[i] = tr.ID
	}
	return ids
}

func TestQueueFromCollection(t *testing.T) {
	tests := []struct {
		name string
		req  setQueueRequest
		want []string
	}{
		{"album", setQueueRequest{Album: "al1"}, []string{"b", "c"}},
		{"artist", setQueueRequest{Artist: "ar1"}, []string{"a", "b", "c"}},
		{"playlist", setQueueRequest{Playlist: "pl1"}, []string{"c", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, c, _ := newTestServer(t)

			w := do(t, s, http.MethodPut, "/queue", tt.req)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, queueIDs(t, w))
			assert.Len(t, c.Queue(), len(tt.want))
			assert.Nil(t, c.CurrentTrack())
		})
	}
}

func TestQueueFromAlbumWithStart(t *testing.T) {
	s, c, _ := newTestServer(t)
	start := 1

	w := do(t, s, http.MethodPut, "/queue", setQueueRequest{Album: "al1", Start: &start})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, c.CurrentTrack())
	assert.Equal(t, "c", c.CurrentTrack().ID)

	start = 2
	w = do(t, s, http.MethodPut, "/queue", setQueueRequest{Album: "al1", Start: &start})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueueCollectionErrors(t *testing.T) {
	tests := []struct {
		name     string
		req      setQueueRequest
		catalog  error
		wantCode int
	}{
		{name: "two sources", req: setQueueRequest{IDs: []string{"a"}, Album: "al1"}, wantCode: http.StatusBadRequest},
		{name: "unknown album", req: setQueueRequest{Album: "nope"}, wantCode: http.StatusNotFound},
		{name: "unknown playlist", req: setQueueRequest{Playlist: "nope"}, wantCode: http.StatusNotFound},
		{name: "catalog down", req: setQueueRequest{Artist: "ar1"}, catalog: errors.New("boom"), wantCode: http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, c, src := newTestServer(t)
			src.err = tt.catalog

			w := do(t, s, http.MethodPut, "/queue", tt.req)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Empty(t, c.Queue())
		})
	}
}

func TestSessionRoutesDisabledByDefault(t *testing.T) {
	s, _, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/session", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionSignInOut(t *testing.T) {
	store := state.NewMock()
	s, _, _ := newTestServer(t, WithSessions(store))

	w := do(t, s, http.MethodGet, "/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"signed_in":false}`, w.Body.String())

	w = do(t, s, http.MethodPut, "/session", signInRequest{UserID: "u1", Username: "alice", Token: "tok"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "tok\"")
	var got sessionJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.SignedIn)
	assert.Equal(t, "alice", got.Username)
	assert.NotEmpty(t, got.DeviceID)

	sess, err := store.Session()
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "tok", sess.Token)

	w = do(t, s, http.MethodDelete, "/session", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	sess, err = store.Session()
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestSignInRequiresToken(t *testing.T) {
	s, _, _ := newTestServer(t, WithSessions(state.NewMock()))

	w := do(t, s, http.MethodPut, "/session", signInRequest{UserID: "u1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
