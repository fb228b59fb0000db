package remote

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/llehouerou/wavecast/internal/playback"
)

type trackJSON struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	CoverURL   string `json:"cover,omitempty"`
	AudioURL   string `json:"audio,omitempty"`
}

type errorJSON struct {
	Op      string    `json:"op"`
	TrackID string    `json:"track_id,omitempty"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

type statusJSON struct {
	State      string     `json:"state"`
	Playing    bool       `json:"playing"`
	PositionMs int64      `json:"position_ms"`
	DurationMs int64      `json:"duration_ms"`
	Generation uint64     `json:"generation"`
	Track      *trackJSON `json:"track"`
	LastError  *errorJSON `json:"last_error,omitempty"`
}

type queueJSON struct {
	Tracks []trackJSON `json:"tracks"`
}

// setQueueRequest names the new queue by track ids or by one catalog
// collection. At most one source may be given; none clears the queue.
type setQueueRequest struct {
	IDs      []string `json:"ids,omitempty"`
	Album    string   `json:"album,omitempty"`
	Artist   string   `json:"artist,omitempty"`
	Playlist string   `json:"playlist,omitempty"`
	// Start, when set, plays the track at that index after replacing the queue.
	Start *int `json:"start,omitempty"`
}

func (r setQueueRequest) sources() int {
	n := 0
	for _, set := range []bool{len(r.IDs) > 0, r.Album != "", r.Artist != "", r.Playlist != ""} {
		if set {
			n++
		}
	}
	return n
}

type seekRequest struct {
	PositionMs *int64 `json:"position_ms"`
	DeltaMs    *int64 `json:"delta_ms"`
}

func toTrackJSON(t playback.Track) trackJSON {
	return trackJSON{
		ID:         t.ID,
		Title:      t.Title,
		Artist:     t.Artist,
		Album:      t.Album,
		DurationMs: t.Duration.Milliseconds(),
		CoverURL:   t.CoverURL,
		AudioURL:   t.AudioURL,
	}
}

func toStatusJSON(snap playback.Snapshot) statusJSON {
	out := statusJSON{
		State:      snap.State.String(),
		Playing:    snap.Playing,
		PositionMs: snap.Position.Milliseconds(),
		DurationMs: snap.Duration.Milliseconds(),
		Generation: snap.Generation,
	}
	if snap.Current != nil {
		t := toTrackJSON(*snap.Current)
		out.Track = &t
	}
	if e := snap.LastError; e != nil {
		out.LastError = &errorJSON{
			Op:      e.Op,
			TrackID: e.TrackID,
			Message: e.Err.Error(),
			At:      e.At,
		}
	}
	return out
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, toStatusJSON(s.service.Snapshot()))
}

func (s *Server) handleQueue(c *gin.Context) {
	tracks := s.service.Queue()
	out := queueJSON{Tracks: make([]trackJSON, len(tracks))}
	for i, t := range tracks {
		out.Tracks[i] = toTrackJSON(t)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleSetQueue(c *gin.Context) {
	var req setQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.sources() > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "give one of ids, album, artist or playlist"})
		return
	}

	tracks, ok := s.resolveQueue(c, req)
	if !ok {
		return
	}
	if req.Start != nil && (*req.Start < 0 || *req.Start >= len(tracks)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start out of range"})
		return
	}

	if req.Start != nil {
		s.service.PlayQueue(c.Request.Context(), tracks, *req.Start)
	} else {
		s.service.SetQueue(tracks)
	}
	s.handleQueue(c)
}

func (s *Server) resolveQueue(c *gin.Context, req setQueueRequest) ([]playback.Track, bool) {
	ctx := c.Request.Context()
	var (
		list func(context.Context, string) ([]playback.Track, error)
		id   string
	)
	switch {
	case req.Album != "":
		list, id = s.tracks.AlbumTracks, req.Album
	case req.Artist != "":
		list, id = s.tracks.ArtistTracks, req.Artist
	case req.Playlist != "":
		list, id = s.tracks.PlaylistTracks, req.Playlist
	default:
		tracks := make([]playback.Track, 0, len(req.IDs))
		for _, id := range req.IDs {
			t, ok := s.lookup(c, id)
			if !ok {
				return nil, false
			}
			tracks = append(tracks, t)
		}
		return tracks, true
	}

	tracks, err := list(ctx, id)
	if err != nil {
		s.catalogError(c, "collection", id, err)
		return nil, false
	}
	return tracks, true
}

func (s *Server) handlePlay(c *gin.Context) {
	t, ok := s.lookup(c, c.Param("id"))
	if !ok {
		return
	}
	if !t.Playable() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "track has no audio"})
		return
	}
	s.service.Play(c.Request.Context(), t)
	s.handleStatus(c)
}

func (s *Server) handleSeek(c *gin.Context) {
	var req seekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	switch {
	case req.PositionMs != nil:
		d, ok := millis(*req.PositionMs)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "position_ms out of range"})
			return
		}
		s.service.Seek(ctx, d)
	case req.DeltaMs != nil:
		d, ok := millis(*req.DeltaMs)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "delta_ms out of range"})
			return
		}
		s.service.SeekBy(ctx, d)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "position_ms or delta_ms required"})
		return
	}
	s.handleStatus(c)
}

// maxSeekMs is the largest millisecond count a time.Duration can hold.
const maxSeekMs = math.MaxInt64 / int64(time.Millisecond)

func millis(ms int64) (time.Duration, bool) {
	if ms > maxSeekMs || ms < -maxSeekMs {
		return 0, false
	}
	return time.Duration(ms) * time.Millisecond, true
}

// transport adapts a no-argument coordinator operation to a handler that
// responds with the resulting status.
func (s *Server) transport(op func(context.Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		op(c.Request.Context())
		s.handleStatus(c)
	}
}

// lookup fetches a track and writes an error response on failure.
func (s *Server) lookup(c *gin.Context, id string) (playback.Track, bool) {
	t, err := s.tracks.Track(c.Request.Context(), id)
	if err != nil {
		s.catalogError(c, "track", id, err)
		return playback.Track{}, false
	}
	return t, true
}

// catalogError maps a catalog failure to 404 or 502.
func (s *Server) catalogError(c *gin.Context, what, id string, err error) {
	if errors.Is(err, s.notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found", "id": id})
		return
	}
	s.logger.WithError(err).WithField(what, id).Warn("catalog lookup failed")
	_ = c.Error(err)
	c.JSON(http.StatusBadGateway, gin.H{"error": "catalog unavailable"})
}
