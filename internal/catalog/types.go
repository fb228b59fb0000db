package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/llehouerou/wavecast/internal/locator"
	"github.com/llehouerou/wavecast/internal/playback"
)

// trackDTO is a track as served by the catalog API.
// Some deployments expose the document id as "_id", others as "id".
type trackDTO struct {
	MongoID  string  `json:"_id"`
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Album    string  `json:"album"`
	Duration float64 `json:"duration"` // seconds
	Cover    string  `json:"cover"`
	Audio    string  `json:"audio"`
}

func (d trackDTO) identifier() string {
	if d.ID != "" {
		return d.ID
	}
	return d.MongoID
}

func (c *Client) toTrack(d trackDTO) playback.Track {
	dur := max(d.Duration, 0)
	return playback.Track{
		ID:       d.identifier(),
		Title:    d.Title,
		Artist:   d.Artist,
		Album:    d.Album,
		Duration: time.Duration(dur * float64(time.Second)),
		CoverURL: locator.Resolve(c.baseURL, c.assetsPath, d.Cover),
		AudioURL: locator.Resolve(c.baseURL, c.assetsPath, d.Audio),
	}
}

// trackList accepts either a bare JSON array or an object wrapping the
// array under "tracks", "data" or "results".
type trackList []trackDTO

func (l *trackList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		return json.Unmarshal(b, (*[]trackDTO)(l))
	}

	var env struct {
		Tracks  []trackDTO `json:"tracks"`
		Data    []trackDTO `json:"data"`
		Results []trackDTO `json:"results"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return fmt.Errorf("track list: %w", err)
	}
	switch {
	case env.Tracks != nil:
		*l = env.Tracks
	case env.Data != nil:
		*l = env.Data
	default:
		*l = env.Results
	}
	return nil
}
