// Package catalog provides a client for the track catalog HTTP API.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/llehouerou/wavecast/internal/locator"
	"github.com/llehouerou/wavecast/internal/playback"
)

// ErrNotFound is returned when the requested resource does not exist.
var ErrNotFound = errors.New("not found")

const (
	userAgent      = "wavecast/1.0"
	defaultTimeout = 10 * time.Second
)

// TokenFunc returns the bearer token to send, or "" for anonymous requests.
type TokenFunc func() string

// Client is a catalog API client.
type Client struct {
	baseURL    string
	assetsPath string
	token      TokenFunc
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAssetsPath sets the path segment used to resolve bare file names.
func WithAssetsPath(segment string) Option {
	return func(c *Client) { c.assetsPath = segment }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the bearer token source.
func WithToken(fn TokenFunc) Option {
	return func(c *Client) { c.token = fn }
}

// New creates a new catalog client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		assetsPath: locator.DefaultAssetsSegment,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Track fetches a single track by id.
func (c *Client) Track(ctx context.Context, id string) (playback.Track, error) {
	var dto trackDTO
	if err := c.get(ctx, "/tracks/"+url.PathEscape(id), nil, &dto); err != nil {
		return playback.Track{}, fmt.Errorf("get track %s: %w", id, err)
	}
	return c.toTrack(dto), nil
}

// AlbumTracks fetches the tracks of an album in album order.
func (c *Client) AlbumTracks(ctx context.Context, albumID string) ([]playback.Track, error) {
	return c.list(ctx, "/albums/"+url.PathEscape(albumID)+"/tracks", nil, "album "+albumID)
}

// ArtistTracks fetches the tracks of an artist.
func (c *Client) ArtistTracks(ctx context.Context, artistID string) ([]playback.Track, error) {
	return c.list(ctx, "/artists/"+url.PathEscape(artistID)+"/tracks", nil, "artist "+artistID)
}

// PlaylistTracks fetches the tracks of a playlist in playlist order.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string) ([]playback.Track, error) {
	return c.list(ctx, "/playlists/"+url.PathEscape(playlistID)+"/tracks", nil, "playlist "+playlistID)
}

// Search returns the tracks matching query. An empty query returns nothing.
func (c *Client) Search(ctx context.Context, query string) ([]playback.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	params := url.Values{}
	params.Set("q", query)
	return c.list(ctx, "/tracks", params, "search")
}

func (c *Client) list(ctx context.Context, path string, params url.Values, what string) ([]playback.Track, error) {
	var dtos trackList
	if err := c.get(ctx, path, params, &dtos); err != nil {
		return nil, fmt.Errorf("get %s tracks: %w", what, err)
	}
	tracks := make([]playback.Track, 0, len(dtos))
	for _, d := range dtos {
		tracks = append(tracks, c.toTrack(d))
	}
	return tracks, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
