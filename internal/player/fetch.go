package player

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// ErrTooLarge is returned when a media body exceeds the engine's size limit.
var ErrTooLarge = errors.New("media too large")

// mediaSource is a fully buffered media body. Decoders get a seekable
// reader so that SetPosition works on remote streams.
type mediaSource struct {
	*bytes.Reader
	url         string
	contentType string
}

// Close is a no-op; the buffer is released with the source.
func (m *mediaSource) Close() error { return nil }

// fetchMedia loads the media behind locator into memory. http(s) locators
// go through client; file:// locators and bare paths are read from disk.
func fetchMedia(ctx context.Context, client *http.Client, locator string, maxBytes int64) (*mediaSource, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return nil, fmt.Errorf("parse locator: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return fetchHTTP(ctx, client, locator, maxBytes)
	case "file":
		return readFile(u.Path, locator, maxBytes)
	case "":
		return readFile(locator, locator, maxBytes)
	default:
		return nil, fmt.Errorf("unsupported locator scheme: %s", u.Scheme)
	}
}

func fetchHTTP(ctx context.Context, client *http.Client, locator string, maxBytes int64) (*mediaSource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	data, err := readLimited(resp.Body, maxBytes)
	if err != nil {
		return nil, err
	}

	return &mediaSource{
		Reader:      bytes.NewReader(data),
		url:         locator,
		contentType: resp.Header.Get("Content-Type"),
	}, nil
}

func readFile(path, locator string, maxBytes int64) (*mediaSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := readLimited(f, maxBytes)
	if err != nil {
		return nil, err
	}
	return &mediaSource{Reader: bytes.NewReader(data), url: locator}, nil
}

func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}
