// Package locator turns catalog audio and cover references into absolute URLs.
package locator

import (
	"net/url"
	"strings"
)

// DefaultAssetsSegment is the path segment under which the catalog serves files.
const DefaultAssetsSegment = "assets"

// Resolve normalises loc against baseURL.
//
// An empty loc stays empty and a loc with a scheme is returned unchanged.
// Otherwise "assets/x", "/assets/x" and "x" all resolve to
// "<baseURL>/<assetsSegment>/x".
func Resolve(baseURL, assetsSegment, loc string) string {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return ""
	}
	if IsAbsolute(loc) {
		return loc
	}

	segment := strings.Trim(assetsSegment, "/")
	if segment == "" {
		segment = DefaultAssetsSegment
	}

	name := strings.TrimLeft(loc, "/")
	name = strings.TrimPrefix(name, segment+"/")
	name = strings.TrimLeft(name, "/")

	base := strings.TrimRight(baseURL, "/")
	return base + "/" + segment + "/" + name
}

// IsAbsolute reports whether loc is a full URL: http, https or file, or
// any other scheme followed by a host ("s3://bucket/x"). A bare name that
// merely contains a colon ("track:1.mp3") is relative.
func IsAbsolute(loc string) bool {
	u, err := url.Parse(loc)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "":
		return false
	case "http", "https", "file":
		return true
	}
	return u.Opaque == "" && u.Host != ""
}
