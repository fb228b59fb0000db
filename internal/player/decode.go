package player

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// ErrUnsupportedFormat is returned when neither the content type nor the
// locator extension names a decodable format.
var ErrUnsupportedFormat = errors.New("unsupported format")

type mediaFormat string

const (
	formatMP3    mediaFormat = "mp3"
	formatFLAC   mediaFormat = "flac"
	formatVorbis mediaFormat = "vorbis"
	formatWAV    mediaFormat = "wav"
)

var contentTypes = map[string]mediaFormat{
	"audio/mpeg":      formatMP3,
	"audio/mp3":       formatMP3,
	"audio/flac":      formatFLAC,
	"audio/x-flac":    formatFLAC,
	"audio/ogg":       formatVorbis,
	"audio/vorbis":    formatVorbis,
	"application/ogg": formatVorbis,
	"audio/wav":       formatWAV,
	"audio/x-wav":     formatWAV,
	"audio/wave":      formatWAV,
}

var extensions = map[string]mediaFormat{
	".mp3":  formatMP3,
	".flac": formatFLAC,
	".ogg":  formatVorbis,
	".oga":  formatVorbis,
	".wav":  formatWAV,
}

// detectFormat picks a decoder from the response content type, falling back
// to the locator's extension when the server sends something generic.
func detectFormat(contentType, locator string) (mediaFormat, error) {
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil {
			if f, ok := contentTypes[strings.ToLower(mt)]; ok {
				return f, nil
			}
		}
	}

	p := locator
	if u, err := url.Parse(locator); err == nil && u.Path != "" {
		p = u.Path
	}
	if f, ok := extensions[strings.ToLower(path.Ext(p))]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, locator)
}

// decode turns a buffered source into a seekable beep stream.
func decode(src *mediaSource) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := detectFormat(src.contentType, src.url)
	if err != nil {
		return nil, beep.Format{}, err
	}

	switch f {
	case formatMP3:
		return decodeGoMP3(src)
	case formatFLAC:
		if err := skipID3v2(src); err != nil {
			return nil, beep.Format{}, err
		}
		return flac.Decode(src)
	case formatVorbis:
		return vorbis.Decode(src)
	case formatWAV:
		return wav.Decode(src)
	}
	return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
}

// skipID3v2 advances past a leading ID3v2 tag. Some taggers prepend one to
// FLAC files, which the FLAC decoder rejects.
func skipID3v2(src *mediaSource) error {
	var header [10]byte
	n, _ := src.ReadAt(header[:], 0)
	if n < len(header) || string(header[:3]) != "ID3" {
		return nil
	}
	size := int64(header[6]&0x7f)<<21 | int64(header[7]&0x7f)<<14 |
		int64(header[8]&0x7f)<<7 | int64(header[9]&0x7f)
	if header[5]&0x10 != 0 {
		size += 10 // footer present
	}
	_, err := src.Seek(int64(len(header))+size, io.SeekStart)
	return err
}
