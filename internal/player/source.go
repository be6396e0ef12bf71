package player

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/wav"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
)

// source is a seekable media body with its detected extension.
type source struct {
	io.ReadSeeker
	io.Closer
	ext  string
	size int64
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func isRemote(uri string) bool {
	return strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://")
}

// openSource opens a local path, a file:// URI, or downloads a remote URI into memory.
func openSource(ctx context.Context, client *http.Client, uri string) (*source, error) {
	if isRemote(uri) {
		return fetchSource(ctx, client, uri)
	}

	p := strings.TrimPrefix(uri, "file://")
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	var size int64
	if fi, err := f.Stat(); err == nil {
		size = fi.Size()
	}
	return &source{ReadSeeker: f, Closer: f, ext: strings.ToLower(filepath.Ext(p)), size: size}, nil
}

func fetchSource(ctx context.Context, client *http.Client, uri string) (*source, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", uri, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", uri, err)
	}

	return &source{
		ReadSeeker: bytes.NewReader(data),
		Closer:     nopCloser{},
		ext:        remoteExt(uri, resp.Header.Get("Content-Type")),
		size:       int64(len(data)),
	}, nil
}

// remoteExt guesses the format of a remote body from its URL path, then its content type.
func remoteExt(uri, contentType string) string {
	if u, err := url.Parse(uri); err == nil {
		if ext := strings.ToLower(path.Ext(u.Path)); ext != "" {
			return ext
		}
	}
	mt, _, _ := mime.ParseMediaType(contentType)
	switch mt {
	case "audio/mpeg", "audio/mp3":
		return extMP3
	case "audio/flac", "audio/x-flac":
		return extFLAC
	case "audio/wav", "audio/x-wav", "audio/wave":
		return extWAV
	}
	return ""
}

func (s *source) String() string {
	return s.ext + " " + humanize.IBytes(uint64(max(s.size, 0))) //nolint:gosec // clamped
}

// decode picks a decoder by extension. The returned streamer owns src.
func decode(src *source) (beep.StreamSeekCloser, beep.Format, error) {
	switch src.ext {
	case extMP3:
		return decodeGoMP3(src)
	case extFLAC:
		// Some taggers prepend an ID3v2 tag to FLAC files.
		if err := skipID3v2(src); err != nil {
			return nil, beep.Format{}, err
		}
		return flac.Decode(src)
	case extWAV:
		return wav.Decode(src)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, src.ext)
	}
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of r.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && n == 0 {
		return err
	}
	if n < 10 || string(header[0:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// syncsafe integer: 7 bits per byte
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
