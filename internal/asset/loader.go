package asset

import (
	"context"
	"fmt"
	"image"
	_ "image/png" // sprite sheets are PNG files
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"time"

	"github.com/tomz197/spacerocks/internal/audio"
)

// FSLoader loads assets from a file system (a directory, an embed.FS, a test MapFS).
type FSLoader struct {
	fsys fs.FS
	out  *audio.Output
}

// NewFSLoader creates a loader reading from fsys. Sounds are played through out.
func NewFSLoader(fsys fs.FS, out *audio.Output) *FSLoader {
	return &FSLoader{fsys: fsys, out: out}
}

// LoadImage decodes the image at path.
func (l *FSLoader) LoadImage(path string) (*Image, error) {
	f, err := l.fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load image %q: %w", path, err)
	}
	defer f.Close()
	return decodeImage(path, f)
}

// LoadSound decodes the sound at path into memory.
func (l *FSLoader) LoadSound(path string) (Sound, error) {
	f, err := l.fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load sound %q: %w", path, err)
	}
	return decodeSound(l.out, path, f)
}

// HTTPLoader fetches assets relative to a base URL.
type HTTPLoader struct {
	base   *url.URL
	client *http.Client
	out    *audio.Output
}

// NewHTTPLoader creates a loader for assets under baseURL.
// A nil client uses a default one with a 30 second timeout.
func NewHTTPLoader(baseURL string, client *http.Client, out *audio.Output) (*HTTPLoader, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse asset url %q: %w", baseURL, err)
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPLoader{base: base, client: client, out: out}, nil
}

// LoadImage downloads and decodes the image at path.
func (l *HTTPLoader) LoadImage(path string) (*Image, error) {
	body, err := l.fetch(path)
	if err != nil {
		return nil, fmt.Errorf("load image %q: %w", path, err)
	}
	defer body.Close()
	return decodeImage(path, body)
}

// LoadSound downloads and decodes the sound at path.
func (l *HTTPLoader) LoadSound(path string) (Sound, error) {
	body, err := l.fetch(path)
	if err != nil {
		return nil, fmt.Errorf("load sound %q: %w", path, err)
	}
	return decodeSound(l.out, path, body)
}

func (l *HTTPLoader) fetch(path string) (io.ReadCloser, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, l.base.ResolveReference(ref).String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

func decodeImage(path string, r io.Reader) (*Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", path, err)
	}
	return &Image{Path: path, Src: img}, nil
}

func decodeSound(out *audio.Output, path string, r io.ReadCloser) (Sound, error) {
	buf, err := out.Decode(path, r)
	if err != nil {
		return nil, fmt.Errorf("load sound %q: %w", path, err)
	}
	return out.NewClip(buf), nil
}
