// Package media loads, scales and renders the page's media elements and
// talks to the capture device.
package media

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	_ "golang.org/x/image/webp"
)

// MaxImageBytes bounds a single image fetch.
const MaxImageBytes = 16 << 20

// ErrFetchDisabled is returned for remote sources when fetching is off.
var ErrFetchDisabled = errors.New("media: remote fetch disabled")

// Loader fetches images from URLs or local paths.
type Loader struct {
	Client  *http.Client
	Timeout time.Duration
	Remote  bool
}

// NewLoader returns a loader using its own HTTP client.
func NewLoader(remote bool, timeout time.Duration) *Loader {
	return &Loader{Client: &http.Client{}, Timeout: timeout, Remote: remote}
}

// IsRemote reports whether src is an http(s) URL.
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Load reads and decodes the image at src.
func (l *Loader) Load(ctx context.Context, src string) (image.Image, error) {
	rc, err := l.open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	img, _, err := image.Decode(io.LimitReader(rc, MaxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("media: decode %s: %w", src, err)
	}
	return img, nil
}

func (l *Loader) open(ctx context.Context, src string) (io.ReadCloser, error) {
	if !IsRemote(src) {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("media: open %s: %w", src, err)
		}
		return f, nil
	}
	if !l.Remote {
		return nil, ErrFetchDisabled
	}
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		// the body must stay readable until the caller closes it
		return l.get(ctx, src, cancel)
	}
	return l.get(ctx, src, func() {})
}

func (l *Loader) get(ctx context.Context, src string, cancel context.CancelFunc) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("media: request %s: %w", src, err)
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("media: fetch %s: %w", src, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("media: fetch %s: status %s", src, resp.Status)
	}
	return &cancelBody{ReadCloser: resp.Body, cancel: cancel}, nil
}

type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
