package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func checker(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFitKeepsAspectWithEvenHeight(t *testing.T) {
	dst := Fit(checker(100, 50), 20)
	require.Equal(t, 20, dst.Bounds().Dx())
	require.Equal(t, 10, dst.Bounds().Dy())

	dst = Fit(checker(30, 10), 10)
	require.Equal(t, 4, dst.Bounds().Dy(), "odd heights round up")

	require.Equal(t, 0, Fit(checker(10, 10), 0).Bounds().Dx())
}

func TestHalfBlockDimensions(t *testing.T) {
	out := HalfBlock(checker(40, 40), 12)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	for _, l := range lines {
		require.Equal(t, 12, ansi.StringWidth(l))
		require.Contains(t, l, "▀")
	}
}

func TestLoaderRemote(t *testing.T) {
	body := pngBytes(t, checker(8, 4))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	l := NewLoader(true, 2*time.Second)
	img, err := l.Load(context.Background(), srv.URL+"/dice.png")
	require.NoError(t, err)
	require.Equal(t, 8, img.Bounds().Dx())

	_, err = l.Load(context.Background(), srv.URL+"/missing.png")
	require.ErrorContains(t, err, "404")

	off := NewLoader(false, time.Second)
	_, err = off.Load(context.Background(), srv.URL+"/dice.png")
	require.ErrorIs(t, err, ErrFetchDisabled)
}

func TestLoaderLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, checker(6, 6)), 0o600))

	img, err := NewLoader(false, 0).Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 6, img.Bounds().Dy())

	_, err = NewLoader(false, 0).Load(context.Background(), filepath.Join(t.TempDir(), "none.png"))
	require.Error(t, err)
}

func TestIsRemote(t *testing.T) {
	require.True(t, IsRemote("https://static.streamlit.io/examples/dice.jpg"))
	require.True(t, IsRemote("http://x"))
	require.False(t, IsRemote("/tmp/x.png"))
}

func TestDeviceMissingIsUnavailable(t *testing.T) {
	d := NewDevice(filepath.Join(t.TempDir(), "video9"), time.Second)
	require.ErrorIs(t, d.Probe(), ErrCameraUnavailable)
	_, err := d.Capture(context.Background())
	require.ErrorIs(t, err, ErrCameraUnavailable)
}

func TestStaticCamera(t *testing.T) {
	frame := checker(2, 2)
	img, err := Static{Frame: frame}.Capture(context.Background())
	require.NoError(t, err)
	require.Equal(t, frame, img)

	s := Static{Err: ErrCameraUnavailable}
	require.ErrorIs(t, s.Probe(), ErrCameraUnavailable)
}
