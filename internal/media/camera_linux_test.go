//go:build linux

package media

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeviceNotV4L2(t *testing.T) {
	// /dev/null opens fine but rejects VIDIOC_QUERYCAP
	d := NewDevice("/dev/null", 0)
	require.ErrorIs(t, d.Probe(), ErrCameraUnavailable)
}

func TestYUYVToImage(t *testing.T) {
	// two pixels per macropixel: Y0 U Y1 V
	buf := []byte{
		10, 100, 20, 200, 30, 101, 40, 201,
		50, 102, 60, 202, 70, 103, 80, 203,
	}
	img := yuyvToImage(buf, 4, 2, 8)
	require.Equal(t, []byte{10, 20, 30, 40}, img.Y[0:4])
	require.Equal(t, []byte{50, 60, 70, 80}, img.Y[img.YStride:img.YStride+4])
	require.Equal(t, byte(100), img.Cb[0])
	require.Equal(t, byte(201), img.Cr[1])
	require.Equal(t, byte(103), img.Cb[img.CStride+1])
}
