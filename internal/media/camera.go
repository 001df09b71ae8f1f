package media

import (
	"context"
	"errors"
	"image"
	"time"
)

// ErrCameraUnavailable wraps every reason a capture cannot happen: no
// device, no permission, or a device this reader cannot drive.
var ErrCameraUnavailable = errors.New("media: camera unavailable")

// Camera captures still frames.
type Camera interface {
	// Probe reports whether Capture can work, without capturing.
	Probe() error
	Capture(ctx context.Context) (image.Image, error)
}

// Device is a V4L2 capture device read through read(2).
type Device struct {
	Path    string
	Timeout time.Duration
}

// NewDevice returns a camera for the device node at path.
func NewDevice(path string, timeout time.Duration) *Device {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Device{Path: path, Timeout: timeout}
}

// Static is a Camera that always returns the same frame or error.
type Static struct {
	Frame image.Image
	Err   error
}

func (s Static) Probe() error { return s.Err }

func (s Static) Capture(context.Context) (image.Image, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Frame, nil
}
