//go:build !linux

package media

import (
	"context"
	"fmt"
	"image"
)

func (d *Device) Probe() error {
	return fmt.Errorf("%w: capture is only implemented for v4l2", ErrCameraUnavailable)
}

func (d *Device) Capture(context.Context) (image.Image, error) {
	return nil, d.Probe()
}
