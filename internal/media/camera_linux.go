//go:build linux

package media

import (
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	vidiocQueryCap = 0x80685600 // _IOR('V', 0, struct v4l2_capability)
	vidiocGetFmt   = 0xc0d05604 // _IOWR('V', 4, struct v4l2_format)

	capVideoCapture = 0x00000001
	capReadWrite    = 0x01000000
	capDeviceCaps   = 0x80000000

	bufTypeVideoCapture = 1
	pixFmtYUYV          = 'Y' | 'U'<<8 | 'Y'<<16 | 'V'<<24
)

type pixFormat struct {
	width, height, pixelFormat, bytesPerLine, sizeImage uint32
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg)); errno != 0 {
		return errno
	}
	return nil
}

func (d *Device) open() (int, error) {
	fd, err := unix.Open(d.Path, unix.O_RDWR|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return -1, fmt.Errorf("%w: open %s: %v", ErrCameraUnavailable, d.Path, err)
	}
	return fd, nil
}

func (d *Device) queryCaps(fd int) error {
	var buf [104]byte
	if err := ioctl(fd, vidiocQueryCap, unsafe.Pointer(&buf[0])); err != nil {
		return fmt.Errorf("%w: %s is not a v4l2 device: %v", ErrCameraUnavailable, d.Path, err)
	}
	caps := binary.NativeEndian.Uint32(buf[84:88])
	if caps&capDeviceCaps != 0 {
		caps = binary.NativeEndian.Uint32(buf[88:92])
	}
	if caps&capVideoCapture == 0 {
		return fmt.Errorf("%w: %s cannot capture video", ErrCameraUnavailable, d.Path)
	}
	if caps&capReadWrite == 0 {
		return fmt.Errorf("%w: %s does not support read() capture", ErrCameraUnavailable, d.Path)
	}
	return nil
}

func (d *Device) format(fd int) (pixFormat, error) {
	var buf [208]byte
	binary.NativeEndian.PutUint32(buf[0:4], bufTypeVideoCapture)
	if err := ioctl(fd, vidiocGetFmt, unsafe.Pointer(&buf[0])); err != nil {
		return pixFormat{}, fmt.Errorf("%w: get format: %v", ErrCameraUnavailable, err)
	}
	f := pixFormat{
		width:        binary.NativeEndian.Uint32(buf[8:12]),
		height:       binary.NativeEndian.Uint32(buf[12:16]),
		pixelFormat:  binary.NativeEndian.Uint32(buf[16:20]),
		bytesPerLine: binary.NativeEndian.Uint32(buf[24:28]),
		sizeImage:    binary.NativeEndian.Uint32(buf[28:32]),
	}
	if f.pixelFormat != pixFmtYUYV {
		return pixFormat{}, fmt.Errorf("%w: unsupported pixel format %#x", ErrCameraUnavailable, f.pixelFormat)
	}
	if f.bytesPerLine == 0 {
		f.bytesPerLine = f.width * 2
	}
	if f.sizeImage == 0 {
		f.sizeImage = f.bytesPerLine * f.height
	}
	return f, nil
}

// Probe opens the device and checks it can deliver YUYV frames via read().
func (d *Device) Probe() error {
	fd, err := d.open()
	if err != nil {
		return err
	}
	defer unix.Close(fd)
	if err := d.queryCaps(fd); err != nil {
		return err
	}
	_, err = d.format(fd)
	return err
}

// Capture reads one frame.
func (d *Device) Capture(ctx context.Context) (image.Image, error) {
	fd, err := d.open()
	if err != nil {
		return nil, err
	}
	defer unix.Close(fd)
	if err := d.queryCaps(fd); err != nil {
		return nil, err
	}
	f, err := d.format(fd)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(d.Timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	buf := make([]byte, f.sizeImage)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		wait := time.Until(deadline)
		if wait <= 0 {
			return nil, fmt.Errorf("%w: timed out waiting for a frame", ErrCameraUnavailable)
		}
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, int(min(wait, 100*time.Millisecond)/time.Millisecond)+1)
		if err == unix.EINTR || n == 0 {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: poll: %v", ErrCameraUnavailable, err)
		}
		read, err := unix.Read(fd, buf)
		if err == unix.EAGAIN {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read: %v", ErrCameraUnavailable, err)
		}
		if read < int(f.bytesPerLine*f.height) {
			return nil, fmt.Errorf("%w: short frame (%d bytes)", ErrCameraUnavailable, read)
		}
		return yuyvToImage(buf, int(f.width), int(f.height), int(f.bytesPerLine)), nil
	}
}

func yuyvToImage(buf []byte, w, h, stride int) *image.YCbCr {
	img := image.NewYCbCr(image.Rect(0, 0, w, h), image.YCbCrSubsampleRatio422)
	for y := 0; y < h; y++ {
		row := buf[y*stride:]
		for x := 0; x+1 < w; x += 2 {
			i := x * 2
			img.Y[y*img.YStride+x] = row[i]
			img.Y[y*img.YStride+x+1] = row[i+2]
			img.Cb[y*img.CStride+x/2] = row[i+1]
			img.Cr[y*img.CStride+x/2] = row[i+3]
		}
	}
	return img
}
