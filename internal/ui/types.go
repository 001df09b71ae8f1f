package ui

import (
	"fmt"
	"image"
	"time"
)

// Tabular is the shape of data the frame and chart elements accept.
type Tabular interface {
	Columns() []string
	Dims() (rows, cols int)
	At(i, j int) float64
}

// Point is one long-form sample: a value of one series at x.
type Point struct {
	X, Y   float64
	Series string
}

// GeoPoint is a map marker in degrees.
type GeoPoint struct {
	Lat, Lon float64
}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour, Minute, Second int
}

const day = 24 * time.Hour

func (t TimeOfDay) duration() time.Duration {
	return time.Duration(t.Hour)*time.Hour + time.Duration(t.Minute)*time.Minute + time.Duration(t.Second)*time.Second
}

// Add moves t by d, wrapping around midnight.
func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	total := (t.duration() + d) % day
	if total < 0 {
		total += day
	}
	return TimeOfDay{
		Hour:   int(total / time.Hour),
		Minute: int(total % time.Hour / time.Minute),
		Second: int(total % time.Minute / time.Second),
	}
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// ParseTimeOfDay accepts "15:04" and "15:04:05".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return TimeOfDay{Hour: ts.Hour(), Minute: ts.Minute(), Second: ts.Second()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("%w: time %q", ErrInvalidInput, s)
}

// UploadedFile is a file handed to a file uploader.
type UploadedFile struct {
	ID   string
	Name string
	Type string
	Size int64
	Data []byte
}

// Capture is a still frame taken by a camera input.
type Capture struct {
	Image   image.Image
	TakenAt time.Time
}

// Camera reports whether a capture device is usable.
type Camera interface {
	Probe() error
}
