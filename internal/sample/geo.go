package sample

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// LatLon is a coordinate in degrees.
type LatLon struct {
	Lat, Lon float64
}

// NewGeoFrame returns n points with lat/lon columns scattered around center.
// Offsets are standard normal draws divided by spread.
func NewGeoFrame(src rand.Source, n int, center LatLon, spread float64) (*Frame, error) {
	if n <= 0 || spread == 0 {
		return nil, ErrEmpty
	}
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	data := make([]float64, 0, n*2)
	for i := 0; i < n; i++ {
		data = append(data, norm.Rand()/spread+center.Lat, norm.Rand()/spread+center.Lon)
	}
	return &Frame{cols: []string{"lat", "lon"}, data: mat.NewDense(n, 2, data)}, nil
}
