package sample

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func newFrame(t *testing.T, seed uint64) *Frame {
	t.Helper()
	f, err := NewFrame(rand.NewPCG(seed, seed), 20, "a", "b", "c")
	require.NoError(t, err)
	return f
}

func TestNewFrameShape(t *testing.T) {
	f := newFrame(t, 1)
	rows, cols := f.Dims()
	require.Equal(t, 20, rows)
	require.Equal(t, 3, cols)
	require.Equal(t, []string{"a", "b", "c"}, f.Columns())

	_, err := NewFrame(rand.NewPCG(1, 1), 0, "a")
	require.ErrorIs(t, err, ErrEmpty)
}

func TestNewFrameIsDeterministicPerSeedAndFreshPerSource(t *testing.T) {
	a, b, c := newFrame(t, 7), newFrame(t, 7), newFrame(t, 8)
	require.Equal(t, a.At(3, 1), b.At(3, 1))
	require.NotEqual(t, a.At(3, 1), c.At(3, 1))
}

func TestCSVRoundTrip(t *testing.T) {
	f := newFrame(t, 42)
	raw, err := f.MarshalCSV()
	require.NoError(t, err)

	back, err := ParseCSV(raw)
	require.NoError(t, err)
	require.Equal(t, f.Columns(), back.Columns())
	rows, cols := back.Dims()
	require.Equal(t, 20, rows)
	require.Equal(t, 3, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			require.InDelta(t, f.At(i, j), back.At(i, j), 1e-12)
		}
	}
}

func TestMarshalCSVHasHeaderAndNoIndex(t *testing.T) {
	f, err := FromRows([]string{"a", "b"}, [][]float64{{1.5, -2}, {0.25, 3}})
	require.NoError(t, err)
	raw, err := f.MarshalCSV()
	require.NoError(t, err)
	require.Equal(t, "a,b\n1.5,-2\n0.25,3\n", string(raw))
}

func TestParseCSVRejectsGarbage(t *testing.T) {
	_, err := ParseCSV([]byte("a,b\n1,x\n"))
	require.Error(t, err)
	_, err = ParseCSV([]byte("a,b\n"))
	require.ErrorIs(t, err, ErrEmpty)
}

func TestHeadAndCumSum(t *testing.T) {
	f, err := FromRows([]string{"a", "b"}, [][]float64{{1, 10}, {2, 20}, {3, 30}})
	require.NoError(t, err)

	head := f.Head(2)
	rows, _ := head.Dims()
	require.Equal(t, 2, rows)
	require.Equal(t, 2.0, head.At(1, 0))

	rows, _ = f.Head(99).Dims()
	require.Equal(t, 3, rows)

	cs := f.CumSum()
	col, ok := cs.Column("b")
	require.True(t, ok)
	require.Equal(t, []float64{10, 30, 60}, col)
	// source untouched
	require.Equal(t, 20.0, f.At(1, 1))

	lo, hi := f.valueRange()
	require.Equal(t, 1.0, lo)
	require.Equal(t, 30.0, hi)
}

func TestGeoFrameClustersAroundCenter(t *testing.T) {
	center := LatLon{Lat: 37.56, Lon: 126.97}
	g, err := NewGeoFrame(rand.NewPCG(3, 3), 100, center, 50)
	require.NoError(t, err)
	rows, cols := g.Dims()
	require.Equal(t, 100, rows)
	require.Equal(t, 2, cols)
	require.Equal(t, []string{"lat", "lon"}, g.Columns())

	lats, _ := g.Column("lat")
	lons, _ := g.Column("lon")
	var sumLat, sumLon float64
	for i := range lats {
		// 6 sigma at spread 50 is 0.12 degrees
		require.Less(t, math.Abs(lats[i]-center.Lat), 0.12)
		require.Less(t, math.Abs(lons[i]-center.Lon), 0.12)
		sumLat += lats[i]
		sumLon += lons[i]
	}
	require.InDelta(t, center.Lat, sumLat/100, 0.01)
	require.InDelta(t, center.Lon, sumLon/100, 0.01)
}

func TestFold(t *testing.T) {
	f, err := FromRows([]string{"a", "b", "c"}, [][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)

	long := Fold(f, "a", "c")
	require.Equal(t, []LongRow{
		{Index: 0, Variable: "a", Value: 1},
		{Index: 0, Variable: "c", Value: 3},
		{Index: 1, Variable: "a", Value: 4},
		{Index: 1, Variable: "c", Value: 6},
	}, long)
	require.Len(t, Fold(f), 6)
}
