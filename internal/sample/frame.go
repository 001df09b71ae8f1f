// Package sample generates the synthetic frames the demo page charts.
package sample

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrEmpty is returned when a frame would have no rows or columns.
var ErrEmpty = errors.New("sample: empty frame")

// Frame is a dense matrix of float64 values with named columns.
type Frame struct {
	cols []string
	data *mat.Dense
}

// NewFrame fills a rows×len(cols) frame with standard normal draws from src.
func NewFrame(src rand.Source, rows int, cols ...string) (*Frame, error) {
	if rows <= 0 || len(cols) == 0 {
		return nil, ErrEmpty
	}
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	data := make([]float64, rows*len(cols))
	for i := range data {
		data[i] = norm.Rand()
	}
	return &Frame{cols: append([]string(nil), cols...), data: mat.NewDense(rows, len(cols), data)}, nil
}

// FromRows builds a frame from row-major values.
func FromRows(cols []string, rows [][]float64) (*Frame, error) {
	if len(rows) == 0 || len(cols) == 0 {
		return nil, ErrEmpty
	}
	data := make([]float64, 0, len(rows)*len(cols))
	for i, r := range rows {
		if len(r) != len(cols) {
			return nil, fmt.Errorf("sample: row %d has %d values, want %d", i, len(r), len(cols))
		}
		data = append(data, r...)
	}
	return &Frame{cols: append([]string(nil), cols...), data: mat.NewDense(len(rows), len(cols), data)}, nil
}

// Columns returns the column names.
func (f *Frame) Columns() []string { return append([]string(nil), f.cols...) }

// Dims returns the number of rows and columns.
func (f *Frame) Dims() (int, int) { return f.data.Dims() }

// At returns the value at row i, column j.
func (f *Frame) At(i, j int) float64 { return f.data.At(i, j) }

// Column returns a copy of the named column.
func (f *Frame) Column(name string) ([]float64, bool) {
	for j, c := range f.cols {
		if c == name {
			return mat.Col(nil, j, f.data), true
		}
	}
	return nil, false
}

// Head returns the first n rows. n is clamped to [1, rows].
func (f *Frame) Head(n int) *Frame {
	rows, cols := f.data.Dims()
	n = max(1, min(n, rows))
	view := f.data.Slice(0, n, 0, cols)
	return &Frame{cols: f.Columns(), data: mat.DenseCopyOf(view)}
}

// CumSum returns the running sum down each column.
func (f *Frame) CumSum() *Frame {
	rows, cols := f.data.Dims()
	out := mat.NewDense(rows, cols, nil)
	for j := 0; j < cols; j++ {
		var acc float64
		for i := 0; i < rows; i++ {
			acc += f.data.At(i, j)
			out.Set(i, j, acc)
		}
	}
	return &Frame{cols: f.Columns(), data: out}
}

// valueRange returns the smallest and largest value in the frame.
func (f *Frame) valueRange() (lo, hi float64) {
	return mat.Min(f.data), mat.Max(f.data)
}

// MarshalCSV encodes the frame as UTF-8 CSV with a header row and no index
// column. Values use the shortest representation that parses back exactly.
func (f *Frame) MarshalCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(f.cols); err != nil {
		return nil, err
	}
	rows, cols := f.data.Dims()
	rec := make([]string, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			rec[j] = strconv.FormatFloat(f.data.At(i, j), 'g', -1, 64)
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("sample: write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseCSV decodes CSV produced by MarshalCSV.
func ParseCSV(b []byte) (*Frame, error) {
	records, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("sample: read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, ErrEmpty
	}
	header := records[0]
	rows := make([][]float64, 0, len(records)-1)
	for i, rec := range records[1:] {
		row := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("sample: row %d column %q: %w", i+1, header[j], err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return FromRows(header, rows)
}
