package sample

// LongRow is one (index, variable, value) triple of a folded frame.
type LongRow struct {
	Index    int
	Variable string
	Value    float64
}

// Fold converts the named columns to long form, keyed by row index. With no
// names every column is folded. Unknown names are skipped.
func Fold(f *Frame, names ...string) []LongRow {
	if len(names) == 0 {
		names = f.cols
	}
	rows, _ := f.Dims()
	var out []LongRow
	for i := 0; i < rows; i++ {
		for _, name := range names {
			for j, c := range f.cols {
				if c == name {
					out = append(out, LongRow{Index: i, Variable: name, Value: f.At(i, j)})
				}
			}
		}
	}
	return out
}
