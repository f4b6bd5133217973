package grid

// Gradient computes first differences along both axes: central
// differences for interior cells, one-sided differences at the edges.
// The returned planes are row-major with the same shape as the grid
// (dRow = change per row step, dCol = change per column step). The
// mask is ignored; callers fill invalid cells before differentiating.
func (g *Grid) Gradient() (dRow, dCol []float64) {
	rows, cols := g.Rows, g.Cols
	dRow = make([]float64, rows*cols)
	dCol = make([]float64, rows*cols)

	for c := 0; c < cols; c++ {
		if rows == 1 {
			continue
		}
		dRow[c] = g.At(1, c) - g.At(0, c)
		dRow[(rows-1)*cols+c] = g.At(rows-1, c) - g.At(rows-2, c)
		for r := 1; r < rows-1; r++ {
			dRow[r*cols+c] = 0.5 * (g.At(r+1, c) - g.At(r-1, c))
		}
	}

	for r := 0; r < rows; r++ {
		if cols == 1 {
			continue
		}
		dCol[r*cols] = g.At(r, 1) - g.At(r, 0)
		dCol[r*cols+cols-1] = g.At(r, cols-1) - g.At(r, cols-2)
		for c := 1; c < cols-1; c++ {
			dCol[r*cols+c] = 0.5 * (g.At(r, c+1) - g.At(r, c-1))
		}
	}

	return dRow, dCol
}
