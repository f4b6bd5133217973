package grid

import (
	"fmt"
	"math"
)

// NextPow2 returns the smallest power of two >= n (minimum 1).
func NextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PadEdgeSquare embeds the grid in an n x n square, centred, with the
// border filled by edge replication. The asymmetric remainder of the
// padding goes to the trailing side. It returns the padded grid and
// the row/column offsets of the original data inside it, so callers
// can crop back after a spectral transform. The mask of the padded
// grid is cleared; pad after filling no-data cells.
func (g *Grid) PadEdgeSquare(n int) (padded *Grid, rOff, cOff int, err error) {
	if n < g.Rows || n < g.Cols {
		return nil, 0, 0, fmt.Errorf("pad to %d smaller than %dx%d: %w", n, g.Rows, g.Cols, ErrShape)
	}
	rOff = (n - g.Rows) / 2
	cOff = (n - g.Cols) / 2
	padded = New(n, n)
	padded.Nodata = g.Nodata
	padded.CellSize = g.CellSize
	for r := 0; r < n; r++ {
		sr := clamp(r-rOff, 0, g.Rows-1)
		for c := 0; c < n; c++ {
			sc := clamp(c-cOff, 0, g.Cols-1)
			padded.Data[r*n+c] = g.At(sr, sc)
		}
	}
	return padded, rOff, cOff, nil
}

// boxSum returns the sum of the n x n window with top-left (r0, c0),
// reading out-of-range cells as zero.
func (g *Grid) boxSum(r0, c0, n int) float64 {
	sum := 0.0
	for r := r0; r < r0+n; r++ {
		if r < 0 || r >= g.Rows {
			continue
		}
		for c := c0; c < c0+n; c++ {
			if c < 0 || c >= g.Cols {
				continue
			}
			sum += g.At(r, c)
		}
	}
	return sum
}

// BoxSmoothValid convolves the grid with a uniform n x n averaging
// kernel in valid mode: the output shrinks by n-1 cells on each axis.
// The mask is smoothed alongside; an output cell is masked when any
// input cell under the kernel was masked. n must be odd and no larger
// than either dimension.
func (g *Grid) BoxSmoothValid(n int) (*Grid, error) {
	if n < 1 || n%2 == 0 {
		return nil, fmt.Errorf("smoothing size %d must be odd and positive: %w", n, ErrParam)
	}
	rows, cols := g.Rows-n+1, g.Cols-n+1
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("smoothing size %d exceeds %dx%d grid: %w", n, g.Rows, g.Cols, ErrShape)
	}
	inv := 1.0 / float64(n*n)
	out := New(rows, cols)
	out.Nodata = g.Nodata
	out.CellSize = g.CellSize
	out.XLL = g.XLL + float64(n/2)*g.CellSize
	out.YLL = g.YLL + float64(n/2)*g.CellSize
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out.Data[r*cols+c] = g.boxSum(r, c, n) * inv
			masked := false
			for wr := r; wr < r+n && !masked; wr++ {
				for wc := c; wc < c+n; wc++ {
					if g.IsMasked(wr, wc) {
						masked = true
						break
					}
				}
			}
			out.Mask[r*cols+c] = masked
		}
	}
	return out, nil
}

// BoxSmoothSame convolves the grid with a uniform n x n averaging
// kernel in same mode with zero padding, preserving the shape. The
// output mask is cleared; callers re-apply masking as needed.
func (g *Grid) BoxSmoothSame(n int) (*Grid, error) {
	if n < 1 || n%2 == 0 {
		return nil, fmt.Errorf("smoothing size %d must be odd and positive: %w", n, ErrParam)
	}
	half := n / 2
	inv := 1.0 / float64(n*n)
	out := g.NewLike()
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			out.Data[r*g.Cols+c] = g.boxSum(r-half, c-half, n) * inv
		}
	}
	return out, nil
}

// AllFinite reports whether every unmasked sample is finite.
func (g *Grid) AllFinite() bool {
	for i, v := range g.Data {
		if g.Mask[i] {
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
