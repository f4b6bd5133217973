package grid

import (
	"fmt"
	"math"
)

// DefaultNodata is the placeholder written for masked cells on export.
// The value matches common geophysics interchange conventions.
const DefaultNodata = 1e20

// Grid is a 2D raster: row-major samples plus an aligned no-data mask.
// Mask[i] == true marks Data[i] as invalid. Rows*Cols == len(Data) ==
// len(Mask) always holds for grids built through the constructors.
type Grid struct {
	Rows int
	Cols int

	// Data holds samples row-major: Data[r*Cols+c].
	Data []float64

	// Mask flags invalid cells. Same indexing as Data.
	Mask []bool

	// Nodata is the scalar substituted for masked cells on export.
	Nodata float64

	// Georeferencing: lower-left corner and square cell size.
	XLL, YLL float64
	CellSize float64
}

// New returns a zero-filled grid of the given dimensions.
func New(rows, cols int) *Grid {
	return &Grid{
		Rows:     rows,
		Cols:     cols,
		Data:     make([]float64, rows*cols),
		Mask:     make([]bool, rows*cols),
		Nodata:   DefaultNodata,
		CellSize: 1,
	}
}

// FromRows builds a grid from a slice of equal-length rows.
// Returns an error wrapping ErrShape when the rows are ragged or empty.
func FromRows(rows [][]float64) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("empty input: %w", ErrShape)
	}
	cols := len(rows[0])
	g := New(len(rows), cols)
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d cols, want %d: %w", r, len(row), cols, ErrShape)
		}
		copy(g.Data[r*cols:(r+1)*cols], row)
	}
	return g, nil
}

// Idx returns the flat index for (row, col).
func (g *Grid) Idx(r, c int) int { return r*g.Cols + c }

// At returns the sample at (row, col).
func (g *Grid) At(r, c int) float64 { return g.Data[r*g.Cols+c] }

// Set stores a sample at (row, col).
func (g *Grid) Set(r, c int, v float64) { g.Data[r*g.Cols+c] = v }

// IsMasked reports whether (row, col) is a no-data cell.
func (g *Grid) IsMasked(r, c int) bool { return g.Mask[r*g.Cols+c] }

// SetMask flags or clears the no-data state of (row, col).
func (g *Grid) SetMask(r, c int, m bool) { g.Mask[r*g.Cols+c] = m }

// Clone returns a deep copy. Every engine clones its input before
// touching values or mask, so callers keep ownership of their grids.
func (g *Grid) Clone() *Grid {
	out := &Grid{
		Rows:     g.Rows,
		Cols:     g.Cols,
		Data:     make([]float64, len(g.Data)),
		Mask:     make([]bool, len(g.Mask)),
		Nodata:   g.Nodata,
		XLL:      g.XLL,
		YLL:      g.YLL,
		CellSize: g.CellSize,
	}
	copy(out.Data, g.Data)
	copy(out.Mask, g.Mask)
	return out
}

// NewLike returns a zero grid with the same shape, nodata and
// georeferencing as g, and a cleared mask.
func (g *Grid) NewLike() *Grid {
	out := New(g.Rows, g.Cols)
	out.Nodata = g.Nodata
	out.XLL = g.XLL
	out.YLL = g.YLL
	out.CellSize = g.CellSize
	return out
}

// FillMasked overwrites every masked cell's value with v. The mask
// itself is left untouched so downstream steps can still trim by it.
func (g *Grid) FillMasked(v float64) {
	for i, m := range g.Mask {
		if m {
			g.Data[i] = v
		}
	}
}

// FillInvalid overwrites masked, NaN and Inf cells with v. NaN/Inf
// cells keep their mask state; only the stored value changes.
func (g *Grid) FillInvalid(v float64) {
	for i := range g.Data {
		if g.Mask[i] || math.IsNaN(g.Data[i]) || math.IsInf(g.Data[i], 0) {
			g.Data[i] = v
		}
	}
}

// AllMasked reports whether the grid has no valid cell.
func (g *Grid) AllMasked() bool {
	for _, m := range g.Mask {
		if !m {
			return false
		}
	}
	return true
}

// Trim returns a copy with a border of width w removed on every edge,
// with the origin shifted so the remaining cells keep their world
// coordinates. Returns an error wrapping ErrShape when nothing is left.
func (g *Grid) Trim(w int) (*Grid, error) {
	if w < 0 {
		return nil, fmt.Errorf("negative trim width %d: %w", w, ErrParam)
	}
	rows, cols := g.Rows-2*w, g.Cols-2*w
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("trim %d leaves %dx%d of %dx%d: %w", w, rows, cols, g.Rows, g.Cols, ErrShape)
	}
	out := New(rows, cols)
	out.Nodata = g.Nodata
	out.CellSize = g.CellSize
	out.XLL = g.XLL + float64(w)*g.CellSize
	out.YLL = g.YLL + float64(w)*g.CellSize
	for r := 0; r < rows; r++ {
		src := g.Idx(r+w, w)
		copy(out.Data[r*cols:(r+1)*cols], g.Data[src:src+cols])
		copy(out.Mask[r*cols:(r+1)*cols], g.Mask[src:src+cols])
	}
	return out, nil
}
