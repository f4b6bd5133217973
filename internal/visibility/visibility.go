package visibility

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/strata-geo/gridfilter/internal/grid"
	"github.com/strata-geo/gridfilter/internal/progress"
)

// Result carries the three derived rasters of a visibility sweep. All
// three are trimmed by the window half-width on every edge and carry
// the identically trimmed input mask.
type Result struct {
	// Total is the sum of the eight directional visibility counts.
	Total *grid.Grid
	// Stddev is the sample standard deviation across the eight counts.
	Stddev *grid.Grid
	// Resultant is the magnitude of the vector sum of the directional
	// counts, diagonals projected by cos/sin 45 degrees.
	Resultant *grid.Grid
}

// Compute runs the visibility sweep over g with an observer lifted
// heightOffset above each cell and a window of wsize cells per axis.
// Masked cells are filled with the global mean before sweeping; the
// input grid itself is never modified. rep is stepped once per outer
// column of each directional pass, and ctx is checked at the same
// boundaries; on cancellation no outputs are returned.
func Compute(ctx context.Context, g *grid.Grid, wsize int, heightOffset float64, rep progress.Reporter) (*Result, error) {
	if wsize < 3 || wsize%2 == 0 {
		return nil, fmt.Errorf("window size %d must be odd and >= 3: %w", wsize, grid.ErrParam)
	}
	w2 := wsize / 2
	nr, nc := g.Rows, g.Cols
	if nr-2*w2 < 1 || nc-2*w2 < 1 {
		return nil, fmt.Errorf("window %d leaves no interior on %dx%d grid: %w", wsize, nr, nc, grid.ErrShape)
	}
	if rep == nil {
		rep = progress.Discard
	}

	mean, err := g.Mean()
	if err != nil {
		return nil, fmt.Errorf("visibility: %w", err)
	}
	work := g.Clone()
	work.FillMasked(mean)

	// Eight full-shape planes of per-ray counts; only cells reachable
	// by a full window along the relevant axis are ever written.
	vn := make([]float64, nr*nc) // north: forward along rows in a column window
	vs := make([]float64, nr*nc) // south: backward along rows
	ve := make([]float64, nr*nc) // east: forward along columns in a row window
	vw := make([]float64, nr*nc) // west: backward along columns
	vd1 := make([]float64, nr*nc)
	vd2 := make([]float64, nr*nc)
	vd3 := make([]float64, nr*nc)
	vd4 := make([]float64, nr*nc)

	total := nc + 2*(nc-2*w2)
	done := 0
	step := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		done++
		rep.Step(done, total)
		return nil
	}

	win := make([]float64, wsize)

	// Column windows: north/south rays for every column.
	for j := 0; j < nc; j++ {
		if err := step(); err != nil {
			return nil, err
		}
		for i := w2; i < nr-w2; i++ {
			for k := 0; k < wsize; k++ {
				win[k] = work.At(i-w2+k, j)
			}
			vn[i*nc+j] = float64(visibleForward(win, heightOffset))
			vs[i*nc+j] = float64(visibleBackward(win, heightOffset))
		}
	}

	// Row windows: east/west rays for interior columns.
	for j := w2; j < nc-w2; j++ {
		if err := step(); err != nil {
			return nil, err
		}
		for i := 0; i < nr; i++ {
			for k := 0; k < wsize; k++ {
				win[k] = work.At(i, j-w2+k)
			}
			ve[i*nc+j] = float64(visibleForward(win, heightOffset))
			vw[i*nc+j] = float64(visibleBackward(win, heightOffset))
		}
	}

	// Diagonal windows for the interior.
	for j := w2; j < nc-w2; j++ {
		if err := step(); err != nil {
			return nil, err
		}
		for i := w2; i < nr-w2; i++ {
			for k := 0; k < wsize; k++ {
				win[k] = work.At(i-w2+k, j-w2+k)
			}
			vd1[i*nc+j] = float64(visibleForward(win, heightOffset))
			vd2[i*nc+j] = float64(visibleBackward(win, heightOffset))
			for k := 0; k < wsize; k++ {
				win[k] = work.At(i+w2-k, j-w2+k)
			}
			vd3[i*nc+j] = float64(visibleForward(win, heightOffset))
			vd4[i*nc+j] = float64(visibleBackward(win, heightOffset))
		}
	}

	// Aggregate over the trimmed interior only; the border lacks a
	// full window and is excluded from every output.
	tpl, err := g.Trim(w2)
	if err != nil {
		return nil, err
	}
	res := &Result{Total: tpl.Clone(), Stddev: tpl.Clone(), Resultant: tpl.Clone()}

	c45 := math.Cos(45 * math.Pi / 180)
	s45 := math.Sin(45 * math.Pi / 180)
	counts := make([]float64, 8)
	tc := tpl.Cols
	for r := 0; r < tpl.Rows; r++ {
		for c := 0; c < tc; c++ {
			src := (r+w2)*nc + (c + w2)
			counts[0] = vn[src]
			counts[1] = vs[src]
			counts[2] = ve[src]
			counts[3] = vw[src]
			counts[4] = vd1[src]
			counts[5] = vd2[src]
			counts[6] = vd3[src]
			counts[7] = vd4[src]

			sum := 0.0
			for _, v := range counts {
				sum += v
			}
			res.Total.Data[r*tc+c] = sum
			res.Stddev.Data[r*tc+c] = stat.StdDev(counts, nil)

			sumx := ve[src] - vw[src] + c45*(vd1[src]-vd2[src]+vd3[src]-vd4[src])
			sumy := vn[src] - vs[src] + s45*(vd1[src]-vd2[src]-vd3[src]+vd4[src])
			res.Resultant.Data[r*tc+c] = math.Hypot(sumx, sumy)
		}
	}

	return res, nil
}

// visibleForward counts points visible along the ray of increasing
// index from the window centre. The centre itself and its immediate
// neighbour form the baseline; a further point is visible when its
// elevation angle meets the running maximum (ties are visible). The
// half-width must be at least two for the scan to engage, matching
// the reference formulation.
func visibleForward(dat []float64, dh float64) int {
	n := len(dat)
	c := n / 2
	count := 1
	if c < n-2 {
		count = 2
		thetaMax := dat[c+1] - dat[c] - dh
		for i := c + 2; i < n; i++ {
			theta := (dat[i] - dat[c] - dh) / float64(i-c)
			if theta >= thetaMax {
				count++
				thetaMax = theta
			}
		}
	}
	return count
}

// visibleBackward counts points visible along the ray of decreasing
// index from the window centre. Unlike the forward ray, the centre is
// not counted, so its baseline is one lower.
func visibleBackward(dat []float64, dh float64) int {
	c := len(dat) / 2
	count := 0
	if c >= 2 {
		count = 1
		thetaMax := dat[c-1] - dat[c] - dh
		for i := c - 2; i >= 0; i-- {
			theta := (dat[i] - dat[c] - dh) / float64(c-i)
			if theta >= thetaMax {
				count++
				thetaMax = theta
			}
		}
	}
	return count
}
