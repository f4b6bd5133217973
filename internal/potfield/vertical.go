package potfield

import (
	"fmt"
	"math"

	"github.com/strata-geo/gridfilter/internal/grid"
)

// Vertical computes the vertical derivative of the field by spectral
// integration: the grid median is removed, masked cells are zeroed,
// the field is edge-padded to a centred npts x npts square (npts <= 0
// selects the next power of two covering the larger dimension), and
// each FFT bin is weighted by its radial wavenumber before the inverse
// transform. The real part is cropped back to the input extent.
//
// The returned grid has a cleared mask; callers re-apply the input
// mask when they need no-data cells suppressed.
func Vertical(g *grid.Grid, npts int, sampleInterval float64) (*grid.Grid, error) {
	if sampleInterval <= 0 {
		return nil, fmt.Errorf("sample interval %g must be positive: %w", sampleInterval, grid.ErrParam)
	}
	nr, nc := g.Rows, g.Cols
	if npts <= 0 {
		npts = grid.NextPow2(maxInt(nr, nc))
	}

	med, err := g.Median()
	if err != nil {
		return nil, fmt.Errorf("vertical derivative: %w", err)
	}

	z := g.Clone()
	for i := range z.Data {
		z.Data[i] -= med
	}
	z.FillMasked(0)

	padded, rOff, cOff, err := z.PadEdgeSquare(npts)
	if err != nil {
		return nil, fmt.Errorf("vertical derivative: %w", err)
	}

	buf := make([]complex128, npts*npts)
	for i, v := range padded.Data {
		buf[i] = complex(v, 0)
	}

	fft2(buf, npts, true)
	wn := 2 * math.Pi / (sampleInterval * float64(npts-1))
	applyRadialWeight(buf, npts, wn)
	fft2(buf, npts, false)

	scale := 1.0 / float64(npts*npts)
	out := g.NewLike()
	for r := 0; r < nr; r++ {
		for c := 0; c < nc; c++ {
			out.Data[r*nc+c] = real(buf[(r+rOff)*npts+(c+cOff)]) * scale
		}
	}
	return out, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
