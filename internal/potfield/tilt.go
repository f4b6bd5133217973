package potfield

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/strata-geo/gridfilter/internal/grid"
)

// TiltSet bundles the five rasters produced by a tilt-angle run. Every
// grid has the shape of the (possibly smoothed) working field. TH and
// T2 inherit T1's mask; TA and TDX are returned unmasked.
type TiltSet struct {
	// T1 is the standard tilt angle atan(dz/|dh|).
	T1 *grid.Grid
	// TH is the hyperbolic tilt angle Re(atanh(dz/|dh|)).
	TH *grid.Grid
	// T2 is the second-order tilt angle: T1 re-smoothed and re-filtered.
	T2 *grid.Grid
	// TA is the tilt-based directional derivative along the azimuth.
	TA *grid.Grid
	// TDX is the total-horizontal-derivative angle atan(|dh|/|dz|).
	TDX *grid.Grid
}

// Tilt derives the tilt-angle family from the field. aziDeg is the
// directional-filter azimuth in degrees from east; smooth is the box
// smoothing size (odd, 0 disables the first-order pass). Valid-mode
// smoothing shrinks every output by smooth-1 cells per axis.
//
// The engine works on an internal clone: masked, NaN and Inf cells are
// filled with the midpoint of the valid data range, and the caller's
// grid is left untouched.
func Tilt(g *grid.Grid, aziDeg float64, smooth int) (*TiltSet, error) {
	if smooth < 0 {
		return nil, fmt.Errorf("smoothing size %d must not be negative: %w", smooth, grid.ErrParam)
	}
	if smooth > 0 && smooth%2 == 0 {
		return nil, fmt.Errorf("smoothing size %d must be odd: %w", smooth, grid.ErrParam)
	}

	lo, hi, err := g.MinMax()
	if err != nil {
		return nil, fmt.Errorf("tilt: %w", err)
	}
	work := g.Clone()
	work.FillInvalid(0.5 * (lo + hi))

	if smooth > 0 {
		work, err = work.BoxSmoothValid(smooth)
		if err != nil {
			return nil, fmt.Errorf("tilt: %w", err)
		}
	}

	azi := aziDeg * math.Pi / 180
	dRow, dCol := work.Gradient()
	npts := grid.NextPow2(maxInt(work.Rows, work.Cols))
	dz, err := Vertical(work, npts, 1)
	if err != nil {
		return nil, fmt.Errorf("tilt: %w", err)
	}

	set := &TiltSet{
		T1:  work.NewLike(),
		TH:  work.NewLike(),
		T2:  work.NewLike(),
		TA:  work.NewLike(),
		TDX: work.NewLike(),
	}

	sinA, cosA := math.Sincos(azi)
	sinB, cosB := math.Sincos(azi + math.Pi/2)
	for i := range work.Data {
		dxtot := math.Hypot(dCol[i], dRow[i])
		ratio := dz.Data[i] / dxtot

		// A 0/0 cell has no defined tilt; it is masked rather than
		// carried as NaN.
		if math.IsNaN(ratio) {
			set.T1.Mask[i] = true
		} else {
			set.T1.Data[i] = math.Atan(ratio)
		}
		set.T1.Mask[i] = set.T1.Mask[i] || work.Mask[i]

		// The complex branch keeps atanh defined for |ratio| > 1.
		hr := ratio
		if math.IsNaN(hr) {
			hr = 0
		}
		set.TH.Data[i] = real(cmplx.Atanh(complex(hr, 0)))

		tdx := math.Atan(dxtot / math.Abs(dz.Data[i]))
		if math.IsNaN(tdx) {
			tdx = 0
		}
		set.TDX.Data[i] = tdx

		dx1 := dCol[i]*cosA + dRow[i]*sinA
		dx2 := dCol[i]*cosB + dRow[i]*sinB
		ta := math.Atan(dx1 / math.Hypot(dx2, dz.Data[i]))
		if math.IsNaN(ta) {
			ta = 0
		}
		set.TA.Data[i] = ta
	}

	// Second order: re-smooth the first-order angle (minimum kernel 3,
	// even when first-order smoothing was disabled) and repeat the
	// filter on the smoothed angle field.
	s2 := smooth
	if s2 < 3 {
		s2 = 3
	}
	ts, err := set.T1.BoxSmoothSame(s2)
	if err != nil {
		return nil, fmt.Errorf("tilt second order: %w", err)
	}
	dRowS, dColS := ts.Gradient()
	dzs, err := Vertical(ts, npts, 1)
	if err != nil {
		return nil, fmt.Errorf("tilt second order: %w", err)
	}
	for i := range ts.Data {
		r2 := dzs.Data[i] / math.Hypot(dColS[i], dRowS[i])
		if !math.IsNaN(r2) {
			set.T2.Data[i] = math.Atan(r2)
		}
	}

	copy(set.TH.Mask, set.T1.Mask)
	copy(set.T2.Mask, set.T1.Mask)

	return set, nil
}
