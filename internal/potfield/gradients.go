package potfield

import (
	"fmt"
	"math"

	"github.com/strata-geo/gridfilter/internal/grid"
)

// Op selects one of the three gradient-style filters. The selection is
// resolved once per call, never per cell.
type Op int

const (
	// OpDirectional is the directional derivative along an azimuth.
	OpDirectional Op = iota
	// OpRatio is the derivative ratio: the directional derivative
	// normalised against its orthogonal counterpart.
	OpRatio
	// OpVertical is the FFT vertical derivative with the input mask
	// re-applied.
	OpVertical
)

// String implements fmt.Stringer for log and report labels.
func (op Op) String() string {
	switch op {
	case OpDirectional:
		return "directional derivative"
	case OpRatio:
		return "derivative ratio"
	case OpVertical:
		return "vertical derivative"
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// Apply runs the selected filter. aziDeg is used by the directional
// variants; order only by the derivative ratio.
func (op Op) Apply(g *grid.Grid, aziDeg float64, order int) (*grid.Grid, error) {
	switch op {
	case OpDirectional:
		return DirectionalDerivative(g, aziDeg), nil
	case OpRatio:
		return DerivativeRatio(g, aziDeg, order)
	case OpVertical:
		dz, err := Vertical(g, 0, 1)
		if err != nil {
			return nil, err
		}
		copy(dz.Mask, g.Mask)
		return dz, nil
	}
	return nil, fmt.Errorf("unknown op %d: %w", int(op), grid.ErrParam)
}

// DirectionalDerivative computes the first derivative of the field
// along aziDeg (degrees from east). The input mask is carried through
// unchanged.
func DirectionalDerivative(g *grid.Grid, aziDeg float64) *grid.Grid {
	azi := aziDeg * math.Pi / 180
	sinA, cosA := math.Sincos(azi)
	dRow, dCol := g.Gradient()

	out := g.Clone()
	for i := range out.Data {
		out.Data[i] = -dCol[i]*sinA - dRow[i]*cosA
	}
	return out
}

// DerivativeRatio normalises the directional derivative against the
// magnitude of its 90-degree-rotated counterpart raised to order,
// mapping the response into (-pi, pi] via atan2. order must be >= 1;
// 1 is the usual starting point.
func DerivativeRatio(g *grid.Grid, aziDeg float64, order int) (*grid.Grid, error) {
	if order < 1 {
		return nil, fmt.Errorf("filter order %d must be >= 1: %w", order, grid.ErrParam)
	}
	azi := aziDeg * math.Pi / 180
	sinA, cosA := math.Sincos(azi)
	sinB, cosB := math.Sincos(azi + math.Pi/2)
	dRow, dCol := g.Gradient()

	out := g.Clone()
	for i := range out.Data {
		dt1 := -dCol[i]*sinA - dRow[i]*cosA
		dt2 := -dCol[i]*sinB - dRow[i]*cosB
		out.Data[i] = math.Atan2(dt1, math.Pow(math.Abs(dt2), float64(order)))
	}
	return out, nil
}
