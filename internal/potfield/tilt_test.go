package potfield

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-geo/gridfilter/internal/grid"
)

// bumpGrid returns a smooth field with a central anomaly, the typical
// shape tilt filters are pointed at.
func bumpGrid(rows, cols int) *grid.Grid {
	g := grid.New(rows, cols)
	cr, cc := float64(rows-1)/2, float64(cols-1)/2
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			dr := (float64(r) - cr) / float64(rows)
			dc := (float64(c) - cc) / float64(cols)
			g.Set(r, c, 100*math.Exp(-12*(dr*dr+dc*dc)))
		}
	}
	return g
}

func TestTilt_Validation(t *testing.T) {
	g := bumpGrid(8, 8)
	_, err := Tilt(g, 0, -1)
	assert.ErrorIs(t, err, grid.ErrParam, "negative smoothing")
	_, err = Tilt(g, 0, 4)
	assert.ErrorIs(t, err, grid.ErrParam, "even smoothing")

	masked := grid.New(6, 6)
	for i := range masked.Mask {
		masked.Mask[i] = true
	}
	_, err = Tilt(masked, 0, 0)
	assert.ErrorIs(t, err, grid.ErrDegenerate, "all-masked input")
}

func TestTilt_Shapes(t *testing.T) {
	g := bumpGrid(20, 16)

	set, err := Tilt(g, 45, 0)
	require.NoError(t, err)
	for name, out := range map[string]*grid.Grid{
		"t1": set.T1, "th": set.TH, "t2": set.T2, "ta": set.TA, "tdx": set.TDX,
	} {
		assert.Equal(t, 20, out.Rows, name)
		assert.Equal(t, 16, out.Cols, name)
	}

	// Valid-mode smoothing shrinks every output by smooth-1 per axis.
	set, err = Tilt(g, 45, 3)
	require.NoError(t, err)
	assert.Equal(t, 18, set.T1.Rows)
	assert.Equal(t, 14, set.T1.Cols)
	assert.Equal(t, 18, set.T2.Rows)
	assert.Equal(t, 14, set.TA.Cols)
}

// Every arctan-family output is bounded by +-pi/2 on finite input.
func TestTilt_AngleBounds(t *testing.T) {
	set, err := Tilt(bumpGrid(24, 24), 30, 3)
	require.NoError(t, err)

	for name, out := range map[string]*grid.Grid{
		"t1": set.T1, "t2": set.T2, "ta": set.TA, "tdx": set.TDX,
	} {
		for i, v := range out.Data {
			if out.Mask[i] {
				continue
			}
			require.Falsef(t, math.IsNaN(v), "%s[%d] is NaN", name, i)
			require.LessOrEqualf(t, math.Abs(v), math.Pi/2, "%s[%d] = %v out of range", name, i, v)
		}
	}
}

func TestTilt_MaskInheritance(t *testing.T) {
	g := bumpGrid(16, 16)
	g.SetMask(4, 4, true)
	g.SetMask(4, 5, true)

	set, err := Tilt(g, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, set.T1.Mask, set.TH.Mask, "th inherits t1 mask")
	assert.Equal(t, set.T1.Mask, set.T2.Mask, "t2 inherits t1 mask")
	assert.True(t, set.T1.IsMasked(4, 4))

	// ta and tdx come back unmasked.
	for i := range set.TA.Mask {
		assert.False(t, set.TA.Mask[i], "ta mask must be clear")
		assert.False(t, set.TDX.Mask[i], "tdx mask must be clear")
	}
}

func TestTilt_DoesNotMutateInput(t *testing.T) {
	g := bumpGrid(12, 12)
	g.SetMask(6, 6, true)
	g.Set(6, 6, math.NaN())

	_, err := Tilt(g, 0, 0)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(g.At(6, 6)), "engine filled the caller's cell in place")
}

func TestTilt_MaskedRowStaysFinite(t *testing.T) {
	g := bumpGrid(16, 16)
	for c := 0; c < 16; c++ {
		g.SetMask(7, c, true)
	}
	set, err := Tilt(g, 75, 0)
	require.NoError(t, err)

	for name, out := range map[string]*grid.Grid{
		"t1": set.T1, "th": set.TH, "t2": set.T2, "ta": set.TA, "tdx": set.TDX,
	} {
		for i, v := range out.Data {
			if out.Mask[i] {
				continue
			}
			require.Falsef(t, math.IsNaN(v) || math.IsInf(v, 0), "%s[%d] = %v", name, i, v)
		}
	}
}

// The hyperbolic angle tracks the standard angle through tanh: where
// |dz/dxtot| < 1 the identity tanh(th) == tan(t1) holds.
func TestTilt_HyperbolicConsistency(t *testing.T) {
	set, err := Tilt(bumpGrid(24, 24), 0, 0)
	require.NoError(t, err)

	checked := 0
	for i := range set.T1.Data {
		if set.T1.Mask[i] {
			continue
		}
		ratio := math.Tan(set.T1.Data[i])
		if math.Abs(ratio) >= 0.99 {
			continue
		}
		assert.InDeltaf(t, ratio, math.Tanh(set.TH.Data[i]), 1e-9, "cell %d", i)
		checked++
	}
	assert.Greater(t, checked, 0, "no cells exercised the identity")
}
